package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
)

func pathID(r *http.Request) (uuid.UUID, error) {
	return parseUUIDField(chi.URLParam(r, "id"), "id")
}

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field).
			WithDetails(map[string]any{"field": field})
	}
	return id, nil
}
