package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/api/middleware"
	"github.com/ovenandcrumb/bakeshop-backend/api/responses"
	"github.com/ovenandcrumb/bakeshop-backend/api/validators"
	adminsvc "github.com/ovenandcrumb/bakeshop-backend/internal/admins"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

// AdminLogin exchanges admin credentials for a bearer token.
func AdminLogin(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), adminsvc.LoginInput{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminMe returns the profile for the authenticated admin.
func AdminMe(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := middleware.AdminIDFromContext(r.Context())
		adminID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authentication"))
			return
		}

		admin, err := svc.Profile(r.Context(), adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, admin)
	}
}
