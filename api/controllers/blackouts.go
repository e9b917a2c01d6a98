package controllers

import (
	"net/http"

	"github.com/ovenandcrumb/bakeshop-backend/api/responses"
	"github.com/ovenandcrumb/bakeshop-backend/api/validators"
	blackoutsvc "github.com/ovenandcrumb/bakeshop-backend/internal/blackouts"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
)

// ListBlackouts returns the upcoming blackout days, today included. The
// storefront uses it to grey days out; the admin console uses it to manage
// them.
func ListBlackouts(svc blackoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := svc.ListUpcoming(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"blackouts": days})
	}
}

type addBlackoutRequest struct {
	Day    string  `json:"day" validate:"required,datetime=2006-01-02"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=300"`
}

func AdminAddBlackout(svc blackoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addBlackoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		day, err := svc.AddBlackout(r.Context(), blackoutsvc.AddBlackoutInput{
			Day:    payload.Day,
			Reason: payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, day)
	}
}

func AdminRemoveBlackout(svc blackoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveBlackout(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
