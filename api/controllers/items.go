package controllers

import (
	"net/http"
	"strings"

	"github.com/ovenandcrumb/bakeshop-backend/api/responses"
	"github.com/ovenandcrumb/bakeshop-backend/api/validators"
	itemsvc "github.com/ovenandcrumb/bakeshop-backend/internal/items"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// PublicListItems lists active catalog items for the storefront.
func PublicListItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListItems(r.Context(), true, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func PublicGetItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminListItems lists the full catalog, inactive items included.
func AdminListItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListItems(r.Context(), false, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type tierRequest struct {
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"required,gt=0"`
	Label          string `json:"label,omitempty"`
}

type componentRequest struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type createItemRequest struct {
	Name             string             `json:"name" validate:"required,min=2,max=120"`
	Description      string             `json:"description,omitempty" validate:"max=2000"`
	Type             string             `json:"type" validate:"required,oneof=single bundle"`
	Tiers            []tierRequest      `json:"tiers,omitempty" validate:"omitempty,dive"`
	BundlePriceCents *int64             `json:"bundle_price_cents,omitempty" validate:"omitempty,gt=0"`
	Components       []componentRequest `json:"components,omitempty" validate:"omitempty,dive"`
	ImageURL         string             `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive         *bool              `json:"is_active,omitempty"`
}

func (req createItemRequest) toInput() itemsvc.CreateItemInput {
	input := itemsvc.CreateItemInput{
		Name:     strings.TrimSpace(req.Name),
		Type:     enums.ItemType(req.Type),
		IsActive: true,
	}
	if req.Description != "" {
		desc := strings.TrimSpace(req.Description)
		input.Description = &desc
	}
	if req.ImageURL != "" {
		url := strings.TrimSpace(req.ImageURL)
		input.ImageURL = &url
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}
	for _, tier := range req.Tiers {
		input.Tiers = append(input.Tiers, itemsvc.TierInput{
			Quantity:       tier.Quantity,
			UnitPriceCents: money.Cents(tier.UnitPriceCents),
			Label:          strings.TrimSpace(tier.Label),
		})
	}
	if req.BundlePriceCents != nil {
		price := money.Cents(*req.BundlePriceCents)
		input.BundlePriceCents = &price
	}
	for _, comp := range req.Components {
		input.Components = append(input.Components, itemsvc.ComponentInput{
			Name:     strings.TrimSpace(comp.Name),
			Quantity: comp.Quantity,
		})
	}
	return input
}

func AdminCreateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateItemRequest struct {
	Name             *string            `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description      *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Tiers            []tierRequest      `json:"tiers,omitempty" validate:"omitempty,dive"`
	BundlePriceCents *int64             `json:"bundle_price_cents,omitempty" validate:"omitempty,gt=0"`
	Components       []componentRequest `json:"components,omitempty" validate:"omitempty,dive"`
	ImageURL         *string            `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive         *bool              `json:"is_active,omitempty"`
}

func (req updateItemRequest) toInput() itemsvc.UpdateItemInput {
	input := itemsvc.UpdateItemInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
	if req.Tiers != nil {
		tiers := make([]itemsvc.TierInput, 0, len(req.Tiers))
		for _, tier := range req.Tiers {
			tiers = append(tiers, itemsvc.TierInput{
				Quantity:       tier.Quantity,
				UnitPriceCents: money.Cents(tier.UnitPriceCents),
				Label:          strings.TrimSpace(tier.Label),
			})
		}
		input.Tiers = &tiers
	}
	if req.BundlePriceCents != nil {
		price := money.Cents(*req.BundlePriceCents)
		input.BundlePriceCents = &price
	}
	if req.Components != nil {
		components := make([]itemsvc.ComponentInput, 0, len(req.Components))
		for _, comp := range req.Components {
			components = append(components, itemsvc.ComponentInput{
				Name:     strings.TrimSpace(comp.Name),
				Quantity: comp.Quantity,
			})
		}
		input.Components = &components
	}
	return input
}

func AdminUpdateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminDeleteItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
