package controllers

import (
	"context"
	"net/http"

	"github.com/primosportswear/storefront/api/middleware"
	"github.com/primosportswear/storefront/api/responses"
	"github.com/primosportswear/storefront/api/validators"
	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/checkout"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type designService interface {
	Submit(ctx context.Context, input backend.DesignInput) (string, error)
	SubmitPaid(ctx context.Context, userID string, input backend.DesignInput) (*checkout.Session, error)
	ForUser(ctx context.Context, email string) ([]backend.Design, error)
}

type designRequest struct {
	Name        string          `json:"name" validate:"required"`
	ImgURL      string          `json:"imgUrl" validate:"required,url"`
	LogoURL     string          `json:"logoUrl,omitempty"`
	Size        string          `json:"size,omitempty"`
	Description string          `json:"description,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Color       string          `json:"color,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid,omitempty"`
}

// DesignSubmit stores a custom jersey design. When paid is set the design fee
// goes through a payment link first and the design is stored on settlement.
func DesignSubmit(svc designService, returnBaseURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		var payload designRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := backend.DesignInput{
			Name:        payload.Name,
			Email:       sess.Email,
			ImgURL:      payload.ImgURL,
			LogoURL:     payload.LogoURL,
			Size:        payload.Size,
			Description: payload.Description,
			Notes:       payload.Notes,
			Color:       payload.Color,
			Price:       payload.Price,
		}

		if payload.Paid {
			co, err := svc.SubmitPaid(r.Context(), sess.UserID, input)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			url, err := co.Present()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(co, url, returnBaseURL))
			return
		}

		id, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"design_id": id})
	}
}

// DesignList returns the signed-in user's submitted designs.
func DesignList(svc designService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		designs, err := svc.ForUser(r.Context(), sess.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, designs)
	}
}
