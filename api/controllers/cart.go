package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/primosportswear/storefront/api/middleware"
	"github.com/primosportswear/storefront/api/responses"
	"github.com/primosportswear/storefront/api/validators"
	"github.com/primosportswear/storefront/internal/cart"
	"github.com/primosportswear/storefront/internal/session"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
)

type cartRegistry interface {
	Acquire(sess session.Session) (*cart.Aggregator, error)
}

type cartAdder interface {
	AddToCart(ctx context.Context, userID, productID string) error
}

type cartViewResponse struct {
	Items []cart.LineItem `json:"items"`
	Fresh bool            `json:"fresh"`
}

// CartView returns the user's aggregated cart. The first request for a user
// triggers a synchronous refresh; after that the poller keeps the view warm
// and this handler serves whatever is cached, stale or not.
func CartView(registry cartRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agg, err := acquireCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, ok := agg.View()
		if !ok {
			if err := agg.Refresh(r.Context()); err != nil && !errors.Is(err, cart.ErrRefreshInFlight) {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items, ok = agg.View()
		}

		responses.WriteSuccess(w, cartViewResponse{Items: items, Fresh: ok})
	}
}

// CartRefresh forces a refresh outside the poll schedule. A refresh already
// in flight is not an error; the handler just returns the current view.
func CartRefresh(registry cartRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agg, err := acquireCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := agg.Refresh(r.Context()); err != nil && !errors.Is(err, cart.ErrRefreshInFlight) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, ok := agg.View()
		responses.WriteSuccess(w, cartViewResponse{Items: items, Fresh: ok})
	}
}

type cartAddRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// CartAdd forwards an add-to-cart to the store backend, then refreshes so the
// new row shows up without waiting for the next poll.
func CartAdd(registry cartRegistry, adder cartAdder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := adder.AddToCart(r.Context(), sess.UserID, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agg, err := registry.Acquire(sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := agg.Refresh(r.Context()); err != nil && !errors.Is(err, cart.ErrRefreshInFlight) {
			if logg != nil {
				logg.Warn(r.Context(), "cart refresh after add failed: "+err.Error())
			}
		}

		items, _ := agg.View()
		responses.WriteSuccessStatus(w, http.StatusCreated, cartViewResponse{Items: items, Fresh: true})
	}
}

// CartRemove deletes every cart row for one product and returns the updated
// view.
func CartRemove(registry cartRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agg, err := acquireCart(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := agg.RemoveLineItem(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, ok := agg.View()
		responses.WriteSuccess(w, cartViewResponse{Items: items, Fresh: ok})
	}
}

func acquireCart(r *http.Request, registry cartRegistry) (*cart.Aggregator, error) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	return registry.Acquire(sess)
}
