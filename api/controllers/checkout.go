package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/primosportswear/storefront/api/middleware"
	"github.com/primosportswear/storefront/api/responses"
	"github.com/primosportswear/storefront/api/validators"
	"github.com/primosportswear/storefront/internal/checkout"
	"github.com/primosportswear/storefront/internal/session"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/enums"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/types"
)

type checkoutManager interface {
	Begin(ctx context.Context, intent checkout.PurchaseIntent, fulfill checkout.Fulfillment) (*checkout.Session, error)
	SessionFor(userID string) (*checkout.Session, bool)
	Resolve(sessionID string) (*checkout.Session, bool)
}

type checkoutBeginRequest struct {
	ProductID      string         `json:"product_id,omitempty"`
	Quantity       int            `json:"quantity,omitempty"`
	Address        *types.Address `json:"address,omitempty"`
	DeliveryOption string         `json:"delivery_option,omitempty"`
}

type checkoutResponse struct {
	SessionID        string `json:"session_id"`
	CheckoutURL      string `json:"checkout_url,omitempty"`
	State            string `json:"state"`
	SuccessReturnURL string `json:"success_return_url,omitempty"`
	CancelReturnURL  string `json:"cancel_return_url,omitempty"`
}

func newCheckoutResponse(co *checkout.Session, checkoutURL, returnBaseURL string) checkoutResponse {
	resp := checkoutResponse{
		SessionID:   co.ID,
		CheckoutURL: checkoutURL,
		State:       co.State().String(),
	}
	if returnBaseURL != "" {
		base := strings.TrimRight(returnBaseURL, "/")
		resp.SuccessReturnURL = base + "/checkout/return/" + co.ID + "/success"
		resp.CancelReturnURL = base + "/checkout/return/" + co.ID + "/cancel"
	}
	return resp
}

// CheckoutBegin starts a checkout from either the aggregated cart (default)
// or a single product when product_id is set (buy now, cart untouched). The
// user must not already have an active checkout.
func CheckoutBegin(registry cartRegistry, products productLister, mgr checkoutManager, returnBaseURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		var payload checkoutBeginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var delivery enums.DeliveryOption
		if payload.DeliveryOption != "" {
			parsed, err := enums.ParseDeliveryOption(payload.DeliveryOption)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery option"))
				return
			}
			delivery = parsed
		}

		var intent checkout.PurchaseIntent
		if payload.ProductID != "" {
			built, err := buyNowIntent(r, products, sess, payload, delivery)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			intent = built
		} else {
			built, err := cartIntent(r, registry, sess, payload, delivery)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			intent = built
		}

		co, err := mgr.Begin(r.Context(), intent, nil)
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
	}
}

func cartIntent(r *http.Request, registry cartRegistry, sess session.Session, payload checkoutBeginRequest, delivery enums.DeliveryOption) (checkout.PurchaseIntent, error) {
	agg, err := registry.Acquire(sess)
	if err != nil {
		return checkout.PurchaseIntent{}, err
	}
	items, hasView := agg.View()
	if !hasView {
		if err := agg.Refresh(r.Context()); err != nil {
			return checkout.PurchaseIntent{}, err
		}
		items, _ = agg.View()
	}
	if len(items) == 0 {
		return checkout.PurchaseIntent{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return checkout.IntentFromCart(sess.UserID, sess.Email, items, payload.Address, delivery), nil
}

func buyNowIntent(r *http.Request, products productLister, sess session.Session, payload checkoutBeginRequest, delivery enums.DeliveryOption) (checkout.PurchaseIntent, error) {
	quantity := payload.Quantity
	if quantity == 0 {
		quantity = 1
	}

	catalog, err := products.Products(r.Context())
	if err != nil {
		return checkout.PurchaseIntent{}, err
	}
	for _, product := range catalog {
		if product.ID == payload.ProductID {
			return checkout.IntentFromProduct(sess.UserID, sess.Email, product, quantity, payload.Address, delivery), nil
		}
	}
	return checkout.PurchaseIntent{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// CheckoutStatus reports the user's current checkout, if any.
func CheckoutStatus(mgr checkoutManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		co, ok := mgr.SessionFor(sess.UserID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress"))
			return
		}

		responses.WriteSuccess(w, checkoutResponse{SessionID: co.ID, State: co.State().String()})
	}
}

type checkoutEventRequest struct {
	URL string `json:"url" validate:"required"`
}

// CheckoutEvent feeds one webview navigation URL into the user's checkout.
// The classification result, including an unchanged state for unrelated URLs,
// comes back to the caller.
func CheckoutEvent(mgr checkoutManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		var payload checkoutEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		co, ok := mgr.SessionFor(sess.UserID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress"))
			return
		}

		state, err := co.HandleNavigation(r.Context(), payload.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{SessionID: co.ID, State: state.String()})
	}
}

// CheckoutCancel abandons the user's active checkout, archiving its link.
func CheckoutCancel(mgr checkoutManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		co, ok := mgr.SessionFor(sess.UserID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress"))
			return
		}

		state, err := co.Cancel(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{SessionID: co.ID, State: state.String()})
	}
}

// CheckoutReturn handles the provider's redirect back to us. The path itself
// carries the outcome, so the full request URL goes through the same
// classifier as in-app navigation events.
func CheckoutReturn(mgr checkoutManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		co, ok := mgr.Resolve(chi.URLParam(r, "sessionId"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown checkout session"))
			return
		}

		state, err := co.HandleNavigation(r.Context(), r.URL.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{SessionID: co.ID, State: state.String()})
	}
}
