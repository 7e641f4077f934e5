package controllers

import (
	"context"
	"net/http"

	"github.com/primosportswear/storefront/api/middleware"
	"github.com/primosportswear/storefront/api/responses"
	"github.com/primosportswear/storefront/internal/backend"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
)

type orderService interface {
	ListForEmail(ctx context.Context, email string) ([]backend.Order, error)
}

// OrdersList returns the signed-in user's order history.
func OrdersList(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		orders, err := svc.ListForEmail(r.Context(), sess.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}
