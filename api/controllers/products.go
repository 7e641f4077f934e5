package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/primosportswear/storefront/api/responses"
	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/pkg/logger"
)

type productLister interface {
	Products(ctx context.Context) ([]backend.Product, error)
}

// Products serves the catalog, optionally filtered by a case-insensitive
// substring match on name or category via ?q=.
func Products(client productLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := client.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
		if query == "" {
			responses.WriteSuccess(w, all)
			return
		}

		filtered := make([]backend.Product, 0, len(all))
		for _, product := range all {
			if strings.Contains(strings.ToLower(product.Name), query) ||
				strings.Contains(strings.ToLower(product.Category), query) {
				filtered = append(filtered, product)
			}
		}
		responses.WriteSuccess(w, filtered)
	}
}
