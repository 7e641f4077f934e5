package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/primosportswear/storefront/internal/backend"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
)

type orderClient interface {
	Orders(ctx context.Context) ([]backend.Order, error)
}

// Service reads order history. The backend serves every order in the store,
// so the per-user view is filtered client-side by email.
type Service struct {
	client orderClient
}

// NewService wires the order history service.
func NewService(client orderClient) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	return &Service{client: client}, nil
}

// ListForEmail returns the orders placed under the given email, newest last,
// in the order the backend serves them.
func (s *Service) ListForEmail(ctx context.Context, email string) ([]backend.Order, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	all, err := s.client.Orders(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]backend.Order, 0, len(all))
	for _, order := range all {
		if strings.EqualFold(order.Email, email) {
			mine = append(mine, order)
		}
	}
	return mine, nil
}
