package orders

import (
	"context"
	"testing"

	"github.com/primosportswear/storefront/internal/backend"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	orders []backend.Order
	err    error
}

func (f *fakeOrders) Orders(ctx context.Context) ([]backend.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func TestListForEmailFilters(t *testing.T) {
	fb := &fakeOrders{orders: []backend.Order{
		{ID: "o1", Email: "buyer@example.com"},
		{ID: "o2", Email: "other@example.com"},
		{ID: "o3", Email: "BUYER@example.com"},
	}}
	svc, err := NewService(fb)
	require.NoError(t, err)

	mine, err := svc.ListForEmail(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "o1", mine[0].ID)
	require.Equal(t, "o3", mine[1].ID)
}

func TestListForEmailRequiresEmail(t *testing.T) {
	svc, err := NewService(&fakeOrders{})
	require.NoError(t, err)

	_, err = svc.ListForEmail(context.Background(), " ")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListForEmailPropagatesBackendError(t *testing.T) {
	fb := &fakeOrders{err: pkgerrors.New(pkgerrors.CodeTransport, "backend unreachable")}
	svc, err := NewService(fb)
	require.NoError(t, err)

	_, err = svc.ListForEmail(context.Background(), "buyer@example.com")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeTransport))
}
