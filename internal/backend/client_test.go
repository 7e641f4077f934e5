package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/primosportswear/storefront/pkg/config"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.BackendConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	return client, srv
}

func TestCartItemsDecodesSnapshot(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getCartItems", r.URL.Path)
		require.Equal(t, "u1", r.URL.Query().Get("userID"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"data": []map[string]any{
				{"_id": "c1", "userID": "u1", "productID": "p1", "product": map[string]any{"name": "Home Jersey", "price": 450, "image": "img"}},
				{"_id": "c2", "userID": "u1", "productID": "p2"},
			},
		})
	}))

	entries, err := client.CartItems(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Home Jersey", entries[0].Product.Name)
	require.True(t, entries[0].Product.Price.Equal(decimal.NewFromInt(450)))
	require.Nil(t, entries[1].Product)
}

func TestCartItemsRequiresUserID(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.CartItems(context.Background(), " ")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.False(t, called, "validation failures must not reach the network")
}

func TestCreateOrderReadsNestedAndFlatIDs(t *testing.T) {
	input := OrderInput{
		UserID:      "u1",
		Name:        "Home Jersey",
		Quantity:    2,
		Price:       decimal.NewFromInt(450),
		TotalAmount: decimal.NewFromInt(900),
	}

	for name, body := range map[string]any{
		"nested": map[string]any{"order": map[string]any{"_id": "o1"}},
		"flat":   map[string]any{"_id": "o1"},
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/CreateOrders", r.URL.Path)
				_ = json.NewEncoder(w).Encode(body)
			}))
			id, err := client.CreateOrder(context.Background(), input)
			require.NoError(t, err)
			require.Equal(t, "o1", id)
		})
	}
}

func TestCreateOrderSurfacesServerMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "size out of stock"})
	}))

	_, err := client.CreateOrder(context.Background(), OrderInput{
		UserID:      "u1",
		Name:        "Home Jersey",
		Quantity:    1,
		Price:       decimal.NewFromInt(450),
		TotalAmount: decimal.NewFromInt(450),
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBackend))
	require.Contains(t, err.Error(), "size out of stock")
}

func TestTransportErrorWhenBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client, err := NewClient(config.BackendConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Products(context.Background())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeTransport))
}

func TestCreateOrderValidation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected")
	}))

	cases := []OrderInput{
		{Name: "Home Jersey", Quantity: 1, TotalAmount: decimal.NewFromInt(450)},
		{UserID: "u1", Quantity: 1, TotalAmount: decimal.NewFromInt(450)},
		{UserID: "u1", Name: "Home Jersey", Quantity: 0, TotalAmount: decimal.NewFromInt(450)},
		{UserID: "u1", Name: "Home Jersey", Quantity: 1, TotalAmount: decimal.Zero},
	}
	for _, input := range cases {
		_, err := client.CreateOrder(context.Background(), input)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %+v", input)
	}
}
