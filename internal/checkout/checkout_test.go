package checkout

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/cart"
	"github.com/primosportswear/storefront/internal/gateway"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu        sync.Mutex
	created   int
	createErr error
	archived  []string
	archErr   error
}

func (f *fakeGateway) CreateLink(ctx context.Context, amount decimal.Decimal, description string) (*gateway.PaymentLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	return &gateway.PaymentLink{ID: "link_1", CheckoutURL: "https://pm.link/abc"}, nil
}

func (f *fakeGateway) ArchiveLink(ctx context.Context, linkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.archErr != nil {
		return f.archErr
	}
	f.archived = append(f.archived, linkID)
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    []backend.OrderInput
	orderErr  error
	deleted   []string
	deleteErr error
}

func (f *fakeOrders) CreateOrder(ctx context.Context, input backend.OrderInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderErr != nil {
		return "", f.orderErr
	}
	f.orders = append(f.orders, input)
	return "o1", nil
}

func (f *fakeOrders) DeleteFromCart(ctx context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, productID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func testIntent() PurchaseIntent {
	return PurchaseIntent{
		UserID: "u1",
		Email:  "buyer@example.com",
		Lines: []IntentLine{
			{
				ProductID:    "p1",
				CartEntryIDs: []string{"c1", "c2"},
				Name:         "Home Jersey",
				UnitPrice:    decimal.NewFromInt(450),
				Quantity:     2,
			},
		},
	}
}

func newTestManager(t *testing.T, gw *fakeGateway, orders *fakeOrders) *Manager {
	t.Helper()
	fulfill, err := NewOrderFulfillment(orders, testLogger())
	require.NoError(t, err)
	mgr, err := NewManager(gw, fulfill, "jersey order", testLogger(), nil)
	require.NoError(t, err)
	return mgr
}

func TestSuccessfulCheckoutRecordsOrdersAndClearsCart(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrders{}
	mgr := newTestManager(t, gw, orders)

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)
	require.Equal(t, StateLinkCreated, sess.State())

	url, err := sess.Present()
	require.NoError(t, err)
	require.Equal(t, "https://pm.link/abc", url)
	require.Equal(t, StateObserving, sess.State())

	state, err := sess.HandleNavigation(context.Background(), "https://shop.example.com/payment/success?ref=1")
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, state)

	require.Len(t, orders.orders, 1)
	require.True(t, orders.orders[0].TotalAmount.Equal(decimal.NewFromInt(900)))
	require.Equal(t, []string{"p1"}, orders.deleted)
	require.Empty(t, gw.archived, "successful checkouts do not archive the link")
}

func TestCancelledCheckoutArchivesLink(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrders{}
	mgr := newTestManager(t, gw, orders)

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)
	_, err = sess.Present()
	require.NoError(t, err)

	state, err := sess.HandleNavigation(context.Background(), "https://shop.example.com/payment/cancel")
	require.NoError(t, err)
	require.Equal(t, StateArchived, state)
	require.Equal(t, []string{"link_1"}, gw.archived)
	require.Empty(t, orders.orders)
}

func TestSuccessWinsWhenBothSubstringsAppear(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrders{}
	mgr := newTestManager(t, gw, orders)

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	state, err := sess.HandleNavigation(context.Background(), "https://shop.example.com/success?from=cancel")
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, state)
}

func TestUnrelatedNavigationIsIgnored(t *testing.T) {
	gw := &fakeGateway{}
	mgr := newTestManager(t, gw, &fakeOrders{})

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)
	_, err = sess.Present()
	require.NoError(t, err)

	state, err := sess.HandleNavigation(context.Background(), "https://pm.link/abc/3ds-challenge")
	require.NoError(t, err)
	require.Equal(t, StateObserving, state)
}

func TestNavigationAfterTerminalStateIsIgnored(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrders{}
	mgr := newTestManager(t, gw, orders)

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	_, err = sess.HandleNavigation(context.Background(), "https://shop.example.com/success")
	require.NoError(t, err)

	state, err := sess.HandleNavigation(context.Background(), "https://shop.example.com/cancel")
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, state)
	require.Len(t, orders.orders, 1, "fulfillment runs exactly once")
	require.Empty(t, gw.archived)
}

func TestFulfillmentFailureIsPartialFailure(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrders{orderErr: pkgerrors.New(pkgerrors.CodeBackend, "orders endpoint down")}
	mgr := newTestManager(t, gw, orders)

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	state, err := sess.HandleNavigation(context.Background(), "https://shop.example.com/success")
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodePartialFailure))
	require.Equal(t, StateSucceededOrderFailed, state)
	require.True(t, state.Terminal())
}

func TestCartCleanupFailureDoesNotFailCheckout(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrders{deleteErr: pkgerrors.New(pkgerrors.CodeBackend, "delete down")}
	mgr := newTestManager(t, gw, orders)

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	state, err := sess.HandleNavigation(context.Background(), "https://shop.example.com/success")
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, state)
}

func TestArchiveFailureStillArchivesSession(t *testing.T) {
	gw := &fakeGateway{archErr: pkgerrors.New(pkgerrors.CodeGateway, "archive down")}
	mgr := newTestManager(t, gw, &fakeOrders{})

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	state, err := sess.Cancel(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateArchived, state)
}

func TestBeginRejectsSecondActiveCheckout(t *testing.T) {
	gw := &fakeGateway{}
	mgr := newTestManager(t, gw, &fakeOrders{})

	_, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	_, err = mgr.Begin(context.Background(), testIntent(), nil)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	require.Equal(t, 1, gw.created)
}

func TestBeginAllowsNewCheckoutAfterTerminal(t *testing.T) {
	gw := &fakeGateway{}
	mgr := newTestManager(t, gw, &fakeOrders{})

	first, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)
	_, err = first.Cancel(context.Background())
	require.NoError(t, err)

	second, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestBeginRejectsInvalidIntent(t *testing.T) {
	gw := &fakeGateway{}
	mgr := newTestManager(t, gw, &fakeOrders{})

	cases := map[string]PurchaseIntent{
		"no user":       {Lines: []IntentLine{{Name: "Home Jersey", UnitPrice: decimal.NewFromInt(450), Quantity: 1}}},
		"no lines":      {UserID: "u1"},
		"zero total":    {UserID: "u1", Lines: []IntentLine{{Name: "Home Jersey", Quantity: 1}}},
		"zero quantity": {UserID: "u1", Lines: []IntentLine{{Name: "Home Jersey", UnitPrice: decimal.NewFromInt(450)}}},
	}
	for name, intent := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := mgr.Begin(context.Background(), intent, nil)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
	require.Equal(t, 0, gw.created, "invalid intents never reach the provider")
}

func TestResolveFindsSessionByID(t *testing.T) {
	mgr := newTestManager(t, &fakeGateway{}, &fakeOrders{})

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	found, ok := mgr.Resolve(sess.ID)
	require.True(t, ok)
	require.Same(t, sess, found)

	_, ok = mgr.Resolve("missing")
	require.False(t, ok)
}

func TestCloseArchivesActiveSessions(t *testing.T) {
	gw := &fakeGateway{}
	mgr := newTestManager(t, gw, &fakeOrders{})

	sess, err := mgr.Begin(context.Background(), testIntent(), nil)
	require.NoError(t, err)

	require.NoError(t, mgr.Close(context.Background()))
	require.Equal(t, StateArchived, sess.State())
	require.Equal(t, []string{"link_1"}, gw.archived)
}

func TestIntentFromProductLeavesCartAlone(t *testing.T) {
	product := backend.Product{
		ID:       "p1",
		Name:     "Home Jersey",
		Price:    decimal.NewFromInt(450),
		Size:     "L",
		Category: "jersey",
	}
	intent := IntentFromProduct("u1", "buyer@example.com", product, 2, nil, "")

	require.Len(t, intent.Lines, 1)
	require.Empty(t, intent.Lines[0].CartEntryIDs)
	require.True(t, intent.Total().Equal(decimal.NewFromInt(900)))
	require.NoError(t, intent.Validate())

	orders := &fakeOrders{}
	fulfill, err := NewOrderFulfillment(orders, testLogger())
	require.NoError(t, err)
	require.NoError(t, fulfill.Fulfill(context.Background(), intent))
	require.Len(t, orders.orders, 1)
	require.Empty(t, orders.deleted, "direct purchases never touch the cart")
}

func TestIntentFromCartCarriesEntryIDs(t *testing.T) {
	items := []cart.LineItem{
		{CartEntryIDs: []string{"c1", "c2"}, ProductID: "p1", ProductName: "Home Jersey", UnitPrice: decimal.NewFromInt(450), Quantity: 2},
	}
	intent := IntentFromCart("u1", "buyer@example.com", items, nil, "")

	require.Equal(t, "u1", intent.UserID)
	require.Len(t, intent.Lines, 1)
	require.Equal(t, []string{"c1", "c2"}, intent.Lines[0].CartEntryIDs)
	require.True(t, intent.Total().Equal(decimal.NewFromInt(900)))
}
