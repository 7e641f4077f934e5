package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/session"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
)

// ErrRefreshInFlight reports that a refresh was requested while another one
// was still outstanding. Callers skip the cycle; it is never queued.
var ErrRefreshInFlight = errors.New("cart refresh already in flight")

type backendClient interface {
	CartItems(ctx context.Context, userID string) ([]backend.RawCartEntry, error)
	DeleteFromCart(ctx context.Context, userID, productID string) error
}

// Aggregator maintains the deduplicated cart view for one user session. The
// last successfully published view is retained across failed refreshes
// (stale-but-available).
type Aggregator struct {
	client backendClient
	sess   session.Session
	logg   *logger.Logger

	mu       sync.Mutex
	inFlight bool
	view     []LineItem
	hasView  bool
}

// NewAggregator builds an aggregator bound to one session.
func NewAggregator(client backendClient, sess session.Session, logg *logger.Logger) (*Aggregator, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Aggregator{client: client, sess: sess, logg: logg}, nil
}

// Refresh fetches the raw snapshot, regroups it, and republishes the view.
// On any failure the prior view is kept and the error is returned for
// reporting. A refresh requested while one is outstanding returns
// ErrRefreshInFlight.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return ErrRefreshInFlight
	}
	a.inFlight = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inFlight = false
		a.mu.Unlock()
	}()

	if !a.sess.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view the cart")
	}

	entries, err := a.client.CartItems(ctx, a.sess.UserID)
	if err != nil {
		return err
	}

	items := Group(entries)
	a.mu.Lock()
	a.view = items
	a.hasView = true
	a.mu.Unlock()
	return nil
}

// View returns a copy of the current line items and whether a snapshot has
// ever been published.
func (a *Aggregator) View() ([]LineItem, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]LineItem, len(a.view))
	copy(out, a.view)
	return out, a.hasView
}

// RemoveLineItem deletes the user's cart rows for one product and, on
// success, drops the line item from the published view without waiting for
// the next poll. On failure the view is left unchanged.
func (a *Aggregator) RemoveLineItem(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !a.sess.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to modify the cart")
	}

	if err := a.client.DeleteFromCart(ctx, a.sess.UserID, productID); err != nil {
		return err
	}
	a.logg.Info(a.logg.WithUserID(ctx, a.sess.UserID), "cart line removed: "+productID)

	a.mu.Lock()
	defer a.mu.Unlock()
	filtered := a.view[:0]
	for _, item := range a.view {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	a.view = filtered
	return nil
}

// Session returns the identity this aggregator serves.
func (a *Aggregator) Session() session.Session {
	return a.sess
}
