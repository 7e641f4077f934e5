package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/primosportswear/storefront/internal/gateway"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

type linkGateway interface {
	CreateLink(ctx context.Context, amount decimal.Decimal, description string) (*gateway.PaymentLink, error)
	ArchiveLink(ctx context.Context, linkID string) error
}

// Session drives one checkout from link creation to a terminal state. All
// transitions run under the session mutex, so navigation events that arrive
// concurrently are applied one at a time and events after a terminal state
// are ignored.
type Session struct {
	ID     string
	intent PurchaseIntent

	gw      linkGateway
	fulfill Fulfillment
	logg    *logger.Logger
	met     *metrics.CheckoutMetrics

	mu    sync.Mutex
	state State
	link  *gateway.PaymentLink
}

func newSession(id string, intent PurchaseIntent, gw linkGateway, fulfill Fulfillment, logg *logger.Logger, met *metrics.CheckoutMetrics) *Session {
	return &Session{
		ID:      id,
		intent:  intent,
		gw:      gw,
		fulfill: fulfill,
		logg:    logg,
		met:     met,
		state:   StateIdle,
	}
}

// begin asks the provider for a payment link. Only valid from Idle.
func (s *Session) begin(ctx context.Context, description string) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already started")
	}
	s.mu.Unlock()

	if description == "" {
		description = s.intent.Description
	}
	link, err := s.gw.CreateLink(ctx, s.intent.Total(), description)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.link = link
	s.state = StateLinkCreated
	s.mu.Unlock()
	return nil
}

// Present returns the hosted checkout URL and starts observing navigation.
func (s *Session) Present() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.link == nil {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "no payment link to present")
	}
	if s.state == StateLinkCreated {
		s.state = StateObserving
	}
	return s.link.CheckoutURL, nil
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Intent returns the purchase this session was started for.
func (s *Session) Intent() PurchaseIntent {
	return s.intent
}

// HandleNavigation classifies one URL the buyer's webview navigated to. URLs
// containing "success" settle the payment, URLs containing "cancel" abandon
// it; "success" wins when both substrings appear. Anything else, and anything
// arriving after a terminal state, is ignored.
func (s *Session) HandleNavigation(ctx context.Context, rawURL string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return s.state, nil
	}

	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "success"):
		return s.settleLocked(ctx)
	case strings.Contains(lower, "cancel"):
		return s.abandonLocked(ctx)
	default:
		return s.state, nil
	}
}

// Cancel abandons the checkout on the buyer's behalf, for example when the
// webview is dismissed without navigating anywhere.
func (s *Session) Cancel(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return s.state, nil
	}
	return s.abandonLocked(ctx)
}

// settleLocked runs fulfillment after a confirmed payment. A fulfillment
// failure at this point means money moved but no order exists, which is a
// partial failure the caller must surface, never retryable silently.
func (s *Session) settleLocked(ctx context.Context) (State, error) {
	s.state = StateSucceeding

	if err := s.fulfill.Fulfill(ctx, s.intent); err != nil {
		s.state = StateSucceededOrderFailed
		s.met.IncOutcome(s.state.String())
		s.logg.Error(s.logg.WithCheckoutSession(ctx, s.ID), "payment received but order recording failed", err)
		return s.state, pkgerrors.Wrap(pkgerrors.CodePartialFailure, err, "record order after payment")
	}

	s.state = StateSucceeded
	s.met.IncOutcome(s.state.String())
	s.logg.Info(s.logg.WithCheckoutSession(ctx, s.ID), "checkout settled")
	return s.state, nil
}

// abandonLocked retires the unused payment link. Archiving is best effort;
// the session reaches Archived either way.
func (s *Session) abandonLocked(ctx context.Context) (State, error) {
	s.state = StateCancelled

	if s.link != nil {
		s.state = StateArchiving
		if err := s.gw.ArchiveLink(ctx, s.link.ID); err != nil {
			s.logg.Warn(s.logg.WithCheckoutSession(ctx, s.ID), "archive payment link failed: "+err.Error())
		}
	}

	s.state = StateArchived
	s.met.IncOutcome(s.state.String())
	return s.state, nil
}
