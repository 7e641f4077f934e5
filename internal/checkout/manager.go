package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/metrics"
	"go.uber.org/multierr"
)

// Manager owns checkout sessions, one active session per user. Return-URL
// callbacks identify sessions by ID, so the manager also indexes by session.
type Manager struct {
	gw          linkGateway
	fulfill     Fulfillment
	description string
	logg        *logger.Logger
	met         *metrics.CheckoutMetrics

	mu     sync.Mutex
	byUser map[string]*Session
	byID   map[string]*Session
}

// NewManager builds the manager. The default fulfillment and link description
// apply to every Begin call unless overridden.
func NewManager(gw linkGateway, fulfill Fulfillment, description string, logg *logger.Logger, met *metrics.CheckoutMetrics) (*Manager, error) {
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if fulfill == nil {
		return nil, fmt.Errorf("fulfillment required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Manager{
		gw:          gw,
		fulfill:     fulfill,
		description: description,
		logg:        logg,
		met:         met,
		byUser:      make(map[string]*Session),
		byID:        make(map[string]*Session),
	}, nil
}

// Begin validates the intent, creates the payment link, and registers the
// session. A user with a non-terminal session cannot start another one; the
// first checkout must finish or be cancelled before a new link is issued.
// Pass a nil fulfillment to use the manager's default.
func (m *Manager) Begin(ctx context.Context, intent PurchaseIntent, fulfill Fulfillment) (*Session, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	if fulfill == nil {
		fulfill = m.fulfill
	}

	sess := newSession(uuid.NewString(), intent, m.gw, fulfill, m.logg, m.met)

	m.mu.Lock()
	if existing, ok := m.byUser[intent.UserID]; ok && !existing.State().Terminal() {
		m.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a checkout is already in progress")
	}
	m.byUser[intent.UserID] = sess
	m.byID[sess.ID] = sess
	m.mu.Unlock()

	if err := sess.begin(ctx, m.description); err != nil {
		m.remove(sess)
		return nil, err
	}
	return sess, nil
}

// SessionFor returns the user's current session, terminal or not.
func (m *Manager) SessionFor(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.byUser[userID]
	return sess, ok
}

// Resolve looks a session up by its ID, used by return-URL callbacks.
func (m *Manager) Resolve(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.byID[sessionID]
	return sess, ok
}

// Close cancels every non-terminal session so unused payment links do not
// stay live after shutdown.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.byID))
	for _, sess := range m.byID {
		sessions = append(sessions, sess)
	}
	m.mu.Unlock()

	var errs error
	for _, sess := range sessions {
		if sess.State().Terminal() {
			continue
		}
		if _, err := sess.Cancel(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (m *Manager) remove(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.byUser[sess.intent.UserID]; ok && current == sess {
		delete(m.byUser, sess.intent.UserID)
	}
	delete(m.byID, sess.ID)
}
