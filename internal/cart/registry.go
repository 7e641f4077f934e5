package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/primosportswear/storefront/internal/session"
	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/metrics"
)

type entry struct {
	agg    *Aggregator
	cancel context.CancelFunc
}

// Registry owns one aggregator per signed-in user and ties the poll loop's
// lifetime to the user's presence. Acquire is idempotent for a user; Release
// stops their poller and drops the cached view.
type Registry struct {
	client       backendClient
	logg         *logger.Logger
	met          *metrics.CartPollMetrics
	pollInterval time.Duration
	pollEnabled  bool

	mu      sync.Mutex
	entries map[string]*entry
	wg      sync.WaitGroup
	closed  bool
}

// NewRegistry builds the registry. When pollEnabled is false aggregators are
// still created but refreshes only happen on demand.
func NewRegistry(client backendClient, pollInterval time.Duration, pollEnabled bool, logg *logger.Logger, met *metrics.CartPollMetrics) (*Registry, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Registry{
		client:       client,
		logg:         logg,
		met:          met,
		pollInterval: pollInterval,
		pollEnabled:  pollEnabled,
		entries:      make(map[string]*entry),
	}, nil
}

// Acquire returns the user's aggregator, creating it and starting its poll
// loop on first use.
func (r *Registry) Acquire(sess session.Session) (*Aggregator, error) {
	if !sess.Authenticated() {
		return nil, fmt.Errorf("session has no user id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, fmt.Errorf("registry is closed")
	}
	if e, ok := r.entries[sess.UserID]; ok {
		return e.agg, nil
	}

	agg, err := NewAggregator(r.client, sess, r.logg)
	if err != nil {
		return nil, err
	}

	e := &entry{agg: agg}
	if r.pollEnabled {
		ctx, cancel := context.WithCancel(context.Background())
		e.cancel = cancel
		poller := NewPoller(agg, r.pollInterval, r.logg, r.met)
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			poller.Run(ctx)
		}()
	}
	r.entries[sess.UserID] = e
	return agg, nil
}

// Lookup returns the user's aggregator without creating one.
func (r *Registry) Lookup(userID string) (*Aggregator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		return nil, false
	}
	return e.agg, true
}

// Release stops the user's poll loop and forgets their cached view.
func (r *Registry) Release(userID string) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	if ok {
		delete(r.entries, userID)
	}
	r.mu.Unlock()

	if ok && e.cancel != nil {
		e.cancel()
	}
}

// Close stops every poll loop and waits for them to exit.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		if e.cancel != nil {
			e.cancel()
		}
	}
	r.wg.Wait()
}
