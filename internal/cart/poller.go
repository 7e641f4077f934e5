package cart

import (
	"context"
	"errors"
	"time"

	"github.com/primosportswear/storefront/pkg/logger"
	"github.com/primosportswear/storefront/pkg/metrics"
)

const (
	triggerInitial = "initial"
	triggerTick    = "tick"
)

// Poller drives an aggregator on a fixed interval. Ticks that land while a
// refresh is still running are skipped, never queued, so slow backends cannot
// build a backlog of snapshot fetches.
type Poller struct {
	agg      *Aggregator
	interval time.Duration
	logg     *logger.Logger
	met      *metrics.CartPollMetrics
}

// NewPoller wires a poller to one aggregator.
func NewPoller(agg *Aggregator, interval time.Duration, logg *logger.Logger, met *metrics.CartPollMetrics) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{agg: agg, interval: interval, logg: logg, met: met}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx, triggerInitial)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, triggerTick)
		}
	}
}

func (p *Poller) refresh(ctx context.Context, trigger string) {
	started := time.Now()
	err := p.agg.Refresh(ctx)
	if errors.Is(err, ErrRefreshInFlight) {
		p.met.IncSkippedTick()
		return
	}
	p.met.ObserveRefresh(trigger, time.Since(started), err)
	if err != nil && !errors.Is(err, context.Canceled) {
		p.logg.Warn(p.logg.WithUserID(ctx, p.agg.Session().UserID), "cart refresh failed: "+err.Error())
	}
}
