package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
	"github.com/adrian5517/nagaclean-client/internal/core/ports"
	"github.com/adrian5517/nagaclean-client/internal/pkg/metrics"
)

// DefaultRefreshInterval matches the 30-second cadence of the pending view.
const DefaultRefreshInterval = 30 * time.Second

// RefreshController keeps the pending-request view eventually consistent with
// the server without a push channel. Overlapping fetches may land in any
// order, so every fetch carries a monotonically increasing sequence number
// and snapshots older than the last applied one are discarded.
type RefreshController struct {
	pickups  ports.PickupService
	interval time.Duration
	logger   zerolog.Logger

	seq atomic.Uint64

	mu          sync.RWMutex
	pending     []domain.PickupRequest
	lastUpdated time.Time
	appliedSeq  uint64
}

func NewRefreshController(pickups ports.PickupService, interval time.Duration, logger zerolog.Logger) *RefreshController {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshController{pickups: pickups, interval: interval, logger: logger}
}

// Start performs the initial fetch, then re-fetches on a fixed interval until
// ctx is cancelled. Cancelling ctx is the only way to stop the timer.
func (c *RefreshController) Start(ctx context.Context) {
	if err := c.refresh(ctx, "initial"); err != nil {
		c.logger.Error().Err(err).Msg("initial pending fetch failed")
	}

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.refresh(ctx, "timer"); err != nil {
					c.logger.Error().Err(err).Msg("scheduled pending fetch failed")
				}
			}
		}
	}()
}

// Refresh bypasses the timer and fetches immediately.
func (c *RefreshController) Refresh(ctx context.Context) error {
	return c.refresh(ctx, "manual")
}

// Accept transitions a pending request to accepted and re-fetches the view.
func (c *RefreshController) Accept(ctx context.Context, id string) error {
	return c.triage(ctx, id, domain.StatusAccepted)
}

// Decline transitions a pending request to declined and re-fetches the view.
func (c *RefreshController) Decline(ctx context.Context, id string) error {
	return c.triage(ctx, id, domain.StatusDeclined)
}

// triage applies the status change, then re-fetches instead of removing the
// item optimistically. If the server rejected the mutation the fresh snapshot
// still shows the record as pending, so the view never drifts.
func (c *RefreshController) triage(ctx context.Context, id string, next domain.PickupStatus) error {
	if _, err := c.pickups.UpdateStatus(ctx, id, domain.StatusPending, next); err != nil {
		return err
	}
	return c.refresh(ctx, "mutation")
}

func (c *RefreshController) refresh(ctx context.Context, trigger string) error {
	seq := c.seq.Add(1)

	items, err := c.pickups.ListPending(ctx)
	if err != nil {
		return err
	}

	if !c.apply(seq, items) {
		metrics.RefreshDiscardedTotal.Inc()
		c.logger.Debug().Uint64("seq", seq).Str("trigger", trigger).Msg("stale snapshot discarded")
		return nil
	}

	metrics.RefreshCyclesTotal.WithLabelValues(trigger).Inc()
	metrics.PendingPickups.Set(float64(len(items)))
	c.logger.Debug().Int("pending", len(items)).Str("trigger", trigger).Msg("pending view refreshed")
	return nil
}

// apply installs a snapshot unless a newer fetch has already completed.
func (c *RefreshController) apply(seq uint64, items []domain.PickupRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.appliedSeq {
		return false
	}
	c.appliedSeq = seq
	c.pending = items
	c.lastUpdated = time.Now()
	return true
}

// Pending returns a copy of the last applied snapshot.
func (c *RefreshController) Pending() []domain.PickupRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.PickupRequest, len(c.pending))
	copy(out, c.pending)
	return out
}

// LastUpdated returns when a snapshot was last applied.
func (c *RefreshController) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}
