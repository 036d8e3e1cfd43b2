// Package recovery runs the background sweep that reaps prepare locks
// and transactions orphaned by a crashed or disconnected payment
// engine. It is grounded on the overlay's errgroup-driven background
// loop shape: a ticking maintenance loop started under a cancellable
// context and joined on shutdown.
package recovery

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/payment"
	"github.com/geohub/geod/internal/payment/recovery/checkpoint"
	"github.com/geohub/geod/internal/store"
)

// Config controls the sweep cadence and orphan grace period.
type Config struct {
	Interval     time.Duration
	OrphanAfter  time.Duration // how long a NEW transaction may sit with no PREPARED/ABORTED transition
	SweepLimit   int           // max expired locks, and max stale NEW transactions, listed per sweep
}

// DefaultConfig returns the documented defaults: a 5s sweep interval
// and a 30s orphan grace period, comfortably past the engine's 10s
// overall deadline.
func DefaultConfig() Config {
	return Config{Interval: 5 * time.Second, OrphanAfter: 30 * time.Second, SweepLimit: 500}
}

// Loop periodically reaps expired prepare locks and orphaned NEW
// transactions so a crashed coordinator never leaves capacity reserved
// forever.
type Loop struct {
	store      store.Store
	engine     *payment.Engine
	checkpoint *checkpoint.Store
	cfg        Config

	cancel context.CancelFunc
}

func New(s store.Store, engine *payment.Engine, cp *checkpoint.Store, cfg Config) *Loop {
	return &Loop{store: s, engine: engine, checkpoint: cp, cfg: cfg}
}

// Run blocks, sweeping once immediately and then every cfg.Interval,
// until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.sweepLoop(gCtx) })
	return g.Wait()
}

// Stop cancels the loop's context, causing Run to return.
func (l *Loop) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
}

func (l *Loop) sweepLoop(ctx context.Context) error {
	if err := l.Sweep(ctx); err != nil {
		return fmt.Errorf("recovery: startup sweep: %w", err)
	}

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.Sweep(ctx); err != nil {
				return fmt.Errorf("recovery: sweep: %w", err)
			}
		}
	}
}

// Sweep runs one reap pass immediately: expired prepare locks, then
// orphaned NEW transactions, then a checkpoint record. Exported so
// callers (and tests) can trigger an out-of-band sweep without waiting
// for the ticker.
func (l *Loop) Sweep(ctx context.Context) error {
	now := time.Now().UTC()

	expired, err := l.store.PrepareLocks().ListExpired(ctx, now, l.cfg.SweepLimit)
	if err != nil {
		return err
	}

	byTx := make(map[string]bool, len(expired))
	for _, lock := range expired {
		byTx[lock.TransactionID] = true
	}
	for txID := range byTx {
		if err := l.reapTransaction(ctx, txID); err != nil {
			return err
		}
	}

	stale, err := l.store.Transactions().ListStaleNew(ctx, now.Add(-l.cfg.OrphanAfter), l.cfg.SweepLimit)
	if err != nil {
		return err
	}
	if err := l.reapOrphanedNew(ctx, stale); err != nil {
		return err
	}

	if l.checkpoint != nil {
		return l.checkpoint.RecordSweep(now)
	}
	return nil
}

// reapTransaction aborts a single non-terminal transaction whose
// prepare lock(s) have expired. A lock whose transaction no longer
// exists is skipped. NEW transactions with no locks are handled by
// reapOrphanedNew.
func (l *Loop) reapTransaction(ctx context.Context, txID string) error {
	tx, err := l.store.Transactions().Get(ctx, txID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.NotFound {
			return nil
		}
		return err
	}
	if tx.Terminal() {
		return nil
	}
	return l.engine.Abort(ctx, tx)
}

// reapOrphanedNew aborts transactions still in NEW past the orphan
// grace period — the coordinator died between Create and prepare. Such
// a transaction has no prepare locks to clean up, so it is handled
// separately from the expired-lock path.
func (l *Loop) reapOrphanedNew(ctx context.Context, txs []domain.Transaction) error {
	for i := range txs {
		if err := l.engine.Abort(ctx, &txs[i]); err != nil {
			return err
		}
	}
	return nil
}
