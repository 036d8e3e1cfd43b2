package clearing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geohub/geod/internal/domain"
)

// Scheduler runs the periodic batch clearing sweep across every active
// equivalent on a ticker, the same errgroup-driven background-loop
// shape the recovery loop uses.
type Scheduler struct {
	engine *Engine
	cancel context.CancelFunc
}

func NewScheduler(e *Engine) *Scheduler {
	return &Scheduler{engine: e}
}

// Run blocks, running a periodic batch every engine.cfg.PeriodicInterval,
// until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.loop(gCtx) })
	return g.Wait()
}

// Stop cancels the scheduler's context, causing Run to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Scheduler) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.engine.cfg.PeriodicInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.runOnce(ctx); err != nil {
				return fmt.Errorf("clearing: periodic sweep: %w", err)
			}
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) error {
	equivalents, err := s.engine.store.Equivalents().List(ctx)
	if err != nil {
		return err
	}
	for _, eq := range equivalents {
		if eq.Status != domain.EquivalentActive {
			continue
		}
		if _, err := s.engine.RunPeriodic(ctx, eq.Code); err != nil {
			return err
		}
	}
	return nil
}
