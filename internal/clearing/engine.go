// Package clearing is L6: discovery and safe application of positive
// debt cycles. Cycle discovery walks the live debt graph in Go rather
// than issuing per-dialect recursive SQL, so the same code runs
// unchanged against both store backends; policy validation of
// candidate cycles is fanned out across a bounded worker pool with an
// atomic early-abort flag, grounded on the teacher's
// DoMulCheckingDebt/DoMulCheckingDebtHandler shape (other_examples'
// scdoproject-go-scdo DebtPool), and application follows the same
// discover-then-lock-then-apply shape as the payment engine's
// prepare/commit split.
package clearing

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/eventbus"
	"github.com/geohub/geod/internal/invariant"
	"github.com/geohub/geod/internal/router"
	"github.com/geohub/geod/internal/store"
)

// Config holds the clearing engine's cycle-length and throughput limits.
type Config struct {
	TriggerCyclesMaxLen      int           // on-demand search depth, default 4
	PeriodicCyclesMaxLen     int           // periodic batch search depth, default 6
	MaxCyclesPerRun          int           // default 100
	OnDemandConsecutiveBreak int           // safety break, default 10
	PeriodicInterval         time.Duration // default 60m
}

func DefaultConfig() Config {
	return Config{
		TriggerCyclesMaxLen:      4,
		PeriodicCyclesMaxLen:     6,
		MaxCyclesPerRun:          100,
		OnDemandConsecutiveBreak: 10,
		PeriodicInterval:         60 * time.Minute,
	}
}

// Engine discovers and applies debt cycles.
type Engine struct {
	store  store.Store
	router *router.Router
	cfg    Config
	events *eventbus.Bus
}

func New(s store.Store, r *router.Router, cfg Config) *Engine {
	return &Engine{store: s, router: r, cfg: cfg}
}

// SetEventBus wires the engine to publish clearing.committed events to
// bus.
func (e *Engine) SetEventBus(bus *eventbus.Bus) {
	e.events = bus
}

// RunOnDemand is triggered right after a payment commit with the set of
// pairs the payment touched. It searches up to TriggerCyclesMaxLen and
// stops after OnDemandConsecutiveBreak consecutive applied cycles to
// avoid starving other work on a single trigger.
func (e *Engine) RunOnDemand(ctx context.Context, equivalent string, touchedPairs []domain.Pair) (int, error) {
	touched := make(map[domain.Pair]bool, len(touchedPairs))
	for _, p := range touchedPairs {
		touched[p] = true
	}

	candidates, err := discover(ctx, e.store, equivalent, e.cfg.TriggerCyclesMaxLen, touched)
	if err != nil {
		return 0, fmt.Errorf("clearing: discover on-demand cycles: %w", err)
	}
	return e.applyBatch(ctx, candidates, e.cfg.OnDemandConsecutiveBreak)
}

// RunPeriodic scans the whole debt graph up to PeriodicCyclesMaxLen.
func (e *Engine) RunPeriodic(ctx context.Context, equivalent string) (int, error) {
	candidates, err := discover(ctx, e.store, equivalent, e.cfg.PeriodicCyclesMaxLen, nil)
	if err != nil {
		return 0, fmt.Errorf("clearing: discover periodic cycles: %w", err)
	}
	return e.applyBatch(ctx, candidates, e.cfg.MaxCyclesPerRun)
}

// applyBatch validates candidates concurrently (policy checks only, no
// mutation), then applies the surviving cycles one at a time — Apply
// itself takes the segment locks and rechecks live state, so only
// sequential application is safe; the concurrency here just spares the
// discovery-time policy check from being a serial bottleneck on a large
// candidate set.
func (e *Engine) applyBatch(ctx context.Context, candidates []Cycle, breakAfter int) (int, error) {
	valid := e.validateConcurrently(ctx, candidates)

	applied := 0
	consecutive := 0
	for _, c := range valid {
		if applied >= e.cfg.MaxCyclesPerRun {
			break
		}
		if breakAfter > 0 && consecutive >= breakAfter {
			break
		}
		ok, err := e.Apply(ctx, c)
		if err != nil {
			return applied, fmt.Errorf("clearing: apply cycle: %w", err)
		}
		if ok {
			applied++
			consecutive++
		} else {
			consecutive = 0
		}
	}
	return applied, nil
}

// validateConcurrently drops candidates with any edge whose trust-line
// policy has auto_clearing=false, using threads = NumCPU()/2 workers
// (falling back to one thread for small candidate sets), mirroring the
// teacher's single-thread-for-few-items fallback.
func (e *Engine) validateConcurrently(ctx context.Context, candidates []Cycle) []Cycle {
	n := len(candidates)
	threads := runtime.NumCPU() / 2
	if threads <= 1 || n < threads {
		var out []Cycle
		for _, c := range candidates {
			if e.validateCycle(ctx, c) {
				out = append(out, c)
			}
		}
		return out
	}

	results := make([]bool, n)
	var wg sync.WaitGroup
	var hasFatal uint32
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < n && atomic.LoadUint32(&hasFatal) == 0; i += threads {
				results[i] = e.validateCycle(ctx, candidates[i])
			}
		}(w)
	}
	wg.Wait()

	var out []Cycle
	for i, ok := range results {
		if ok {
			out = append(out, candidates[i])
		}
	}
	return out
}

// validateCycle reports whether every edge's trust line has
// auto_clearing enabled, per §4.6's safety rule.
func (e *Engine) validateCycle(ctx context.Context, c Cycle) bool {
	for _, edge := range c.Edges {
		line, err := e.store.TrustLines().Get(ctx, edge.To, edge.From, c.Equivalent)
		if err != nil || !line.Policy.AutoClearing {
			return false
		}
	}
	return true
}

// Apply applies a single cycle inside one store transaction: it
// reacquires the segment locks in sorted order, recomputes Δ from the
// freshly locked state (the discovery-time amounts may be stale),
// decrements every edge, deletes rows that reach zero, persists a
// CLEARING transaction, and reruns the invariant checker (I1/I2 per
// pair, I5 neutrality). It returns false without error if the cycle no
// longer has a positive Δ by the time it is locked — not a failure,
// just a stale candidate.
func (e *Engine) Apply(ctx context.Context, c Cycle) (bool, error) {
	applied := false
	var committed *domain.Transaction
	err := e.store.WithTx(ctx, func(storeTx store.Tx) error {
		fingerprints := sortedFingerprints(c)
		locker := storeTx.Locker()
		for _, fp := range fingerprints {
			if err := locker.Lock(ctx, storeTx, fp); err != nil {
				return err
			}
		}

		before, err := balancesFor(ctx, storeTx, c.Equivalent, c.Edges)
		if err != nil {
			return err
		}

		delta, err := freshDelta(ctx, storeTx, c)
		if err != nil {
			return err
		}
		if delta <= 0 {
			return nil
		}

		pairs := make([]invariant.Pair, 0, len(c.Edges))
		for _, edge := range c.Edges {
			d, err := storeTx.Debts().Get(ctx, edge.From, edge.To, c.Equivalent)
			if err != nil {
				return err
			}
			d.Amount -= delta
			if d.Amount <= 0 {
				if err := storeTx.Debts().Delete(ctx, edge.From, edge.To, c.Equivalent); err != nil {
					return err
				}
			} else if err := storeTx.Debts().Set(ctx, d); err != nil {
				return err
			}
			pairs = append(pairs, invariant.Pair{Debtor: edge.From, Creditor: edge.To})
		}

		record, err := newClearingTransaction(c, delta)
		if err != nil {
			return err
		}
		if err := storeTx.Transactions().Create(ctx, record); err != nil {
			return err
		}

		checker := invariant.New(storeTx)
		if err := checker.CheckPairs(ctx, c.Equivalent, pairs); err != nil {
			return err
		}
		after, err := balancesFor(ctx, storeTx, c.Equivalent, c.Edges)
		if err != nil {
			return err
		}
		if err := checker.CheckNeutrality(ctx, c.Equivalent, before, after); err != nil {
			return err
		}

		applied = true
		committed = record
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied && e.router != nil {
		if cerr := e.router.InvalidateCache(ctx, c.Equivalent); cerr != nil {
			return true, fmt.Errorf("clearing: invalidate graph cache: %w", cerr)
		}
	}
	if applied && e.events != nil {
		e.events.Publish(eventbus.Event{
			Type:          eventbus.ClearingCommitted,
			TransactionID: committed.ID,
			Equivalent:    c.Equivalent,
			Participants:  cycleParticipants(c),
			Amount:        committed.Amount,
			Timestamp:     committed.CreatedAt,
		})
	}
	return applied, nil
}

// cycleParticipants collects the distinct PIDs touched by a cycle's
// edges, for the event bus's Participants field.
func cycleParticipants(c Cycle) []string {
	seen := make(map[string]bool, len(c.Edges)*2)
	var out []string
	add := func(pid string) {
		if !seen[pid] {
			seen[pid] = true
			out = append(out, pid)
		}
	}
	for _, edge := range c.Edges {
		add(edge.From)
		add(edge.To)
	}
	return out
}

// freshDelta recomputes the cycle's minimum edge amount from the
// locked, current state, since discovery may have run against data
// that has since changed underneath it.
func freshDelta(ctx context.Context, storeTx store.Tx, c Cycle) (int64, error) {
	min := int64(-1)
	for _, edge := range c.Edges {
		d, err := storeTx.Debts().Get(ctx, edge.From, edge.To, c.Equivalent)
		if err != nil {
			if apperr.CodeOf(err) == apperr.NotFound {
				return 0, nil
			}
			return 0, err
		}
		if min < 0 || d.Amount < min {
			min = d.Amount
		}
	}
	if min < 0 {
		return 0, nil
	}
	return min, nil
}

// balancesFor snapshots the net balance of every participant touched by
// edges, for the before/after neutrality comparison.
func balancesFor(ctx context.Context, storeTx store.Tx, equivalent string, edges []domain.RouteHop) (map[string]invariant.Balance, error) {
	participants := make(map[string]bool, len(edges))
	for _, e := range edges {
		participants[e.From] = true
		participants[e.To] = true
	}

	debts, err := storeTx.Debts().ListByEquivalent(ctx, equivalent)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]invariant.Balance, len(participants))
	for pid := range participants {
		balances[pid] = 0
	}
	for _, d := range debts {
		if participants[d.Creditor] {
			balances[d.Creditor] += invariant.Balance(d.Amount)
		}
		if participants[d.Debtor] {
			balances[d.Debtor] -= invariant.Balance(d.Amount)
		}
	}
	return balances, nil
}
