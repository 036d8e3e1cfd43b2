package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/eventbus"
	"github.com/geohub/geod/internal/invariant"
	"github.com/geohub/geod/internal/store"
)

// commit runs §4.5's commit phase: reacquire the segment locks in the
// same sorted order, refuse if any lock has expired, apply debt deltas
// with netting-first semantics, delete the locks, rerun the invariant
// checker as a circuit breaker, and transition to COMMITTED.
func (e *Engine) commit(ctx context.Context, tx *domain.Transaction) error {
	fingerprints := sortedFingerprints(tx.Equivalent, tx.Routes)

	err := e.store.WithTx(ctx, func(storeTx store.Tx) error {
		locker := storeTx.Locker()
		for _, fp := range fingerprints {
			if err := locker.Lock(ctx, storeTx, fp); err != nil {
				return err
			}
		}

		locks, err := storeTx.PrepareLocks().ListByTransaction(ctx, tx.ID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, l := range locks {
			if l.Expired(now) {
				return apperr.New(apperr.Timeout, "payment.commit", "prepare lock expired before commit").
					WithDetail("lock_id", l.ID)
			}
		}

		pairs := make([]invariant.Pair, 0, len(tx.Routes))
		for _, hop := range sortedHops(tx.Routes) {
			if err := applyDebtDelta(ctx, storeTx, tx.Equivalent, hop); err != nil {
				return err
			}
			pairs = append(pairs, invariant.Pair{Debtor: hop.From, Creditor: hop.To})
		}

		for _, l := range locks {
			if err := storeTx.PrepareLocks().Delete(ctx, l.ID); err != nil {
				return err
			}
		}

		checker := invariant.New(storeTx)
		if err := checker.CheckPairs(ctx, tx.Equivalent, pairs); err != nil {
			return err
		}
		if err := checker.CheckZeroSum(ctx, tx.Equivalent); err != nil {
			return err
		}

		if err := storeTx.Transactions().UpdateStatus(ctx, tx.ID, domain.StatusCommitted); err != nil {
			return err
		}
		tx.Status = domain.StatusCommitted
		return nil
	})

	if err != nil {
		if apperr.CodeOf(err) == apperr.InvariantViolation {
			_ = e.Abort(ctx, tx)
		} else if apperr.CodeOf(err) == apperr.Timeout {
			_ = e.Abort(ctx, tx)
		}
		return err
	}

	if e.router != nil {
		if err := e.router.InvalidateCache(ctx, tx.Equivalent); err != nil {
			return fmt.Errorf("payment: invalidate graph cache after commit: %w", err)
		}
	}

	if e.events != nil {
		e.events.Publish(eventbus.Event{
			Type:          eventbus.PaymentCommitted,
			TransactionID: tx.ID,
			Equivalent:    tx.Equivalent,
			Participants:  participantsOf(tx),
			Amount:        tx.Amount,
			Timestamp:     time.Now().UTC(),
		})
	}
	return nil
}

// sortedHops orders hops by (from, to) for deterministic debt-row
// update ordering, per §5's ordering discipline.
func sortedHops(hops []domain.RouteHop) []domain.RouteHop {
	out := make([]domain.RouteHop, len(hops))
	copy(out, hops)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && lessHop(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func lessHop(a, b domain.RouteHop) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	return a.To < b.To
}

// applyDebtDelta increases debt[from->to] by hop.Amount, netting first
// against any existing debt[to->from] so I2 (at most one direction
// positive at a time) holds by construction. A debt that reaches zero
// is deleted rather than stored.
func applyDebtDelta(ctx context.Context, storeTx store.Tx, equivalent string, hop domain.RouteHop) error {
	forward, backward, err := storeTx.Debts().GetPair(ctx, hop.From, hop.To, equivalent)
	if err != nil {
		return err
	}

	remaining := hop.Amount
	if backward != nil && backward.Amount > 0 {
		netted := backward.Amount
		if netted > remaining {
			netted = remaining
		}
		backward.Amount -= netted
		remaining -= netted
		if err := storeTx.Debts().Set(ctx, backward); err != nil {
			return err
		}
	}

	if remaining > 0 {
		newAmount := remaining
		if forward != nil {
			newAmount += forward.Amount
		}
		if err := storeTx.Debts().Set(ctx, &domain.Debt{
			Debtor: hop.From, Creditor: hop.To, Equivalent: equivalent, Amount: newAmount,
		}); err != nil {
			return err
		}
	}
	return nil
}
