package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/store"
)

// prepare runs §4.5's prepare phase: acquire every touched segment's
// advisory lock in sorted order inside one database transaction,
// recheck live capacity and policy under the lock, and either insert a
// PrepareLock per segment and transition to PREPARED, or abort with the
// offending reason.
func (e *Engine) prepare(ctx context.Context, tx *domain.Transaction) error {
	fingerprints := sortedFingerprints(tx.Equivalent, tx.Routes)

	err := e.store.WithTx(ctx, func(storeTx store.Tx) error {
		locker := storeTx.Locker()
		for _, fp := range fingerprints {
			if err := locker.Lock(ctx, storeTx, fp); err != nil {
				return err
			}
		}

		for _, hop := range tx.Routes {
			if err := e.checkSegmentCapacity(ctx, storeTx, tx.Equivalent, hop); err != nil {
				return err
			}
			if err := e.checkSegmentPolicy(ctx, storeTx, tx.Equivalent, tx.To, hop); err != nil {
				return err
			}
		}

		expiresAt := time.Now().UTC().Add(e.cfg.PrepareLockTTL)
		for _, hop := range tx.Routes {
			lock := &domain.PrepareLock{
				ID:            uuid.NewString(),
				TransactionID: tx.ID,
				Equivalent:    tx.Equivalent,
				From:          hop.From,
				To:            hop.To,
				Amount:        hop.Amount,
				ExpiresAt:     expiresAt,
			}
			if err := storeTx.PrepareLocks().Insert(ctx, lock); err != nil {
				return err
			}
		}

		if err := storeTx.Transactions().UpdateStatus(ctx, tx.ID, domain.StatusPrepared); err != nil {
			return err
		}
		tx.Status = domain.StatusPrepared
		return nil
	})

	if err != nil {
		_ = e.Abort(ctx, tx)
		return err
	}
	return nil
}

// checkSegmentCapacity recomputes the segment's live capacity inside
// the locked transaction, per §4.4 plus every existing prepare lock on
// the segment, and fails if it is less than the hop's requested amount.
func (e *Engine) checkSegmentCapacity(ctx context.Context, storeTx store.Tx, equivalent string, hop domain.RouteHop) error {
	line, err := storeTx.TrustLines().Get(ctx, hop.To, hop.From, equivalent)
	if err != nil {
		if apperr.CodeOf(err) == apperr.NotFound {
			return apperr.New(apperr.InsufficientCapacity, "payment.prepare", "no trust line backs this segment").
				WithDetail("from", hop.From).WithDetail("to", hop.To)
		}
		return err
	}

	if line.Status != domain.TrustLineActive {
		return apperr.New(apperr.PolicyDenied, "payment.prepare", "trust line is not active").
			WithDetail("from", hop.From).WithDetail("to", hop.To).WithDetail("status", string(line.Status))
	}

	ab, ba, err := storeTx.Debts().GetPair(ctx, hop.From, hop.To, equivalent)
	if err != nil {
		return err
	}
	var owedForward, owedBack int64
	if ab != nil {
		owedForward = ab.Amount
	}
	if ba != nil {
		owedBack = ba.Amount
	}

	locks, err := storeTx.PrepareLocks().ListBySegment(ctx, equivalent, hop.From, hop.To)
	if err != nil {
		return err
	}
	var reserved int64
	for _, l := range locks {
		if l.From == hop.From && l.To == hop.To {
			reserved += l.Amount
		}
	}

	capacity := line.Limit - owedForward + owedBack - reserved
	if capacity < hop.Amount {
		return apperr.New(apperr.InsufficientCapacity, "payment.prepare", "segment capacity changed since routing").
			WithDetail("from", hop.From).WithDetail("to", hop.To).
			WithDetail("capacity", capacity).WithDetail("requested", hop.Amount)
	}
	return nil
}

// checkSegmentPolicy enforces the owner's trust-line policy for
// intermediate hops and mutual blocking. finalTo is the payment's
// ultimate recipient: hop.To acts as an intermediate relay, and must
// have opted in via can_be_intermediate, whenever it isn't finalTo.
func (e *Engine) checkSegmentPolicy(ctx context.Context, storeTx store.Tx, equivalent, finalTo string, hop domain.RouteHop) error {
	line, err := storeTx.TrustLines().Get(ctx, hop.To, hop.From, equivalent)
	if err != nil {
		return err
	}
	if line.Policy.Blocks(hop.From) || line.Policy.Blocks(hop.To) {
		return apperr.New(apperr.PolicyDenied, "payment.prepare", "segment policy blocks one of its endpoints").
			WithDetail("from", hop.From).WithDetail("to", hop.To)
	}
	if hop.To != finalTo && !line.Policy.AllowsIntermediate() {
		return apperr.New(apperr.PolicyDenied, "payment.prepare", "intermediate hop refuses intermediation").
			WithDetail("from", hop.From).WithDetail("to", hop.To)
	}
	return nil
}
