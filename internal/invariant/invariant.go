// Package invariant is L3: a read-only checker that recomputes the
// network's structural properties after a commit and reports
// violations without ever mutating state. It mirrors the shape of a
// post-commit validation pass run inside the same transaction as the
// write it is checking, so a violation can still be rolled back by the
// caller before it becomes visible.
package invariant

import (
	"context"
	"fmt"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/store"
)

// Pair is one (debtor, creditor) edge to check, scoped to an equivalent.
type Pair struct {
	Debtor, Creditor string
}

// Balance is a participant's signed net position in an equivalent:
// positive means net creditor, negative means net debtor.
type Balance int64

// Checker runs I1–I5 against a store transaction. It never writes.
type Checker struct {
	tx store.Tx
}

// New returns a Checker scoped to tx. Every check call runs against
// that transaction's view of the data, so checks observe uncommitted
// writes made earlier in the same transaction.
func New(tx store.Tx) *Checker {
	return &Checker{tx: tx}
}

// CheckPairs verifies I1 (trust limit) and I2 (debt asymmetry) for the
// given pairs in equivalent. It is the targeted check run after a
// payment or clearing commit, scoped to only the edges that could have
// changed.
func (c *Checker) CheckPairs(ctx context.Context, equivalent string, pairs []Pair) error {
	for _, p := range pairs {
		if err := c.checkSelfDebt(p); err != nil {
			return err
		}

		debt, err := c.tx.Debts().Get(ctx, p.Debtor, p.Creditor, equivalent)
		if err != nil && apperr.CodeOf(err) != apperr.NotFound {
			return fmt.Errorf("invariant: load debt %s->%s: %w", p.Debtor, p.Creditor, err)
		}
		if debt == nil || debt.Amount <= 0 {
			continue // no positive debt on this edge, I1/I2 vacuously hold
		}

		if err := c.checkTrustLimit(ctx, equivalent, debt); err != nil {
			return err
		}
		if err := c.checkAsymmetry(ctx, equivalent, p); err != nil {
			return err
		}
	}
	return nil
}

// checkSelfDebt enforces I4: debtor != creditor.
func (c *Checker) checkSelfDebt(p Pair) error {
	if p.Debtor == p.Creditor {
		return violation("I4", "self-debt", map[string]any{"participant": p.Debtor})
	}
	return nil
}

// checkTrustLimit enforces I1: debt[B->A,E] <= trust line A->B's limit.
func (c *Checker) checkTrustLimit(ctx context.Context, equivalent string, debt *domain.Debt) error {
	line, err := c.tx.TrustLines().Get(ctx, debt.Creditor, debt.Debtor, equivalent)
	if err != nil {
		if apperr.CodeOf(err) == apperr.NotFound {
			return violation("I1", "debt exists with no backing trust line", map[string]any{
				"debtor": debt.Debtor, "creditor": debt.Creditor, "equivalent": equivalent, "amount": debt.Amount,
			})
		}
		return fmt.Errorf("invariant: load trust line %s->%s: %w", debt.Creditor, debt.Debtor, err)
	}
	if debt.Amount > line.Limit {
		return violation("I1", "debt exceeds trust limit", map[string]any{
			"debtor": debt.Debtor, "creditor": debt.Creditor, "equivalent": equivalent,
			"amount": debt.Amount, "limit": line.Limit,
		})
	}
	return nil
}

// checkAsymmetry enforces I2: at most one of debt[X->Y] and debt[Y->X]
// may be positive at once.
func (c *Checker) checkAsymmetry(ctx context.Context, equivalent string, p Pair) error {
	ab, ba, err := c.tx.Debts().GetPair(ctx, p.Debtor, p.Creditor, equivalent)
	if err != nil {
		return fmt.Errorf("invariant: load debt pair: %w", err)
	}
	if ab != nil && ab.Amount > 0 && ba != nil && ba.Amount > 0 {
		return violation("I2", "opposing debts both positive", map[string]any{
			"a": p.Debtor, "b": p.Creditor, "equivalent": equivalent,
			"a_to_b": ab.Amount, "b_to_a": ba.Amount,
		})
	}
	return nil
}

// CheckZeroSum enforces I3: the sum of net balances across every
// participant in equivalent is zero. Debts are bilateral edges, so this
// holds by construction; the checker recomputes it as a sanity
// aggregate rather than trusting the invariant to hold unchecked.
func (c *Checker) CheckZeroSum(ctx context.Context, equivalent string) error {
	debts, err := c.tx.Debts().ListByEquivalent(ctx, equivalent)
	if err != nil {
		return fmt.Errorf("invariant: list debts: %w", err)
	}

	balances := make(map[string]int64, len(debts)*2)
	for _, d := range debts {
		balances[d.Creditor] += d.Amount // creditor's claim
		balances[d.Debtor] -= d.Amount   // debtor's obligation
	}

	var total int64
	for _, b := range balances {
		total += b
	}
	if total != 0 {
		return violation("I3", "non-zero aggregate balance", map[string]any{
			"equivalent": equivalent, "total": total,
		})
	}
	return nil
}

// CheckNeutrality enforces I5: a clearing operation must not change any
// participant's net balance in the equivalent. before and after are
// snapshots of the same participant set taken immediately around the
// clearing's debt-delta application.
func (c *Checker) CheckNeutrality(ctx context.Context, equivalent string, before, after map[string]Balance) error {
	for pid, b := range before {
		a, ok := after[pid]
		if !ok || a != b {
			return violation("I5", "clearing changed a participant's net balance", map[string]any{
				"equivalent": equivalent, "participant": pid, "before": int64(b), "after": int64(a),
			})
		}
	}
	for pid := range after {
		if _, ok := before[pid]; !ok {
			return violation("I5", "clearing introduced a balance for an untouched participant", map[string]any{
				"equivalent": equivalent, "participant": pid,
			})
		}
	}
	return nil
}

// FullAudit runs every invariant against the full state of equivalent,
// for on-demand integrity checks rather than the targeted post-commit
// path. It is more expensive than CheckPairs and is not on the hot
// path of any payment or clearing.
func (c *Checker) FullAudit(ctx context.Context, equivalent string) error {
	debts, err := c.tx.Debts().ListByEquivalent(ctx, equivalent)
	if err != nil {
		return fmt.Errorf("invariant: list debts for audit: %w", err)
	}

	pairs := make([]Pair, 0, len(debts))
	for _, d := range debts {
		pairs = append(pairs, Pair{Debtor: d.Debtor, Creditor: d.Creditor})
	}
	if err := c.CheckPairs(ctx, equivalent, pairs); err != nil {
		return err
	}
	return c.CheckZeroSum(ctx, equivalent)
}

func violation(code, message string, details map[string]any) error {
	e := apperr.New(apperr.InvariantViolation, "invariant."+code, message)
	for k, v := range details {
		e = e.WithDetail(k, v)
	}
	return e
}
