// Package registry is the administrative surface for the two entities
// nothing in L4-L6 creates on its own: equivalents and trust lines.
// It generalizes the teacher's ledger manager shape in
// internal/core/ledger/manager (a thin validate-then-persist wrapper
// around a storage interface) to GEO's own entities, adding the two
// side effects every privileged mutation here carries: an append-only
// audit record and an event-bus notification.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/canon"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/eventbus"
	"github.com/geohub/geod/internal/invariant"
	"github.com/geohub/geod/internal/router"
	"github.com/geohub/geod/internal/store"
)

// Service wraps the store with the audit and notification behavior
// every equivalent/trust-line mutation carries.
type Service struct {
	store  store.Store
	router *router.Router
	events *eventbus.Bus
}

// New returns a Service over s. rtr may be nil; when set, its
// per-equivalent graph cache is invalidated on every trust-line write.
func New(s store.Store, rtr *router.Router) *Service {
	return &Service{store: s, router: rtr}
}

// SetEventBus attaches the bus a successful mutation publishes to.
// Nil-safe: a Service with no bus set simply skips publication.
func (s *Service) SetEventBus(bus *eventbus.Bus) {
	s.events = bus
}

// CreateEquivalent registers a new unit of account and audits the
// action under the operator's PID.
func (s *Service) CreateEquivalent(ctx context.Context, operator, code string, precision int32) (*domain.Equivalent, error) {
	eq := &domain.Equivalent{
		Code:      code,
		Precision: precision,
		Status:    domain.EquivalentActive,
		Operator:  operator,
		CreatedAt: time.Now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Equivalents().Create(ctx, eq); err != nil {
			return err
		}
		return appendAudit(ctx, tx, operator, "equivalent.create", code, eq)
	})
	if err != nil {
		return nil, fmt.Errorf("registry: create equivalent: %w", err)
	}
	return eq, nil
}

// SetEquivalentStatus flips an equivalent between ACTIVE and INACTIVE,
// the gate §4.2 uses to stop new payment/clearing activity without
// deleting history.
func (s *Service) SetEquivalentStatus(ctx context.Context, operator, code string, status domain.EquivalentStatus) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Equivalents().UpdateStatus(ctx, code, status); err != nil {
			return err
		}
		return appendAudit(ctx, tx, operator, "equivalent.status", code, status)
	})
	if err != nil {
		return fmt.Errorf("registry: set equivalent status: %w", err)
	}
	return nil
}

// UpsertTrustLine creates or updates a trust line. policyJSON is the
// signed policy document's canonical bytes; it is strictly decoded
// here so an unknown field is rejected before it ever reaches storage,
// per §9's closed-policy-object decision.
func (s *Service) UpsertTrustLine(ctx context.Context, operator string, tl domain.TrustLine, policyJSON []byte) error {
	if len(policyJSON) > 0 {
		policy, err := canon.DecodeTrustLinePolicy(policyJSON)
		if err != nil {
			return apperr.Wrap(apperr.InvalidArgument, "registry.upsert_trust_line", "decode policy", err)
		}
		tl.Policy = policy
	}
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		// Upsert itself fills CreatedAt (if zero) and UpdatedAt.
		if err := tx.TrustLines().Upsert(ctx, &tl); err != nil {
			return err
		}

		// A lowered limit can leave an outstanding debt over capacity;
		// recheck I1 for this pair before the write is allowed to stand.
		if debt, _ := tx.Debts().Get(ctx, tl.Debtor, tl.Creditor, tl.Equivalent); debt != nil {
			if err := invariant.New(tx).CheckPairs(ctx, tl.Equivalent, []invariant.Pair{{Debtor: tl.Debtor, Creditor: tl.Creditor}}); err != nil {
				return err
			}
		}

		return appendAudit(ctx, tx, operator, "trustline.upsert", trustLineSubject(tl), tl)
	})
	if err != nil {
		return fmt.Errorf("registry: upsert trust line: %w", err)
	}

	if s.router != nil {
		if err := s.router.InvalidateCache(ctx, tl.Equivalent); err != nil {
			return fmt.Errorf("registry: invalidate route cache: %w", err)
		}
	}
	if s.events != nil {
		s.events.Publish(eventbus.Event{
			Type:         eventbus.TrustlineUpdated,
			Equivalent:   tl.Equivalent,
			Participants: []string{tl.Creditor, tl.Debtor},
			Timestamp:    tl.UpdatedAt,
		})
	}
	return nil
}

// CloseTrustLine transitions a trust line to CLOSED, per §8.2's
// boundary property: close is rejected iff either direction of debt
// between creditor and debtor is positive.
func (s *Service) CloseTrustLine(ctx context.Context, operator, creditor, debtor, equivalent string) error {
	var closedAt time.Time
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		line, err := tx.TrustLines().Get(ctx, creditor, debtor, equivalent)
		if err != nil {
			return err
		}

		ab, ba, err := tx.Debts().GetPair(ctx, debtor, creditor, equivalent)
		if err != nil {
			return err
		}
		if (ab != nil && ab.Amount > 0) || (ba != nil && ba.Amount > 0) {
			return apperr.New(apperr.InvariantViolation, "registry.close_trust_line", "trust line has outstanding debt in one direction").
				WithDetail("creditor", creditor).WithDetail("debtor", debtor).WithDetail("equivalent", equivalent)
		}

		line.Status = domain.TrustLineClosed
		if err := tx.TrustLines().Upsert(ctx, line); err != nil {
			return err
		}
		closedAt = line.UpdatedAt
		return appendAudit(ctx, tx, operator, "trustline.close", trustLineSubject(*line), line)
	})
	if err != nil {
		return fmt.Errorf("registry: close trust line: %w", err)
	}

	if s.router != nil {
		if err := s.router.InvalidateCache(ctx, equivalent); err != nil {
			return fmt.Errorf("registry: invalidate route cache: %w", err)
		}
	}
	if s.events != nil {
		s.events.Publish(eventbus.Event{
			Type:         eventbus.TrustlineUpdated,
			Equivalent:   equivalent,
			Participants: []string{creditor, debtor},
			Timestamp:    closedAt,
		})
	}
	return nil
}

func trustLineSubject(tl domain.TrustLine) string {
	return tl.Creditor + "->" + tl.Debtor + "/" + tl.Equivalent
}

func appendAudit(ctx context.Context, tx store.Tx, actor, action, subject string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("registry: marshal audit payload: %w", err)
	}
	return tx.Audit().Append(ctx, &domain.AuditRecord{
		ID:      uuid.NewString(),
		Actor:   actor,
		Action:  action,
		Subject: subject,
		Payload: body,
		At:      time.Now().UTC(),
	})
}
