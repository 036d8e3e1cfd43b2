// Package payment is L5: the payment state machine (NEW -> PREPARED ->
// COMMITTED/ABORTED), idempotency, and multipath prepare/commit
// atomicity. It is grounded on the teacher's transaction-application
// idiom — structured per-phase application with typed error returns —
// and the sandboxed-then-applied pattern the teacher uses to layer
// in-flight state over committed state, here realized as prepare locks
// layered over debts.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/canon"
	"github.com/geohub/geod/internal/crypto"
	"github.com/geohub/geod/internal/crypto/ed25519"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/eventbus"
	"github.com/geohub/geod/internal/router"
	"github.com/geohub/geod/internal/store"
)

// Config holds the engine's phase deadlines and defaults, per §5.
type Config struct {
	PrepareDeadline  time.Duration
	CommitDeadline   time.Duration
	OverallDeadline  time.Duration
	PrepareLockTTL   time.Duration
}

// DefaultConfig returns the network's documented defaults: 3s prepare,
// 5s commit, 10s overall, 60s prepare-lock TTL.
func DefaultConfig() Config {
	return Config{
		PrepareDeadline: 3 * time.Second,
		CommitDeadline:  5 * time.Second,
		OverallDeadline: 10 * time.Second,
		PrepareLockTTL:  60 * time.Second,
	}
}

// Request is a client's payment creation request.
type Request struct {
	From           string
	To             string
	Equivalent     string
	Amount         int64
	IdempotencyKey string
	Nonce          string
	Signature      string // hex-encoded Ed25519 signature over the canonical payload
	Memo           string
	Constraints    router.Constraints
}

// Engine runs the payment state machine.
type Engine struct {
	store  store.Store
	router *router.Router
	cfg    Config
	signer crypto.SignatureProvider
	nonces *nonceCache
	events *eventbus.Bus
}

func New(s store.Store, r *router.Router, cfg Config) *Engine {
	return &Engine{
		store:  s,
		router: r,
		cfg:    cfg,
		signer: crypto.NewED25519Wrapper(ed25519.NewProvider()),
		nonces: newNonceCache(),
	}
}

// SetEventBus wires the engine to publish payment.committed and
// payment.aborted events to bus. Should only be called before the
// engine starts serving requests, matching the teacher's
// SetLedgerService discipline.
func (e *Engine) SetEventBus(bus *eventbus.Bus) {
	e.events = bus
}

// participantsOf collects every distinct PID a transaction touches,
// for the event bus's Participants field.
func participantsOf(tx *domain.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(pid string) {
		if pid != "" && !seen[pid] {
			seen[pid] = true
			out = append(out, pid)
		}
	}
	add(tx.From)
	add(tx.To)
	for _, h := range tx.Routes {
		add(h.From)
		add(h.To)
	}
	return out
}

// CreatePayment runs the full NEW->PREPARED->COMMITTED (or ABORTED) path
// for req, honoring idempotency: a repeated call with the same
// IdempotencyKey returns the original transaction's result rather than
// creating a new one.
func (e *Engine) CreatePayment(ctx context.Context, req Request, signerPublicKey string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OverallDeadline)
	defer cancel()

	if req.IdempotencyKey != "" {
		if existing, err := e.store.Transactions().GetByIdempotencyKey(ctx, req.IdempotencyKey); err == nil {
			return existing, nil
		} else if apperr.CodeOf(err) != apperr.NotFound {
			return nil, err
		}
	}

	eq, err := e.checkParticipantsAndEquivalent(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := e.verifySignature(req, signerPublicKey, eq.Precision); err != nil {
		return nil, err
	}

	if e.nonces.Seen(req.Equivalent, req.From, req.Nonce) {
		return nil, apperr.New(apperr.ReplayNonce, "payment.CreatePayment", "nonce already used for this sender and equivalent")
	}
	seen, err := e.store.Transactions().SeenNonce(ctx, req.Equivalent, req.From, req.Nonce)
	if err != nil {
		return nil, err
	}
	if seen {
		e.nonces.Remember(req.Equivalent, req.From, req.Nonce)
		return nil, apperr.New(apperr.ReplayNonce, "payment.CreatePayment", "nonce already used for this sender and equivalent")
	}

	plans, err := e.router.FindRoutes(ctx, req.From, req.To, req.Equivalent, req.Amount, req.Constraints)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:             uuid.NewString(),
		Type:           domain.TransactionPayment,
		Status:         domain.StatusNew,
		Equivalent:     req.Equivalent,
		From:           req.From,
		To:             req.To,
		Amount:         req.Amount,
		Routes:         flattenPlans(plans),
		IdempotencyKey: req.IdempotencyKey,
		Nonce:          req.Nonce,
		Signature:      req.Signature,
		Memo:           req.Memo,
	}
	if err := e.store.Transactions().Create(ctx, tx); err != nil {
		return nil, err
	}
	e.nonces.Remember(req.Equivalent, req.From, req.Nonce)

	prepareCtx, prepareCancel := context.WithTimeout(ctx, e.cfg.PrepareDeadline)
	defer prepareCancel()
	if err := e.prepare(prepareCtx, tx); err != nil {
		return tx, err
	}

	commitCtx, commitCancel := context.WithTimeout(ctx, e.cfg.CommitDeadline)
	defer commitCancel()
	if err := e.commit(commitCtx, tx); err != nil {
		return tx, err
	}
	return tx, nil
}

func flattenPlans(plans []router.RoutePlan) []domain.RouteHop {
	var hops []domain.RouteHop
	for _, p := range plans {
		for _, h := range p.Hops {
			hops = append(hops, domain.RouteHop{From: h.From, To: h.To, Amount: p.Assigned})
		}
	}
	return hops
}

func (e *Engine) verifySignature(req Request, signerPublicKey string, precision int32) error {
	payload, err := canon.Canonicalize(map[string]any{
		"from":       req.From,
		"to":         req.To,
		"equivalent": req.Equivalent,
		"amount":     canon.NewDecimal(req.Amount, precision).Canonical(),
		"nonce":      req.Nonce,
		"memo":       req.Memo,
	})
	if err != nil {
		return apperr.Wrap(apperr.InvalidSignature, "payment.verifySignature", "failed to build canonical payload", err)
	}
	if !e.signer.VerifySignature(string(payload), signerPublicKey, req.Signature) {
		return apperr.New(apperr.InvalidSignature, "payment.verifySignature", "signature does not match canonical payload")
	}
	return nil
}

func (e *Engine) checkParticipantsAndEquivalent(ctx context.Context, req Request) (*domain.Equivalent, error) {
	eq, err := e.store.Equivalents().Get(ctx, req.Equivalent)
	if err != nil {
		return nil, err
	}
	if !eq.IsActive() {
		return nil, apperr.New(apperr.EquivalentInactiveErr, "payment.checkParticipantsAndEquivalent", "equivalent is inactive")
	}

	from, err := e.store.Participants().Get(ctx, req.From)
	if err != nil {
		return nil, err
	}
	if !from.IsActive() {
		return nil, apperr.New(apperr.InactiveParticipant, "payment.checkParticipantsAndEquivalent", "sender is inactive")
	}
	to, err := e.store.Participants().Get(ctx, req.To)
	if err != nil {
		return nil, err
	}
	if !to.IsActive() {
		return nil, apperr.New(apperr.InactiveParticipant, "payment.checkParticipantsAndEquivalent", "recipient is inactive")
	}
	return eq, nil
}

// Abort transitions tx to ABORTED. From NEW it is a bare transition;
// from PREPARED it additionally deletes the transaction's prepare
// locks. Idempotent: aborting an already-terminal transaction is a
// no-op.
func (e *Engine) Abort(ctx context.Context, tx *domain.Transaction) error {
	if tx.Terminal() {
		return nil
	}
	err := e.store.WithTx(ctx, func(storeTx store.Tx) error {
		if tx.Status == domain.StatusPrepared {
			locks, err := storeTx.PrepareLocks().ListByTransaction(ctx, tx.ID)
			if err != nil {
				return err
			}
			for _, l := range locks {
				if err := storeTx.PrepareLocks().Delete(ctx, l.ID); err != nil {
					return err
				}
			}
		}
		if err := storeTx.Transactions().UpdateStatus(ctx, tx.ID, domain.StatusAborted); err != nil {
			return err
		}
		tx.Status = domain.StatusAborted
		return nil
	})
	if err != nil {
		return err
	}

	if e.events != nil {
		e.events.Publish(eventbus.Event{
			Type:          eventbus.PaymentAborted,
			TransactionID: tx.ID,
			Equivalent:    tx.Equivalent,
			Participants:  participantsOf(tx),
			Amount:        tx.Amount,
			Timestamp:     time.Now().UTC(),
		})
	}
	return nil
}
