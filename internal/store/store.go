// Package store is L1: the persistence boundary every other component
// reads and writes through. It generalizes the teacher's
// RepositoryManager/TransactionContext split (internal/storage/relationaldb)
// to GEO's own entities, keeping the same shape: one manager opens
// connections and starts transactions, and a transaction exposes typed
// repositories scoped to that transaction so every write in a logical
// operation commits or rolls back together.
package store

import (
	"context"
	"time"

	"github.com/geohub/geod/internal/domain"
)

// ParticipantRepository persists Participant rows.
type ParticipantRepository interface {
	Get(ctx context.Context, pid string) (*domain.Participant, error)
	Create(ctx context.Context, p *domain.Participant) error
	UpdateStatus(ctx context.Context, pid string, status domain.ParticipantStatus) error
}

// EquivalentRepository persists Equivalent rows.
type EquivalentRepository interface {
	Get(ctx context.Context, code string) (*domain.Equivalent, error)
	Create(ctx context.Context, e *domain.Equivalent) error
	UpdateStatus(ctx context.Context, code string, status domain.EquivalentStatus) error
	List(ctx context.Context) ([]domain.Equivalent, error)
}

// TrustLineRepository persists TrustLine rows.
type TrustLineRepository interface {
	Get(ctx context.Context, creditor, debtor, equivalent string) (*domain.TrustLine, error)
	Upsert(ctx context.Context, tl *domain.TrustLine) error
	ListByParticipant(ctx context.Context, pid, equivalent string) ([]domain.TrustLine, error)
	ListByEquivalent(ctx context.Context, equivalent string) ([]domain.TrustLine, error)
	CountModificationsSince(ctx context.Context, creditor, debtor, equivalent string, since time.Time) (int, error)
}

// DebtRepository persists Debt rows. Callers are expected to hold the
// relevant segment's advisory lock before mutating, per §5.
type DebtRepository interface {
	Get(ctx context.Context, debtor, creditor, equivalent string) (*domain.Debt, error)
	// GetPair returns both directions (debtor->creditor and creditor->debtor)
	// for I2 asymmetry checks.
	GetPair(ctx context.Context, a, b, equivalent string) (ab, ba *domain.Debt, err error)
	Set(ctx context.Context, d *domain.Debt) error
	// Delete removes a zero-balance debt row outright (§9's canonical
	// zero-balance-deletion decision).
	Delete(ctx context.Context, debtor, creditor, equivalent string) error
	ListByEquivalent(ctx context.Context, equivalent string) ([]domain.Debt, error)
	SumAll(ctx context.Context, equivalent string) (int64, error)
}

// TransactionRepository persists Transaction rows.
type TransactionRepository interface {
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)
	Create(ctx context.Context, tx *domain.Transaction) error
	UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error
	SeenNonce(ctx context.Context, equivalent, from, nonce string) (bool, error)
	// ListStaleNew returns transactions still in NEW created before
	// olderThan, the recovery loop's signal that their coordinator died
	// before reaching PREPARED.
	ListStaleNew(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error)
}

// PrepareLockRepository persists PrepareLock rows.
type PrepareLockRepository interface {
	Insert(ctx context.Context, l *domain.PrepareLock) error
	Delete(ctx context.Context, id string) error
	ListByTransaction(ctx context.Context, txID string) ([]domain.PrepareLock, error)
	ListExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.PrepareLock, error)
	ListBySegment(ctx context.Context, equivalent, a, b string) ([]domain.PrepareLock, error)
}

// AuditRepository appends AuditRecord rows.
type AuditRepository interface {
	Append(ctx context.Context, r *domain.AuditRecord) error
	ListBySubject(ctx context.Context, subject string, limit int) ([]domain.AuditRecord, error)
}

// AdvisoryLocker serializes access to a segment for the lifetime of a
// store transaction. Locks are released automatically when the
// transaction ends (commit or rollback) — there is no separate unlock
// call, mirroring Postgres's pg_advisory_xact_lock semantics.
type AdvisoryLocker interface {
	Lock(ctx context.Context, tx Tx, fingerprint string) error
}

// Tx is a single logical operation's view of the store: a set of
// repositories plus commit/rollback, all scoped to one underlying
// database transaction.
type Tx interface {
	Participants() ParticipantRepository
	Equivalents() EquivalentRepository
	TrustLines() TrustLineRepository
	Debts() DebtRepository
	Transactions() TransactionRepository
	PrepareLocks() PrepareLockRepository
	Audit() AuditRepository
	Locker() AdvisoryLocker

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store opens transactions and, outside of a transaction, serves plain
// reads through the same repository interfaces.
type Store interface {
	Participants() ParticipantRepository
	Equivalents() EquivalentRepository
	TrustLines() TrustLineRepository
	Debts() DebtRepository
	Transactions() TransactionRepository
	PrepareLocks() PrepareLockRepository
	Audit() AuditRepository

	BeginTx(ctx context.Context) (Tx, error)
	// WithTx runs fn inside a transaction, committing on a nil return
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}
