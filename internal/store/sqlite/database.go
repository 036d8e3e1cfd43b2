// Package sqlite is a modernc.org/sqlite-backed store.Store
// implementation for local development and tests, giving the teacher's
// previously unused SQLite config constructor its first real caller.
// It mirrors internal/store/postgres's shape closely: same repository
// interfaces, same dual-executor dispatch, same ON CONFLICT upserts —
// SQLite's dialect differs only in advisory locking, which it has no
// native equivalent for, so segment serialization falls back to a
// single process-wide mutex (fine for the single-process dev/test use
// this backend targets; it is not meant to run a real cluster).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/geohub/geod/internal/store"
)

// Store is the SQLite-backed store.Store implementation.
type Store struct {
	db *sql.DB
	mu *sync.Mutex // guards segment locking across all transactions
}

// Open opens (creating if necessary) the SQLite database at path and
// applies the schema. path may be ":memory:" for ephemeral tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// modernc.org/sqlite serializes writers internally; a single
	// connection avoids SQLITE_BUSY under concurrent writers entirely.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	s := &Store{db: db, mu: &sync.Mutex{}}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *Store) Close() error                   { return s.db.Close() }

func (s *Store) Participants() store.ParticipantRepository { return &participantRepo{s.db} }
func (s *Store) Equivalents() store.EquivalentRepository   { return &equivalentRepo{s.db} }
func (s *Store) TrustLines() store.TrustLineRepository      { return &trustLineRepo{s.db} }
func (s *Store) Debts() store.DebtRepository                { return &debtRepo{s.db} }
func (s *Store) Transactions() store.TransactionRepository  { return &transactionRepo{s.db} }
func (s *Store) PrepareLocks() store.PrepareLockRepository  { return &prepareLockRepo{s.db} }
func (s *Store) Audit() store.AuditRepository                { return &auditRepo{s.db} }

func (s *Store) BeginTx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	return &Tx{tx: tx, mu: s.mu}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	return store.RunInTx(ctx, s, fn)
}

// Tx is a single store.Tx backed by one *sql.Tx. acquired tracks
// whether this transaction has taken the store-wide segment mutex, so
// Commit/Rollback only release a lock this transaction actually holds.
type Tx struct {
	tx       *sql.Tx
	mu       *sync.Mutex
	acquired bool
}

func (t *Tx) Participants() store.ParticipantRepository { return &participantRepo{t.tx} }
func (t *Tx) Equivalents() store.EquivalentRepository   { return &equivalentRepo{t.tx} }
func (t *Tx) TrustLines() store.TrustLineRepository      { return &trustLineRepo{t.tx} }
func (t *Tx) Debts() store.DebtRepository                { return &debtRepo{t.tx} }
func (t *Tx) Transactions() store.TransactionRepository  { return &transactionRepo{t.tx} }
func (t *Tx) PrepareLocks() store.PrepareLockRepository  { return &prepareLockRepo{t.tx} }
func (t *Tx) Audit() store.AuditRepository                { return &auditRepo{t.tx} }
func (t *Tx) Locker() store.AdvisoryLocker                { return mutexLocker{tx: t} }

func (t *Tx) Commit(ctx context.Context) error {
	if t.acquired {
		t.mu.Unlock()
		t.acquired = false
	}
	return t.tx.Commit()
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.acquired {
		t.mu.Unlock()
		t.acquired = false
	}
	return t.tx.Rollback()
}

func (s *Store) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			pid TEXT PRIMARY KEY,
			public_key TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS equivalents (
			code TEXT PRIMARY KEY,
			precision INTEGER NOT NULL CHECK (precision >= 0 AND precision <= 18),
			status TEXT NOT NULL,
			operator TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trust_lines (
			creditor TEXT NOT NULL,
			debtor TEXT NOT NULL,
			equivalent TEXT NOT NULL,
			"limit" INTEGER NOT NULL CHECK ("limit" >= 0),
			policy TEXT NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (creditor, debtor, equivalent),
			CHECK (creditor <> debtor)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trust_lines_debtor ON trust_lines (debtor, equivalent, status)`,
		`CREATE TABLE IF NOT EXISTS debts (
			debtor TEXT NOT NULL,
			creditor TEXT NOT NULL,
			equivalent TEXT NOT NULL,
			amount INTEGER NOT NULL CHECK (amount > 0),
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (debtor, creditor, equivalent),
			CHECK (debtor <> creditor)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_debts_creditor ON debts (creditor, equivalent)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			equivalent TEXT NOT NULL,
			from_pid TEXT NOT NULL DEFAULT '',
			to_pid TEXT NOT NULL DEFAULT '',
			amount INTEGER NOT NULL DEFAULT 0,
			routes TEXT NOT NULL DEFAULT '[]',
			idempotency_key TEXT,
			nonce TEXT,
			signature TEXT NOT NULL DEFAULT '',
			memo TEXT NOT NULL DEFAULT '',
			payload BLOB,
			payload_codec TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_idem ON transactions (idempotency_key) WHERE idempotency_key IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_nonce ON transactions (equivalent, from_pid, nonce) WHERE nonce IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions (status)`,
		`CREATE TABLE IF NOT EXISTS prepare_locks (
			id TEXT PRIMARY KEY,
			transaction_id TEXT NOT NULL REFERENCES transactions(id),
			equivalent TEXT NOT NULL,
			from_pid TEXT NOT NULL,
			to_pid TEXT NOT NULL,
			amount INTEGER NOT NULL CHECK (amount > 0),
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prepare_locks_expiry ON prepare_locks (expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_prepare_locks_tx ON prepare_locks (transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prepare_locks_segment ON prepare_locks (equivalent, from_pid, to_pid)`,
		`CREATE TABLE IF NOT EXISTS audit_records (
			id TEXT PRIMARY KEY,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			subject TEXT NOT NULL,
			payload BLOB NOT NULL DEFAULT '{}',
			at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_subject ON audit_records (subject, at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}
