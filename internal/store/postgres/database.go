// Package postgres is L1's primary backend: a lib/pq-driven
// implementation of the store.Store interface, grounded on the
// teacher's relational-store package (connection lifecycle, pooled
// *sql.DB, idempotent schema creation, dual executor dispatch for
// reads that may or may not be inside a transaction).
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/geohub/geod/internal/store"
)

// Store is the Postgres-backed store.Store implementation.
type Store struct {
	db  *sql.DB
	cfg Config
}

// Open connects to Postgres per cfg, configures the pool, verifies
// connectivity, and applies the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: init schema: %w", err)
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
		return nil, fmt.Errorf("postgres: begin: %w", err)
	}
	return &Tx{tx: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	return store.RunInTx(ctx, s, fn)
}

// Tx is a single store.Tx backed by one *sql.Tx.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Participants() store.ParticipantRepository { return &participantRepo{t.tx} }
func (t *Tx) Equivalents() store.EquivalentRepository   { return &equivalentRepo{t.tx} }
func (t *Tx) TrustLines() store.TrustLineRepository      { return &trustLineRepo{t.tx} }
func (t *Tx) Debts() store.DebtRepository                { return &debtRepo{t.tx} }
func (t *Tx) Transactions() store.TransactionRepository  { return &transactionRepo{t.tx} }
func (t *Tx) PrepareLocks() store.PrepareLockRepository  { return &prepareLockRepo{t.tx} }
func (t *Tx) Audit() store.AuditRepository                { return &auditRepo{t.tx} }
func (t *Tx) Locker() store.AdvisoryLocker                { return advisoryLocker{ex: t.tx} }

func (t *Tx) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *Tx) Rollback(ctx context.Context) error { return t.tx.Rollback() }

func (s *Store) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			pid TEXT PRIMARY KEY,
			public_key TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS equivalents (
			code TEXT PRIMARY KEY,
			precision INT NOT NULL CHECK (precision >= 0 AND precision <= 18),
			status TEXT NOT NULL,
			operator TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trust_lines (
			creditor TEXT NOT NULL,
			debtor TEXT NOT NULL,
			equivalent TEXT NOT NULL,
			"limit" BIGINT NOT NULL CHECK ("limit" >= 0),
			policy JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (creditor, debtor, equivalent),
			CHECK (creditor <> debtor)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trust_lines_debtor ON trust_lines (debtor, equivalent, status)`,
		`CREATE TABLE IF NOT EXISTS debts (
			debtor TEXT NOT NULL,
			creditor TEXT NOT NULL,
			equivalent TEXT NOT NULL,
			amount BIGINT NOT NULL CHECK (amount > 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (debtor, creditor, equivalent),
			CHECK (debtor <> creditor)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_debts_creditor ON debts (creditor, equivalent)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			equivalent TEXT NOT NULL,
			from_pid TEXT NOT NULL DEFAULT '',
			to_pid TEXT NOT NULL DEFAULT '',
			amount BIGINT NOT NULL DEFAULT 0,
			routes JSONB NOT NULL DEFAULT '[]',
			idempotency_key TEXT,
			nonce TEXT,
			signature TEXT NOT NULL DEFAULT '',
			memo TEXT NOT NULL DEFAULT '',
			payload BYTEA,
			payload_codec TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_idem ON transactions (idempotency_key) WHERE idempotency_key IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_nonce ON transactions (equivalent, from_pid, nonce) WHERE nonce IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions (status)`,
		`CREATE TABLE IF NOT EXISTS prepare_locks (
			id UUID PRIMARY KEY,
			transaction_id UUID NOT NULL REFERENCES transactions(id),
			equivalent TEXT NOT NULL,
			from_pid TEXT NOT NULL,
			to_pid TEXT NOT NULL,
			amount BIGINT NOT NULL CHECK (amount > 0),
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prepare_locks_expiry ON prepare_locks (expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_prepare_locks_tx ON prepare_locks (transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prepare_locks_segment ON prepare_locks (equivalent, from_pid, to_pid)`,
		`CREATE TABLE IF NOT EXISTS audit_records (
			id UUID PRIMARY KEY,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			subject TEXT NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}',
			at TIMESTAMPTZ NOT NULL DEFAULT now()
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
