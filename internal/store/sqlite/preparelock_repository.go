package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/domain"
)

type prepareLockRepo struct {
	ex executor
}

func (r *prepareLockRepo) Insert(ctx context.Context, l *domain.PrepareLock) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO prepare_locks (id, transaction_id, equivalent, from_pid, to_pid, amount, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.TransactionID, l.Equivalent, l.From, l.To, l.Amount, l.ExpiresAt, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: insert prepare lock: %w", err)
	}
	return nil
}

func (r *prepareLockRepo) Delete(ctx context.Context, id string) error {
	_, err := r.ex.ExecContext(ctx, `DELETE FROM prepare_locks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete prepare lock: %w", err)
	}
	return nil
}

func (r *prepareLockRepo) ListByTransaction(ctx context.Context, txID string) ([]domain.PrepareLock, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT id, transaction_id, equivalent, from_pid, to_pid, amount, expires_at, created_at
		FROM prepare_locks WHERE transaction_id = ?`, txID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list prepare locks by transaction: %w", err)
	}
	return scanPrepareLocks(rows)
}

func (r *prepareLockRepo) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.PrepareLock, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT id, transaction_id, equivalent, from_pid, to_pid, amount, expires_at, created_at
		FROM prepare_locks WHERE expires_at <= ? ORDER BY expires_at ASC LIMIT ?`, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list expired prepare locks: %w", err)
	}
	return scanPrepareLocks(rows)
}

func (r *prepareLockRepo) ListBySegment(ctx context.Context, equivalent, a, b string) ([]domain.PrepareLock, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT id, transaction_id, equivalent, from_pid, to_pid, amount, expires_at, created_at
		FROM prepare_locks
		WHERE equivalent = ? AND ((from_pid = ? AND to_pid = ?) OR (from_pid = ? AND to_pid = ?))`,
		equivalent, a, b, b, a)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list prepare locks by segment: %w", err)
	}
	return scanPrepareLocks(rows)
}

func scanPrepareLocks(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
	Close() error
}) ([]domain.PrepareLock, error) {
	defer rows.Close()
	var out []domain.PrepareLock
	for rows.Next() {
		var l domain.PrepareLock
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.Equivalent, &l.From, &l.To, &l.Amount, &l.ExpiresAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan prepare lock: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
