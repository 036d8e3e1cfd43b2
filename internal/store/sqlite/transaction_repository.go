package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
)

const transactionColumns = `id, type, status, equivalent, from_pid, to_pid, amount, routes,
	       COALESCE(idempotency_key, ''), COALESCE(nonce, ''), signature, memo,
	       payload, payload_codec, created_at, updated_at`

type transactionRepo struct {
	ex executor
}

func (r *transactionRepo) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.ex.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (r *transactionRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	row := r.ex.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE idempotency_key = ?`, key)
	return scanTransaction(row)
}

func scanTransaction(row *sql.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var typ, status, routesRaw string
	var payload []byte
	if err := row.Scan(&t.ID, &typ, &status, &t.Equivalent, &t.From, &t.To, &t.Amount, &routesRaw,
		&t.IdempotencyKey, &t.Nonce, &t.Signature, &t.Memo, &payload, &t.PayloadCodec, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "transaction.Get", "transaction not found")
		}
		return nil, fmt.Errorf("sqlite: get transaction: %w", err)
	}
	t.Type = domain.TransactionType(typ)
	t.Status = domain.TransactionStatus(status)
	t.Payload = payload
	if routesRaw != "" {
		if err := json.Unmarshal([]byte(routesRaw), &t.Routes); err != nil {
			return nil, fmt.Errorf("sqlite: unmarshal routes: %w", err)
		}
	}
	return &t, nil
}

func (r *transactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	routes, err := json.Marshal(tx.Routes)
	if err != nil {
		return fmt.Errorf("sqlite: marshal routes: %w", err)
	}
	now := time.Now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	var idemKey, nonce, payload any
	if tx.IdempotencyKey != "" {
		idemKey = tx.IdempotencyKey
	}
	if tx.Nonce != "" {
		nonce = tx.Nonce
	}
	if len(tx.Payload) > 0 {
		payload = tx.Payload
	}

	_, err = r.ex.ExecContext(ctx, `
		INSERT INTO transactions (id, type, status, equivalent, from_pid, to_pid, amount, routes,
			idempotency_key, nonce, signature, memo, payload, payload_codec, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Type), string(tx.Status), tx.Equivalent, tx.From, tx.To, tx.Amount, string(routes),
		idemKey, nonce, tx.Signature, tx.Memo, payload, tx.PayloadCodec, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.IdempotencyConflict, "transaction.Create", "idempotency key or nonce already used", err)
		}
		return fmt.Errorf("sqlite: create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	res, err := r.ex.ExecContext(ctx, `
		UPDATE transactions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("sqlite: update transaction status: %w", err)
	}
	return requireRowsAffected(res, "transaction", id)
}

func (r *transactionRepo) SeenNonce(ctx context.Context, equivalent, from, nonce string) (bool, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE equivalent = ? AND from_pid = ? AND nonce = ?)`,
		equivalent, from, nonce)
	var seen bool
	if err := row.Scan(&seen); err != nil {
		return false, fmt.Errorf("sqlite: check nonce: %w", err)
	}
	return seen, nil
}

func (r *transactionRepo) ListStaleNew(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions WHERE status = ? AND created_at < ?
		ORDER BY created_at ASC LIMIT ?`, string(domain.StatusNew), olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list stale new transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var typ, status, routesRaw string
		var payload []byte
		if err := rows.Scan(&t.ID, &typ, &status, &t.Equivalent, &t.From, &t.To, &t.Amount, &routesRaw,
			&t.IdempotencyKey, &t.Nonce, &t.Signature, &t.Memo, &payload, &t.PayloadCodec, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan stale transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		t.Status = domain.TransactionStatus(status)
		t.Payload = payload
		if routesRaw != "" {
			if err := json.Unmarshal([]byte(routesRaw), &t.Routes); err != nil {
				return nil, fmt.Errorf("sqlite: unmarshal routes: %w", err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
