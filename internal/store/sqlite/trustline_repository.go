package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/domain"
)

type trustLineRepo struct {
	ex executor
}

func (r *trustLineRepo) Get(ctx context.Context, creditor, debtor, equivalent string) (*domain.TrustLine, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT creditor, debtor, equivalent, "limit", policy, status, created_at, updated_at
		FROM trust_lines WHERE creditor = ? AND debtor = ? AND equivalent = ?`,
		creditor, debtor, equivalent)

	tl, err := scanTrustLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundErr("trust_line", creditor+"/"+debtor+"/"+equivalent)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get trust line: %w", err)
	}
	return tl, nil
}

func (r *trustLineRepo) Upsert(ctx context.Context, tl *domain.TrustLine) error {
	now := time.Now().UTC()
	if tl.CreatedAt.IsZero() {
		tl.CreatedAt = now
	}
	if tl.Status == "" {
		tl.Status = domain.TrustLineActive
	}
	tl.UpdatedAt = now

	policy, err := json.Marshal(tl.Policy)
	if err != nil {
		return fmt.Errorf("sqlite: marshal trust line policy: %w", err)
	}

	_, err = r.ex.ExecContext(ctx, `
		INSERT INTO trust_lines (creditor, debtor, equivalent, "limit", policy, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (creditor, debtor, equivalent)
		DO UPDATE SET "limit" = excluded."limit", policy = excluded.policy, status = excluded.status, updated_at = excluded.updated_at`,
		tl.Creditor, tl.Debtor, tl.Equivalent, tl.Limit, string(policy), string(tl.Status), tl.CreatedAt, tl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: upsert trust line: %w", err)
	}
	return nil
}

func (r *trustLineRepo) ListByParticipant(ctx context.Context, pid, equivalent string) ([]domain.TrustLine, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT creditor, debtor, equivalent, "limit", policy, status, created_at, updated_at
		FROM trust_lines
		WHERE equivalent = ? AND (creditor = ? OR debtor = ?)`, equivalent, pid, pid)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list trust lines by participant: %w", err)
	}
	return scanTrustLines(rows)
}

func (r *trustLineRepo) ListByEquivalent(ctx context.Context, equivalent string) ([]domain.TrustLine, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT creditor, debtor, equivalent, "limit", policy, status, created_at, updated_at
		FROM trust_lines WHERE equivalent = ?`, equivalent)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list trust lines by equivalent: %w", err)
	}
	return scanTrustLines(rows)
}

func (r *trustLineRepo) CountModificationsSince(ctx context.Context, creditor, debtor, equivalent string, since time.Time) (int, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM trust_lines
		WHERE creditor = ? AND debtor = ? AND equivalent = ? AND updated_at >= ?`,
		creditor, debtor, equivalent, since)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count trust line modifications: %w", err)
	}
	return n, nil
}

func scanTrustLine(row *sql.Row) (*domain.TrustLine, error) {
	var tl domain.TrustLine
	var policyRaw string
	var status string
	if err := row.Scan(&tl.Creditor, &tl.Debtor, &tl.Equivalent, &tl.Limit, &policyRaw, &status, &tl.CreatedAt, &tl.UpdatedAt); err != nil {
		return nil, err
	}
	tl.Status = domain.TrustLineStatus(status)
	if policyRaw != "" {
		if err := json.Unmarshal([]byte(policyRaw), &tl.Policy); err != nil {
			return nil, fmt.Errorf("sqlite: unmarshal trust line policy: %w", err)
		}
	}
	return &tl, nil
}

func scanTrustLines(rows *sql.Rows) ([]domain.TrustLine, error) {
	defer rows.Close()
	var out []domain.TrustLine
	for rows.Next() {
		var tl domain.TrustLine
		var policyRaw string
		var status string
		if err := rows.Scan(&tl.Creditor, &tl.Debtor, &tl.Equivalent, &tl.Limit, &policyRaw, &status, &tl.CreatedAt, &tl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan trust line: %w", err)
		}
		tl.Status = domain.TrustLineStatus(status)
		if policyRaw != "" {
			if err := json.Unmarshal([]byte(policyRaw), &tl.Policy); err != nil {
				return nil, fmt.Errorf("sqlite: unmarshal trust line policy: %w", err)
			}
		}
		out = append(out, tl)
	}
	return out, rows.Err()
}
