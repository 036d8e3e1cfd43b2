package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
)

type equivalentRepo struct {
	ex executor
}

func (r *equivalentRepo) Get(ctx context.Context, code string) (*domain.Equivalent, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT code, precision, status, operator, created_at
		FROM equivalents WHERE code = $1`, code)

	var e domain.Equivalent
	var status string
	if err := row.Scan(&e.Code, &e.Precision, &status, &e.Operator, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "equivalent.Get", "equivalent not found").WithDetail("code", code)
		}
		return nil, fmt.Errorf("postgres: get equivalent: %w", err)
	}
	e.Status = domain.EquivalentStatus(status)
	return &e, nil
}

func (r *equivalentRepo) Create(ctx context.Context, e *domain.Equivalent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO equivalents (code, precision, status, operator, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.Code, e.Precision, string(e.Status), e.Operator, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create equivalent: %w", err)
	}
	return nil
}

func (r *equivalentRepo) UpdateStatus(ctx context.Context, code string, status domain.EquivalentStatus) error {
	res, err := r.ex.ExecContext(ctx, `UPDATE equivalents SET status = $2 WHERE code = $1`, code, string(status))
	if err != nil {
		return fmt.Errorf("postgres: update equivalent status: %w", err)
	}
	return requireRowsAffected(res, "equivalent", code)
}

func (r *equivalentRepo) List(ctx context.Context) ([]domain.Equivalent, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT code, precision, status, operator, created_at FROM equivalents ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list equivalents: %w", err)
	}
	defer rows.Close()

	var out []domain.Equivalent
	for rows.Next() {
		var e domain.Equivalent
		var status string
		if err := rows.Scan(&e.Code, &e.Precision, &status, &e.Operator, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan equivalent: %w", err)
		}
		e.Status = domain.EquivalentStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}
