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

type debtRepo struct {
	ex executor
}

func (r *debtRepo) Get(ctx context.Context, debtor, creditor, equivalent string) (*domain.Debt, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT debtor, creditor, equivalent, amount, updated_at
		FROM debts WHERE debtor = $1 AND creditor = $2 AND equivalent = $3`,
		debtor, creditor, equivalent)

	var d domain.Debt
	if err := row.Scan(&d.Debtor, &d.Creditor, &d.Equivalent, &d.Amount, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "debt.Get", "debt not found")
		}
		return nil, fmt.Errorf("postgres: get debt: %w", err)
	}
	return &d, nil
}

// GetPair returns the debtor->creditor row as ab and the creditor->debtor
// row as ba, using the caller-supplied a/b order; either may be nil if
// no positive balance exists in that direction. Per I2 at most one of
// the two is ever non-nil at a time.
func (r *debtRepo) GetPair(ctx context.Context, a, b, equivalent string) (ab, ba *domain.Debt, err error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT debtor, creditor, equivalent, amount, updated_at
		FROM debts
		WHERE equivalent = $3 AND ((debtor = $1 AND creditor = $2) OR (debtor = $2 AND creditor = $1))`,
		a, b, equivalent)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: get debt pair: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Debt
		if err := rows.Scan(&d.Debtor, &d.Creditor, &d.Equivalent, &d.Amount, &d.UpdatedAt); err != nil {
			return nil, nil, fmt.Errorf("postgres: scan debt pair: %w", err)
		}
		row := d
		if d.Debtor == a {
			ab = &row
		} else {
			ba = &row
		}
	}
	return ab, ba, rows.Err()
}

func (r *debtRepo) Set(ctx context.Context, d *domain.Debt) error {
	if d.Amount <= 0 {
		return r.Delete(ctx, d.Debtor, d.Creditor, d.Equivalent)
	}
	d.UpdatedAt = time.Now().UTC()
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO debts (debtor, creditor, equivalent, amount, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (debtor, creditor, equivalent)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at`,
		d.Debtor, d.Creditor, d.Equivalent, d.Amount, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: set debt: %w", err)
	}
	return nil
}

func (r *debtRepo) Delete(ctx context.Context, debtor, creditor, equivalent string) error {
	_, err := r.ex.ExecContext(ctx, `
		DELETE FROM debts WHERE debtor = $1 AND creditor = $2 AND equivalent = $3`,
		debtor, creditor, equivalent)
	if err != nil {
		return fmt.Errorf("postgres: delete debt: %w", err)
	}
	return nil
}

func (r *debtRepo) ListByEquivalent(ctx context.Context, equivalent string) ([]domain.Debt, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT debtor, creditor, equivalent, amount, updated_at FROM debts WHERE equivalent = $1`, equivalent)
	if err != nil {
		return nil, fmt.Errorf("postgres: list debts: %w", err)
	}
	defer rows.Close()

	var out []domain.Debt
	for rows.Next() {
		var d domain.Debt
		if err := rows.Scan(&d.Debtor, &d.Creditor, &d.Equivalent, &d.Amount, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan debt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SumAll returns the sum of every positive debt amount for equivalent,
// used by the I3 zero-sum full-graph audit alongside the mirrored sum
// from the creditor side.
func (r *debtRepo) SumAll(ctx context.Context, equivalent string) (int64, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM debts WHERE equivalent = $1`, equivalent)
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, fmt.Errorf("postgres: sum debts: %w", err)
	}
	return sum, nil
}
