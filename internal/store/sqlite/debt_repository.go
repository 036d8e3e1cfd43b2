package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/domain"
)

type debtRepo struct {
	ex executor
}

func (r *debtRepo) Get(ctx context.Context, debtor, creditor, equivalent string) (*domain.Debt, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT debtor, creditor, equivalent, amount, updated_at
		FROM debts WHERE debtor = ? AND creditor = ? AND equivalent = ?`,
		debtor, creditor, equivalent)

	var d domain.Debt
	if err := row.Scan(&d.Debtor, &d.Creditor, &d.Equivalent, &d.Amount, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("debt", debtor+"/"+creditor+"/"+equivalent)
		}
		return nil, fmt.Errorf("sqlite: get debt: %w", err)
	}
	return &d, nil
}

func (r *debtRepo) GetPair(ctx context.Context, a, b, equivalent string) (ab, ba *domain.Debt, err error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT debtor, creditor, equivalent, amount, updated_at
		FROM debts
		WHERE equivalent = ? AND ((debtor = ? AND creditor = ?) OR (debtor = ? AND creditor = ?))`,
		equivalent, a, b, b, a)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: get debt pair: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Debt
		if err := rows.Scan(&d.Debtor, &d.Creditor, &d.Equivalent, &d.Amount, &d.UpdatedAt); err != nil {
			return nil, nil, fmt.Errorf("sqlite: scan debt pair: %w", err)
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
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (debtor, creditor, equivalent)
		DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		d.Debtor, d.Creditor, d.Equivalent, d.Amount, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: set debt: %w", err)
	}
	return nil
}

func (r *debtRepo) Delete(ctx context.Context, debtor, creditor, equivalent string) error {
	_, err := r.ex.ExecContext(ctx, `
		DELETE FROM debts WHERE debtor = ? AND creditor = ? AND equivalent = ?`,
		debtor, creditor, equivalent)
	if err != nil {
		return fmt.Errorf("sqlite: delete debt: %w", err)
	}
	return nil
}

func (r *debtRepo) ListByEquivalent(ctx context.Context, equivalent string) ([]domain.Debt, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT debtor, creditor, equivalent, amount, updated_at FROM debts WHERE equivalent = ?`, equivalent)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list debts: %w", err)
	}
	defer rows.Close()

	var out []domain.Debt
	for rows.Next() {
		var d domain.Debt
		if err := rows.Scan(&d.Debtor, &d.Creditor, &d.Equivalent, &d.Amount, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan debt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *debtRepo) SumAll(ctx context.Context, equivalent string) (int64, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM debts WHERE equivalent = ?`, equivalent)
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, fmt.Errorf("sqlite: sum debts: %w", err)
	}
	return sum, nil
}
