package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/domain"
)

type auditRepo struct {
	ex executor
}

func (r *auditRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO audit_records (id, actor, action, subject, payload, at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Actor, rec.Action, rec.Subject, rec.Payload, rec.At)
	if err != nil {
		return fmt.Errorf("postgres: append audit record: %w", err)
	}
	return nil
}

func (r *auditRepo) ListBySubject(ctx context.Context, subject string, limit int) ([]domain.AuditRecord, error) {
	rows, err := r.ex.QueryContext(ctx, `
		SELECT id, actor, action, subject, payload, at
		FROM audit_records WHERE subject = $1 ORDER BY at DESC LIMIT $2`, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list audit records: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.Actor, &rec.Action, &rec.Subject, &rec.Payload, &rec.At); err != nil {
			return nil, fmt.Errorf("postgres: scan audit record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
