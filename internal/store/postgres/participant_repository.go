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

type participantRepo struct {
	ex executor
}

func (r *participantRepo) Get(ctx context.Context, pid string) (*domain.Participant, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT pid, public_key, display_name, status, created_at, updated_at
		FROM participants WHERE pid = $1`, pid)

	var p domain.Participant
	var status string
	if err := row.Scan(&p.PID, &p.PublicKey, &p.DisplayName, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "participant.Get", "participant not found").WithDetail("pid", pid)
		}
		return nil, fmt.Errorf("postgres: get participant: %w", err)
	}
	p.Status = domain.ParticipantStatus(status)
	return &p, nil
}

func (r *participantRepo) Create(ctx context.Context, p *domain.Participant) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO participants (pid, public_key, display_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.PID, p.PublicKey, p.DisplayName, string(p.Status), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create participant: %w", err)
	}
	return nil
}

func (r *participantRepo) UpdateStatus(ctx context.Context, pid string, status domain.ParticipantStatus) error {
	res, err := r.ex.ExecContext(ctx, `
		UPDATE participants SET status = $2, updated_at = $3 WHERE pid = $1`,
		pid, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres: update participant status: %w", err)
	}
	return requireRowsAffected(res, "participant", pid)
}

func requireRowsAffected(res sql.Result, kind, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, kind+".update", kind+" not found").WithDetail("key", key)
	}
	return nil
}
