package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geohub/geod/internal/domain"
)

type participantRepo struct {
	ex executor
}

func (r *participantRepo) Get(ctx context.Context, pid string) (*domain.Participant, error) {
	row := r.ex.QueryRowContext(ctx, `
		SELECT pid, public_key, display_name, status, created_at, updated_at
		FROM participants WHERE pid = ?`, pid)

	var p domain.Participant
	var status string
	if err := row.Scan(&p.PID, &p.PublicKey, &p.DisplayName, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("participant", pid)
		}
		return nil, fmt.Errorf("sqlite: get participant: %w", err)
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
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.PID, p.PublicKey, p.DisplayName, string(p.Status), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: create participant: %w", err)
	}
	return nil
}

func (r *participantRepo) UpdateStatus(ctx context.Context, pid string, status domain.ParticipantStatus) error {
	res, err := r.ex.ExecContext(ctx, `
		UPDATE participants SET status = ?, updated_at = ? WHERE pid = ?`,
		string(status), time.Now().UTC(), pid)
	if err != nil {
		return fmt.Errorf("sqlite: update participant status: %w", err)
	}
	return requireRowsAffected(res, "participant", pid)
}
