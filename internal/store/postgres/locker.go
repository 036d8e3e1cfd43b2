package postgres

import (
	"context"
	"fmt"

	"github.com/geohub/geod/internal/store"
)

// advisoryLocker serializes access to a segment fingerprint using
// Postgres transaction-scoped advisory locks, generalizing a pattern
// the example pack uses to serialize on an idempotency key: hash the
// string key and take pg_advisory_xact_lock(hash) so the lock holds
// for the life of the transaction and releases automatically on
// commit or rollback, with no separate unlock call to forget.
//
// Callers must acquire segment locks in sorted fingerprint order
// (see payment's segment-locking helper) to avoid lock-ordering
// deadlocks when an operation touches more than one segment.
type advisoryLocker struct {
	ex executor
}

// Lock acquires the advisory lock for fingerprint. The tx argument is
// accepted to satisfy store.AdvisoryLocker but unused: this locker is
// already bound to the *sql.Tx it was constructed against.
func (l advisoryLocker) Lock(ctx context.Context, _ store.Tx, fingerprint string) error {
	_, err := l.ex.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, fingerprint)
	if err != nil {
		return fmt.Errorf("postgres: advisory lock %q: %w", fingerprint, err)
	}
	return nil
}
