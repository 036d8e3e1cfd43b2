package sqlite

import (
	"context"

	"github.com/geohub/geod/internal/store"
)

// mutexLocker stands in for Postgres's per-fingerprint advisory locks:
// SQLite has no native advisory-lock primitive, so every segment lock
// within a transaction collapses to a single store-wide mutex acquired
// once (on the first Lock call) and released on commit or rollback.
// Safe for the single-process dev/test use this backend targets.
type mutexLocker struct {
	tx *Tx
}

func (l mutexLocker) Lock(ctx context.Context, _ store.Tx, fingerprint string) error {
	if !l.tx.acquired {
		l.tx.mu.Lock()
		l.tx.acquired = true
	}
	return nil
}
