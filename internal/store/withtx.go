package store

import "context"

// RunInTx is the shared WithTx implementation every backend composes:
// begin, run fn, commit on success, roll back (and propagate fn's error)
// otherwise, and roll back on panic after re-panicking.
func RunInTx(ctx context.Context, s Store, fn func(Tx) error) (err error) {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
