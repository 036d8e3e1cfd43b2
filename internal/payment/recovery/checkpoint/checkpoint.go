// Package checkpoint persists the recovery loop's local operational
// state: the timestamp of the last completed sweep. It is a plain
// embedded key-value store, not an authoritative record — losing it
// only costs the loop a redundant first pass over transactions it may
// have already reaped.
package checkpoint

import (
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
)

const lastSweepKey = "recovery:last_sweep"

// Store wraps a local leveldb database holding recovery checkpoints.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) the checkpoint database at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LastSweep returns the time of the last completed sweep, or the zero
// time if no sweep has ever completed.
func (s *Store) LastSweep() (time.Time, error) {
	data, err := s.db.Get([]byte(lastSweepKey), nil)
	if err == leveldb.ErrNotFound {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("checkpoint: read last sweep: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		return time.Time{}, fmt.Errorf("checkpoint: parse last sweep: %w", err)
	}
	return t, nil
}

// RecordSweep persists at as the time of the most recently completed
// sweep.
func (s *Store) RecordSweep(at time.Time) error {
	err := s.db.Put([]byte(lastSweepKey), []byte(at.Format(time.RFC3339Nano)), nil)
	if err != nil {
		return fmt.Errorf("checkpoint: record sweep: %w", err)
	}
	return nil
}
