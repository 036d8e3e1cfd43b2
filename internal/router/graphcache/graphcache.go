// Package graphcache is a process-local, rebuildable-from-store cache
// of each equivalent's segment capacity graph, backed by
// cockroachdb/pebble. It is grounded directly on the teacher's
// pebble-backed key/value store (internal/storage/database/pebble's
// Read/Write/Batch/Iterator shape), repurposed from node storage to a
// JSON-serialized graph snapshot keyed by equivalent code.
//
// The cache is never authoritative: a miss always falls back to the
// store, and every write through the router's own mutation paths must
// call Invalidate for any equivalent it touched. This cache exists
// purely to avoid rebuilding the graph from Postgres on every route
// search; it must never change what a search finds, only how fast it
// finds it.
package graphcache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// ErrMiss is returned by Get when the equivalent has no cached entry.
var ErrMiss = errors.New("graphcache: miss")

// Segment is one cached directed edge of a capacity graph.
type Segment struct {
	From              string `json:"from"`
	To                string `json:"to"`
	Capacity          int64  `json:"capacity"`
	CanBeIntermediate bool   `json:"can_be_intermediate"`
}

// Cache wraps a pebble.DB storing one JSON-encoded segment list per
// equivalent.
type Cache struct {
	db *pebble.DB
}

// Open opens (creating if necessary) the pebble store at dir.
func Open(dir string) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("graphcache: open: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached segments for equivalent, or ErrMiss.
func (c *Cache) Get(ctx context.Context, equivalent string) ([]Segment, error) {
	val, closer, err := c.db.Get(key(equivalent))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("graphcache: get: %w", err)
	}
	defer closer.Close()

	var segs []Segment
	if err := json.Unmarshal(val, &segs); err != nil {
		return nil, fmt.Errorf("graphcache: decode: %w", err)
	}
	return segs, nil
}

// Put stores segments for equivalent, replacing any existing entry.
func (c *Cache) Put(ctx context.Context, equivalent string, segs []Segment) error {
	val, err := json.Marshal(segs)
	if err != nil {
		return fmt.Errorf("graphcache: encode: %w", err)
	}
	if err := c.db.Set(key(equivalent), val, pebble.Sync); err != nil {
		return fmt.Errorf("graphcache: set: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry for equivalent. Called after every
// commit (payment or clearing) that touched the equivalent.
func (c *Cache) Invalidate(ctx context.Context, equivalent string) error {
	if err := c.db.Delete(key(equivalent), pebble.Sync); err != nil && !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("graphcache: delete: %w", err)
	}
	return nil
}

func key(equivalent string) []byte {
	var b bytes.Buffer
	b.WriteString("graph:")
	b.WriteString(equivalent)
	return b.Bytes()
}
