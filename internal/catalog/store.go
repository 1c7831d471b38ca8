// Package catalog caches snapshots of brew catalog data so that repeated
// queries do not shell out every time. Snapshots are stored as raw JSON
// with a fetch timestamp; callers decide how stale a snapshot may be.
package catalog

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot holds one cached brew query result.
type Snapshot struct {
	Key       string          `json:"key"`
	FetchedAt time.Time       `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

// Fresh reports whether the snapshot was fetched within maxAge of now.
func (s *Snapshot) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.FetchedAt) < maxAge
}

// Store persists and retrieves catalog snapshots.
type Store interface {
	Save(snap *Snapshot) error
	Load(key string) (*Snapshot, error)
	Delete(key string) error
}
