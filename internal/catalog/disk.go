package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DiskStore writes snapshots as JSON files to a lazily-created directory.
type DiskStore struct {
	mu  sync.Mutex
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir. An empty dir selects
// the user cache directory. The directory is created lazily on first use.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Save writes a snapshot as a JSON file to disk.
func (s *DiskStore) Save(snap *Snapshot) error {
	dir, err := s.ensureDir()
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot %s: %w", snap.Key, err)
	}
	path := filepath.Join(dir, snap.Key+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", snap.Key, err)
	}
	return nil
}

// Load reads a snapshot from disk.
func (s *DiskStore) Load(key string) (*Snapshot, error) {
	dir, err := s.ensureDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, key+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", key, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot %s: %w", key, err)
	}
	return &snap, nil
}

// Delete removes a snapshot from disk. Deleting a missing key is not an error.
func (s *DiskStore) Delete(key string) error {
	dir, err := s.ensureDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, key+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting snapshot %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) ensureDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("resolving cache directory: %w", err)
		}
		s.dir = filepath.Join(base, "cellar")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}
	return s.dir, nil
}
