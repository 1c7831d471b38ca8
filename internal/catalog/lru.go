package catalog

import "sync"

// LRUStore is an in-memory LRU cache that delegates to a backing Store on miss.
type LRUStore struct {
	mu   sync.Mutex
	cap  int
	back Store

	// Doubly-linked list for LRU ordering (most recent at head).
	head, tail *lruEntry
	items      map[string]*lruEntry
}

type lruEntry struct {
	key  string
	snap *Snapshot
	prev *lruEntry
	next *lruEntry
}

// NewLRUStore creates an LRU cache with the given capacity that delegates
// to back on cache misses. Capacity must be >= 1.
func NewLRUStore(cap int, back Store) *LRUStore {
	if cap < 1 {
		cap = 1
	}
	return &LRUStore{
		cap:   cap,
		back:  back,
		items: make(map[string]*lruEntry, cap),
	}
}

// Save writes the snapshot to the LRU cache and delegates to the backing store.
func (s *LRUStore) Save(snap *Snapshot) error {
	s.mu.Lock()
	if e, ok := s.items[snap.Key]; ok {
		e.snap = snap
		s.moveToFront(e)
	} else {
		s.insert(snap.Key, snap)
	}
	s.mu.Unlock()

	return s.back.Save(snap)
}

// Load checks the LRU cache first. On miss, loads from the backing store
// and promotes the snapshot into the cache.
func (s *LRUStore) Load(key string) (*Snapshot, error) {
	s.mu.Lock()
	if e, ok := s.items[key]; ok {
		s.moveToFront(e)
		snap := e.snap
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	snap, err := s.back.Load(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if e, ok := s.items[key]; ok {
		// Concurrent load already inserted it.
		e.snap = snap
		s.moveToFront(e)
	} else {
		s.insert(key, snap)
	}
	s.mu.Unlock()

	return snap, nil
}

// Delete drops the snapshot from the cache and the backing store.
func (s *LRUStore) Delete(key string) error {
	s.mu.Lock()
	if e, ok := s.items[key]; ok {
		s.remove(e)
		delete(s.items, key)
	}
	s.mu.Unlock()

	return s.back.Delete(key)
}

func (s *LRUStore) insert(key string, snap *Snapshot) {
	e := &lruEntry{key: key, snap: snap}
	s.items[key] = e
	s.pushFront(e)
	if len(s.items) > s.cap {
		s.evict()
	}
}

func (s *LRUStore) pushFront(e *lruEntry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *LRUStore) moveToFront(e *lruEntry) {
	if s.head == e {
		return
	}
	s.remove(e)
	s.pushFront(e)
}

func (s *LRUStore) remove(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (s *LRUStore) evict() {
	if s.tail == nil {
		return
	}
	e := s.tail
	s.remove(e)
	delete(s.items, e.key)
}
