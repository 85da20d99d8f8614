package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry is a cached response plus the instant it was stored.
type entry struct {
	response  string
	timestamp time.Time
}

// expired reports whether the entry is older than ttl at time now.
func (e entry) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.timestamp) >= ttl
}

// exactStore holds responses keyed by the deterministic (user, query) hash.
// It is bounded: the least recently used entry is evicted when the store is
// full. Expired entries are invisible to Get but stay resident until Sweep.
type exactStore struct {
	entries *lru.Cache[string, entry]
	ttl     time.Duration
}

func newExactStore(capacity int, ttl time.Duration) (*exactStore, error) {
	entries, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &exactStore{entries: entries, ttl: ttl}, nil
}

// Get returns the cached response for key if present and within TTL.
func (s *exactStore) Get(key string, now time.Time) (string, bool) {
	e, ok := s.entries.Get(key)
	if !ok || e.expired(now, s.ttl) {
		return "", false
	}
	return e.response, true
}

// Set stores a response under key, evicting the LRU entry if full.
func (s *exactStore) Set(key, response string, now time.Time) {
	s.entries.Add(key, entry{response: response, timestamp: now})
}

// Sweep removes every entry whose TTL has elapsed and returns the count.
func (s *exactStore) Sweep(now time.Time) int {
	removed := 0
	for _, key := range s.entries.Keys() {
		// Peek avoids promoting entries in LRU order during maintenance.
		if e, ok := s.entries.Peek(key); ok && e.expired(now, s.ttl) {
			s.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of resident entries, expired ones included.
func (s *exactStore) Len() int {
	return s.entries.Len()
}
