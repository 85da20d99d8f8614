package cache

import (
	"sync"
	"time"
)

// semanticEntry keeps the cached response together with the word set of the
// normalized query it answered, so lookups don't re-split on every scan.
type semanticEntry struct {
	entry
	words map[string]struct{}
}

// semanticStore holds responses keyed by normalized query string and matches
// new queries by Jaccard word-set similarity against every resident entry.
// The scan is linear; the store is expected to stay in the low thousands.
type semanticStore struct {
	mu        sync.RWMutex
	entries   map[string]semanticEntry
	ttl       time.Duration
	threshold float64
}

func newSemanticStore(ttl time.Duration, threshold float64) *semanticStore {
	return &semanticStore{
		entries:   make(map[string]semanticEntry),
		ttl:       ttl,
		threshold: threshold,
	}
}

// Get returns the response of the most similar cached query, provided its
// similarity strictly exceeds the threshold. Ties keep whichever entry the
// scan saw first; map iteration order makes that non-deterministic on ties.
func (s *semanticStore) Get(query string, now time.Time) (string, bool) {
	words := wordSet(query)
	if len(words) == 0 {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best     float64
		response string
		found    bool
	)
	for _, e := range s.entries {
		if e.expired(now, s.ttl) {
			continue
		}
		if sim := jaccard(words, e.words); sim > best {
			best = sim
			response = e.response
			found = true
		}
	}

	if !found || best <= s.threshold {
		return "", false
	}
	return response, true
}

// Set stores a response under the normalized form of query.
func (s *semanticStore) Set(query, response string, now time.Time) {
	normalized := Normalize(query)
	if normalized == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[normalized] = semanticEntry{
		entry: entry{response: response, timestamp: now},
		words: wordSet(normalized),
	}
}

// Sweep removes every entry whose TTL has elapsed and returns the count.
func (s *semanticStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.expired(now, s.ttl) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of resident entries, expired ones included.
func (s *semanticStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
