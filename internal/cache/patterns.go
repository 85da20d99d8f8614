package cache

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// patternKeywordMinLen filters filler words out of learned patterns;
// only words longer than this contribute.
const patternKeywordMinLen = 4

// patternKeywordMax caps how many query words form one learned pattern.
const patternKeywordMax = 3

// patternStore maps each user to the short query patterns it has learned
// from that user's generated answers. Patterns never expire; instead each
// user's table is bounded by an LRU so stale phrasing eventually rotates out.
type patternStore struct {
	mu       sync.RWMutex
	users    map[string]*lru.Cache[string, string]
	capacity int
}

func newPatternStore(perUserCapacity int) *patternStore {
	return &patternStore{
		users:    make(map[string]*lru.Cache[string, string]),
		capacity: perUserCapacity,
	}
}

// derivePattern extracts up to three significant words from a query and
// joins them into a single pattern key. Returns "" when the query has no
// significant words.
func derivePattern(query string) string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) > patternKeywordMinLen {
			keywords = append(keywords, word)
			if len(keywords) == patternKeywordMax {
				break
			}
		}
	}
	return strings.Join(keywords, " ")
}

// Get returns the stored response for the first of the user's patterns that
// is a substring of the lowercased query.
func (s *patternStore) Get(userID, query string) (string, bool) {
	s.mu.RLock()
	patterns := s.users[userID]
	s.mu.RUnlock()

	if patterns == nil {
		return "", false
	}

	lowered := strings.ToLower(query)
	for _, pattern := range patterns.Keys() {
		if strings.Contains(lowered, pattern) {
			if response, ok := patterns.Peek(pattern); ok {
				return response, true
			}
		}
	}
	return "", false
}

// Learn derives a pattern from the query and associates it with the
// generated response, scoped to the given user.
func (s *patternStore) Learn(userID, query, response string) {
	pattern := derivePattern(query)
	if pattern == "" {
		return
	}

	s.mu.Lock()
	patterns := s.users[userID]
	if patterns == nil {
		// lru.New only fails on a non-positive size, which the
		// constructor guards against.
		patterns, _ = lru.New[string, string](s.capacity)
		s.users[userID] = patterns
	}
	s.mu.Unlock()

	patterns.Add(pattern, response)
}

// UserCount returns how many users have at least one learned pattern.
func (s *patternStore) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
