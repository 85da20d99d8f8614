package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Normalize canonicalizes a query for exact and semantic matching:
// lowercase, trimmed, internal whitespace collapsed to single spaces.
// Identical inputs always normalize identically.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Key derives the deterministic exact-cache key for a (user, query) pair.
// The NUL separator keeps distinct pairs from colliding on concatenation.
func Key(userID, query string) string {
	d := xxhash.New()
	_, _ = d.WriteString(userID)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(Normalize(query))
	return strconv.FormatUint(d.Sum64(), 16)
}

// wordSet splits a query into its set of lowercase words.
func wordSet(query string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(query))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// jaccard computes |A∩B| / |A∪B| over two word sets.
// Two empty sets have no overlap to speak of; similarity is 0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
