package cache

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"nutribot/internal/core"
)

// countingGenerator is a Generator mock that records invocations and serves
// responses in sequence.
type countingGenerator struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (g *countingGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	resp := g.responses[g.calls%len(g.responses)]
	g.calls++
	return resp, nil
}

func (g *countingGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newTestCache(t *testing.T) *ResponseCache {
	t.Helper()
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c
}

func TestStaticTier(t *testing.T) {
	// Scenario: a common question with no prior cache state hits the
	// static table at zero cost.
	c := newTestCache(t)

	result, err := c.GetOrGenerate(context.Background(), "what's a healthy breakfast", "u1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != core.SourceStatic {
		t.Fatalf("expected static source, got %s", result.Source)
	}
	if !strings.Contains(result.Response, "Overnight Oats") {
		t.Errorf("expected breakfast response to mention Overnight Oats, got %q", result.Response)
	}
	if result.Cost != 0.0 {
		t.Errorf("expected zero cost, got %v", result.Cost)
	}
	if !result.Cached {
		t.Error("static hit should report cached=true")
	}
}

func TestStaticBeatsExact(t *testing.T) {
	// Static always wins even when an exact entry exists for the query.
	c := newTestCache(t)
	query := "what's a healthy breakfast"
	c.exact.Set(Key("u1", query), "stale exact answer", time.Now())

	result, err := c.GetOrGenerate(context.Background(), query, "u1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != core.SourceStatic {
		t.Fatalf("expected static to win over exact, got %s", result.Source)
	}
}

func TestGenerateThenExactHit(t *testing.T) {
	// Scenario: first call generates and caches; the identical re-query is
	// served from the exact store without invoking the generator again,
	// even though it would return different text.
	c := newTestCache(t)
	gen := &countingGenerator{responses: []string{"Try a salad", "Try a burger"}}

	first, err := c.GetOrGenerate(context.Background(), "recommend a lunch", "u1", gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Source != core.SourceAIGenerated {
		t.Fatalf("expected ai_generated, got %s", first.Source)
	}
	if first.Cost != DefaultCostPerCall {
		t.Errorf("expected cost %v, got %v", DefaultCostPerCall, first.Cost)
	}
	if first.Cached {
		t.Error("generated response should report cached=false")
	}

	second, err := c.GetOrGenerate(context.Background(), "recommend a lunch", "u1", gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Source != core.SourceExact {
		t.Fatalf("expected exact_cache on re-query, got %s", second.Source)
	}
	if second.Response != "Try a salad" {
		t.Errorf("expected the first cached response, got %q", second.Response)
	}
	if second.Cost != 0.0 {
		t.Errorf("expected zero cost on cache hit, got %v", second.Cost)
	}
	if gen.Calls() != 1 {
		t.Errorf("generator should have been invoked once, got %d", gen.Calls())
	}
}

func TestFallbackWithoutGenerator(t *testing.T) {
	// Scenario: no tier matches and no generator was supplied; the caller
	// gets the canned upsell message, not an error.
	c := newTestCache(t)

	result, err := c.GetOrGenerate(context.Background(), "I want to lose weight fast", "u2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != core.SourceFallback {
		t.Fatalf("expected fallback, got %s", result.Source)
	}
	if !strings.Contains(result.Response, "Premium") {
		t.Errorf("fallback should mention the Premium upgrade path, got %q", result.Response)
	}
	if result.Cost != 0.0 {
		t.Errorf("expected zero cost, got %v", result.Cost)
	}
}

func TestExpirySweep(t *testing.T) {
	// An entry inserted at T is invisible at T+ttl and physically removed
	// by the sweep; the re-query falls through to generation.
	c := newTestCache(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	gen := &countingGenerator{responses: []string{"first answer", "second answer"}}
	if _, err := c.GetOrGenerate(context.Background(), "recommend a lunch", "u1", gen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.exact.Len() != 1 || c.semantic.Len() != 1 {
		t.Fatalf("expected one entry per store, got exact=%d semantic=%d", c.exact.Len(), c.semantic.Len())
	}

	// Entries past TTL stay resident until swept but never serve.
	now = now.Add(DefaultTTL + time.Minute)
	if c.exact.Len() != 1 {
		t.Fatal("expired entry should remain resident before the sweep")
	}

	c.ClearExpired()
	if c.exact.Len() != 0 {
		t.Errorf("expected empty exact store after sweep, got %d", c.exact.Len())
	}
	if c.semantic.Len() != 0 {
		t.Errorf("expected empty semantic store after sweep, got %d", c.semantic.Len())
	}

	result, err := c.GetOrGenerate(context.Background(), "recommend a lunch", "u1", gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != core.SourceAIGenerated {
		t.Fatalf("expected regeneration after expiry, got %s", result.Source)
	}
	if result.Response != "second answer" {
		t.Errorf("expected fresh generation, got %q", result.Response)
	}
	if gen.Calls() != 2 {
		t.Errorf("expected two generator invocations, got %d", gen.Calls())
	}
}

func TestExpiredEntryInvisibleBeforeSweep(t *testing.T) {
	// Without a sweep, an expired exact entry is treated as absent on
	// lookup even though it is still resident.
	c := newTestCache(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	gen := &countingGenerator{responses: []string{"first", "second"}}
	if _, err := c.GetOrGenerate(context.Background(), "recommend a lunch", "u1", gen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(DefaultTTL + time.Minute)
	result, err := c.GetOrGenerate(context.Background(), "recommend a lunch", "u1", gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != core.SourceAIGenerated {
		t.Fatalf("expected expired entry to be invisible, got source %s", result.Source)
	}
}

func TestGeneratorErrorPropagates(t *testing.T) {
	c := newTestCache(t)
	genErr := context.DeadlineExceeded
	gen := core.GeneratorFunc(func(context.Context, string, string) (string, error) {
		return "", genErr
	})

	_, err := c.GetOrGenerate(context.Background(), "recommend a lunch", "u1", gen)
	if err != genErr {
		t.Fatalf("expected the generator error untouched, got %v", err)
	}
	// Nothing may be cached for a failed attempt.
	if c.exact.Len() != 0 || c.semantic.Len() != 0 {
		t.Error("failed generation must not populate the stores")
	}
}

func TestUserPatternTier(t *testing.T) {
	c := newTestCache(t)
	gen := &countingGenerator{responses: []string{"Grilled veggies work great"}}

	// Learn from a generated answer: pattern becomes "grill vegetables properly".
	if _, err := c.GetOrGenerate(context.Background(), "grill vegetables properly", "u1", gen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A longer rephrasing containing the learned pattern hits tier 4.
	// (Exact misses: different normalized query. Semantic misses: word
	// overlap 3/8 is far below the threshold.)
	result, err := c.GetOrGenerate(context.Background(), "how do I grill vegetables properly at home", "u1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != core.SourceUserPattern {
		t.Fatalf("expected user_pattern_cache, got %s", result.Source)
	}
	if result.Response != "Grilled veggies work great" {
		t.Errorf("unexpected pattern response %q", result.Response)
	}

	// A different user never sees these patterns.
	other, err := c.GetOrGenerate(context.Background(), "how do I grill vegetables properly at home", "u2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Source == core.SourceUserPattern {
		t.Error("patterns must be scoped per user")
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t)
	gen := &countingGenerator{responses: []string{"Try a salad"}}

	ctx := context.Background()
	if _, err := c.GetOrGenerate(ctx, "what's a healthy breakfast", "u1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrGenerate(ctx, "recommend a lunch", "u1", gen); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrGenerate(ctx, "recommend a lunch", "u1", gen); err != nil {
		t.Fatal(err)
	}

	snap := c.Stats()
	if snap.TotalRequests != 3 {
		t.Errorf("expected 3 total requests, got %d", snap.TotalRequests)
	}
	if snap.Breakdown.StaticHits != 1 {
		t.Errorf("expected 1 static hit, got %d", snap.Breakdown.StaticHits)
	}
	if snap.Breakdown.ExactHits != 1 {
		t.Errorf("expected 1 exact hit, got %d", snap.Breakdown.ExactHits)
	}
	if snap.AICalls != 1 {
		t.Errorf("expected 1 AI call, got %d", snap.AICalls)
	}
	if snap.ExactCacheSize != 1 || snap.SemanticCacheSize != 1 {
		t.Errorf("unexpected store sizes: exact=%d semantic=%d", snap.ExactCacheSize, snap.SemanticCacheSize)
	}
	if snap.TotalCachedResponses != 2 {
		t.Errorf("expected 2 total cached responses, got %d", snap.TotalCachedResponses)
	}
	if snap.UsersWithPatterns != 1 {
		t.Errorf("expected 1 user with patterns, got %d", snap.UsersWithPatterns)
	}
	if snap.CacheHitRate != "66.7%" {
		t.Errorf("expected 66.7%% hit rate, got %s", snap.CacheHitRate)
	}
	if snap.EstimatedCostSaved != "$0.03" {
		t.Errorf("expected $0.03 saved (2 hits x 0.015), got %s", snap.EstimatedCostSaved)
	}
	if snap.StaticResponses == 0 {
		t.Error("expected a non-empty static table")
	}
}

func TestConcurrentAccess(t *testing.T) {
	// Mixed readers and writers must not race; run with -race.
	c := newTestCache(t)
	gen := &countingGenerator{responses: []string{"generated"}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			queries := []string{
				"what's a healthy breakfast",
				"recommend a lunch",
				"suggest something for dinner tonight",
			}
			for j := 0; j < 50; j++ {
				q := queries[j%len(queries)]
				if _, err := c.GetOrGenerate(context.Background(), q, "user", gen); err != nil {
					t.Errorf("worker %d: %v", id, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	c.ClearExpired()
	if c.Stats().TotalRequests != 400 {
		t.Errorf("expected 400 requests, got %d", c.Stats().TotalRequests)
	}
}
