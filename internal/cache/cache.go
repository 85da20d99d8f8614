// Package cache implements the tiered response cache that keeps the
// assistant off the paid generation path whenever possible.
//
// Lookup order is fixed: static table, exact match, semantic (word overlap)
// match, per-user learned patterns, then the external generator as the last
// resort. Every tier short-circuits on its first hit. All stores are
// in-process and safe for concurrent use.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nutribot/internal/core"
)

const (
	// DefaultTTL is how long exact and semantic entries stay servable.
	DefaultTTL = 24 * time.Hour

	// DefaultSimilarityThreshold is the Jaccard similarity a semantic
	// match must strictly exceed.
	DefaultSimilarityThreshold = 0.7

	// DefaultCostPerCall is the estimated cost of one generation in dollars.
	DefaultCostPerCall = 0.015

	// DefaultExactCapacity bounds the exact store; least recently used
	// entries are evicted once it fills.
	DefaultExactCapacity = 1000

	// DefaultPatternsPerUser bounds each user's learned pattern table.
	DefaultPatternsPerUser = 50
)

// fallbackResponse is served when no tier matches and no generator is
// available (free-tier traffic).
const fallbackResponse = "I can answer common nutrition questions instantly - try asking about " +
	"healthy breakfasts, snacks, meal prep, water, or protein. For a personalized answer to " +
	"this one, upgrade to Premium and I'll put the full AI nutritionist on it."

// Hooks receives lookup outcomes for metrics collection. All methods must
// be safe for concurrent use; implementations must not block.
type Hooks interface {
	// OnLookup is called once per GetOrGenerate with the winning source.
	OnLookup(source core.Source)

	// OnGeneration is called after a successful generator invocation with
	// the estimated cost charged.
	OnGeneration(cost float64)
}

// Config holds the tunables for a ResponseCache.
type Config struct {
	// TTL is the lifetime of exact and semantic entries (default 24h).
	TTL time.Duration

	// SimilarityThreshold is the Jaccard score a semantic hit must strictly
	// exceed (default 0.7, must be in (0,1]).
	SimilarityThreshold float64

	// CostPerCall is the estimated dollar cost of one generation (default 0.015).
	CostPerCall float64

	// ExactCapacity bounds the exact store (default 1000).
	ExactCapacity int

	// PatternsPerUser bounds each user's learned pattern table (default 50).
	PatternsPerUser int

	// ExtraStaticResponses are appended after the built-in static table.
	ExtraStaticResponses []StaticResponse

	// Hooks receives lookup outcomes. Optional.
	Hooks Hooks
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		TTL:                 DefaultTTL,
		SimilarityThreshold: DefaultSimilarityThreshold,
		CostPerCall:         DefaultCostPerCall,
		ExactCapacity:       DefaultExactCapacity,
		PatternsPerUser:     DefaultPatternsPerUser,
	}
}

// ResponseCache owns the four lookup stores and their statistics.
// Construct one per process and share it; re-instantiating resets hit rates.
type ResponseCache struct {
	static   []StaticResponse
	exact    *exactStore
	semantic *semanticStore
	patterns *patternStore
	stats    *stats

	costPerCall float64
	hooks       Hooks

	// now is the clock; replaced in tests to exercise expiry.
	now func() time.Time
}

// New creates a ResponseCache. Zero-valued Config fields fall back to the
// package defaults.
func New(cfg Config) (*ResponseCache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in (0,1], got %v", cfg.SimilarityThreshold)
	}
	if cfg.CostPerCall <= 0 {
		cfg.CostPerCall = DefaultCostPerCall
	}
	if cfg.ExactCapacity <= 0 {
		cfg.ExactCapacity = DefaultExactCapacity
	}
	if cfg.PatternsPerUser <= 0 {
		cfg.PatternsPerUser = DefaultPatternsPerUser
	}

	exact, err := newExactStore(cfg.ExactCapacity, cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create exact store: %w", err)
	}

	static := DefaultStaticResponses()
	static = append(static, cfg.ExtraStaticResponses...)

	return &ResponseCache{
		static:      static,
		exact:       exact,
		semantic:    newSemanticStore(cfg.TTL, cfg.SimilarityThreshold),
		patterns:    newPatternStore(cfg.PatternsPerUser),
		stats:       &stats{},
		costPerCall: cfg.CostPerCall,
		hooks:       cfg.Hooks,
	}, nil
}

// GetOrGenerate answers a query from the cheapest tier that matches, calling
// gen only when every tier misses. With gen nil, a miss returns the canned
// fallback instead.
//
// A generator error propagates to the caller untouched; nothing is cached
// for a failed attempt. A successful generation is written to the exact,
// semantic, and user-pattern stores before returning.
func (c *ResponseCache) GetOrGenerate(ctx context.Context, query, userID string, gen core.Generator) (*core.Result, error) {
	c.stats.recordRequest()
	lowered := strings.ToLower(query)

	// Tier 1: static table.
	for i := range c.static {
		if c.static[i].Matches(lowered) {
			return c.hit(core.SourceStatic, c.static[i].Response), nil
		}
	}

	now := c.clock()

	// Tier 2: exact match on the (user, normalized query) key.
	key := Key(userID, query)
	if response, ok := c.exact.Get(key, now); ok {
		return c.hit(core.SourceExact, response), nil
	}

	// Tier 3: word-overlap similarity against previously cached queries.
	if response, ok := c.semantic.Get(query, now); ok {
		return c.hit(core.SourceSemantic, response), nil
	}

	// Tier 4: this user's learned patterns.
	if response, ok := c.patterns.Get(userID, query); ok {
		return c.hit(core.SourceUserPattern, response), nil
	}

	if gen == nil {
		c.observe(core.SourceFallback)
		return &core.Result{
			Response: fallbackResponse,
			Source:   core.SourceFallback,
			Cost:     0,
			Cached:   false,
		}, nil
	}

	response, err := gen.Generate(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	c.store(key, query, userID, response)
	c.stats.recordAICall()
	c.observe(core.SourceAIGenerated)
	if c.hooks != nil {
		c.hooks.OnGeneration(c.costPerCall)
	}
	slog.Debug("generated response cached", "user_id", userID, "key", key)

	return &core.Result{
		Response: response,
		Source:   core.SourceAIGenerated,
		Cost:     c.costPerCall,
		Cached:   false,
	}, nil
}

// store writes one generated response into all three learning stores.
func (c *ResponseCache) store(key, query, userID, response string) {
	now := c.clock()
	c.exact.Set(key, response, now)
	c.semantic.Set(query, response, now)
	c.patterns.Learn(userID, query, response)
}

// hit builds the zero-cost result for a cache tier and records statistics.
func (c *ResponseCache) hit(source core.Source, response string) *core.Result {
	c.stats.recordHit(source, c.costPerCall)
	c.observe(source)
	return &core.Result{
		Response: response,
		Source:   source,
		Cost:     0,
		Cached:   true,
	}
}

func (c *ResponseCache) observe(source core.Source) {
	if c.hooks != nil {
		c.hooks.OnLookup(source)
	}
}

// ClearExpired removes expired entries from the exact and semantic stores.
// The static table and user patterns never expire. Meant to be driven by an
// external scheduler; nothing runs it automatically.
func (c *ResponseCache) ClearExpired() {
	now := c.clock()
	exact := c.exact.Sweep(now)
	semantic := c.semantic.Sweep(now)
	if exact+semantic > 0 {
		slog.Info("cache sweep", "exact_removed", exact, "semantic_removed", semantic)
	}
}

// Stats returns a point-in-time snapshot of counters and store sizes.
func (c *ResponseCache) Stats() core.StatsSnapshot {
	return c.stats.snapshot(c.exact.Len(), c.semantic.Len(), len(c.static), c.patterns.UserCount())
}

func (c *ResponseCache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}
