package cache

import (
	"fmt"
	"sync"

	"nutribot/internal/core"
)

// stats tracks lookup outcomes. Counters only ever increase; they reset
// with the process.
type stats struct {
	mu sync.Mutex

	totalRequests uint64
	staticHits    uint64
	exactHits     uint64
	semanticHits  uint64
	patternHits   uint64
	aiCalls       uint64
	costSaved     float64
}

func (s *stats) recordRequest() {
	s.mu.Lock()
	s.totalRequests++
	s.mu.Unlock()
}

// recordHit credits a cache tier with one served request and the generation
// cost it avoided.
func (s *stats) recordHit(source core.Source, savedCost float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch source {
	case core.SourceStatic:
		s.staticHits++
	case core.SourceExact:
		s.exactHits++
	case core.SourceSemantic:
		s.semanticHits++
	case core.SourceUserPattern:
		s.patternHits++
	}
	s.costSaved += savedCost
}

func (s *stats) recordAICall() {
	s.mu.Lock()
	s.aiCalls++
	s.mu.Unlock()
}

// snapshot renders the counters into the reporting shape. Store sizes are
// supplied by the caller since the stores own their own locks.
func (s *stats) snapshot(exactSize, semanticSize, staticSize, userCount int) core.StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalHits := s.staticHits + s.exactHits + s.semanticHits + s.patternHits
	hitRate := 0.0
	if s.totalRequests > 0 {
		hitRate = float64(totalHits) / float64(s.totalRequests) * 100
	}

	return core.StatsSnapshot{
		TotalCachedResponses: exactSize + semanticSize,
		ExactCacheSize:       exactSize,
		SemanticCacheSize:    semanticSize,
		StaticResponses:      staticSize,
		UsersWithPatterns:    userCount,
		TotalRequests:        s.totalRequests,
		CacheHitRate:         fmt.Sprintf("%.1f%%", hitRate),
		AICalls:              s.aiCalls,
		EstimatedCostSaved:   fmt.Sprintf("$%.2f", s.costSaved),
		Breakdown: core.StatsBreakdown{
			StaticHits:   s.staticHits,
			ExactHits:    s.exactHits,
			SemanticHits: s.semanticHits,
			PatternHits:  s.patternHits,
		},
	}
}
