package core

// Source identifies which lookup tier produced a response.
type Source string

const (
	// SourceStatic means the response came from the static pattern table.
	SourceStatic Source = "static_cache"
	// SourceExact means the response came from the exact-match cache.
	SourceExact Source = "exact_cache"
	// SourceSemantic means the response came from the semantic (word overlap) cache.
	SourceSemantic Source = "semantic_cache"
	// SourceUserPattern means the response came from the per-user pattern cache.
	SourceUserPattern Source = "user_pattern_cache"
	// SourceAIGenerated means the response was produced by the external generator.
	SourceAIGenerated Source = "ai_generated"
	// SourceFallback means no tier matched and no generator was available.
	SourceFallback Source = "fallback"
	// SourcePersonalizedTemplate means a template was filled from profile data.
	SourcePersonalizedTemplate Source = "personalized_template"
	// SourceNeedsAI means no template matched and the caller must generate.
	SourceNeedsAI Source = "needs_ai"
)

// Result is the envelope returned by every cache lookup.
type Result struct {
	// Response is the answer text. Empty when Source is SourceNeedsAI.
	Response string `json:"response"`

	// Source identifies the tier that produced the response.
	Source Source `json:"source"`

	// Cost is the estimated spend for this call in dollars.
	// Zero for every cache tier; the per-call estimate for generation.
	Cost float64 `json:"cost"`

	// Cached reports whether the response was served without generation.
	Cached bool `json:"cached"`

	// Personalized reports whether profile data was substituted into the response.
	Personalized bool `json:"personalized,omitempty"`

	// Message carries optional advisory text (e.g. why AI handling is needed).
	Message string `json:"message,omitempty"`
}

// UserProfile holds the per-user data consumed by the personalization engine.
// The cache core never mutates or persists a profile; the profile store does.
type UserProfile struct {
	UserID              string            `json:"user_id" bson:"_id"`
	Name                string            `json:"name,omitempty" bson:"name,omitempty"`
	DietaryRestrictions []string          `json:"dietary_restrictions,omitempty" bson:"dietary_restrictions,omitempty"`
	Goals               []string          `json:"goals,omitempty" bson:"goals,omitempty"`
	WeightGoal          float64           `json:"weight_goal,omitempty" bson:"weight_goal,omitempty"`
	CurrentWeight       float64           `json:"current_weight,omitempty" bson:"current_weight,omitempty"`
	HouseholdSize       int               `json:"household_size,omitempty" bson:"household_size,omitempty"`
	FoodPreferences     map[string]string `json:"food_preferences,omitempty" bson:"food_preferences,omitempty"`
}

// HasRestriction reports whether the profile lists the given dietary
// restriction. Matching is exact on the lowercase restriction name.
func (p *UserProfile) HasRestriction(name string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.DietaryRestrictions {
		if r == name {
			return true
		}
	}
	return false
}

// StatsSnapshot is a read-only view of the cache counters and store sizes.
type StatsSnapshot struct {
	TotalCachedResponses int    `json:"total_cached_responses"`
	ExactCacheSize       int    `json:"exact_cache_size"`
	SemanticCacheSize    int    `json:"semantic_cache_size"`
	StaticResponses      int    `json:"static_responses"`
	UsersWithPatterns    int    `json:"users_with_patterns"`
	TotalRequests        uint64 `json:"total_requests"`
	CacheHitRate         string `json:"cache_hit_rate"`
	AICalls              uint64 `json:"ai_calls"`
	EstimatedCostSaved   string `json:"estimated_cost_saved"`

	Breakdown StatsBreakdown `json:"breakdown"`
}

// StatsBreakdown holds per-tier hit counters.
type StatsBreakdown struct {
	StaticHits   uint64 `json:"static_hits"`
	ExactHits    uint64 `json:"exact_hits"`
	SemanticHits uint64 `json:"semantic_hits"`
	PatternHits  uint64 `json:"pattern_hits"`
}
