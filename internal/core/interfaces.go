// Package core defines the shared types and interfaces for the response cache service.
package core

import "context"

// Generator produces a fresh answer for a query when no cache tier matches.
// Implementations are expected to be expensive (a paid LLM call); the cache
// invokes a Generator only as the last resort. Errors propagate to the caller
// untouched and nothing is cached for a failed attempt.
type Generator interface {
	Generate(ctx context.Context, query, userID string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, query, userID string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, query, userID string) (string, error) {
	return f(ctx, query, userID)
}

// ProfileStore supplies user profile records to the personalization engine.
// Implementations must be safe for concurrent use.
type ProfileStore interface {
	// Get returns the profile for the given user id.
	// Returns nil, nil if no profile exists.
	Get(ctx context.Context, userID string) (*UserProfile, error)

	// Put stores or replaces the profile for profile.UserID.
	Put(ctx context.Context, profile *UserProfile) error

	// Delete removes the profile for the given user id. Deleting a
	// missing profile is not an error.
	Delete(ctx context.Context, userID string) error

	// Close releases any resources held by the store.
	Close() error
}
