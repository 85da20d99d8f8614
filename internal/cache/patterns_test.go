package cache

import (
	"fmt"
	"testing"
)

func TestDerivePattern(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"takes significant words", "how do I meal prep chicken for the week", "chicken"},
		{"caps at three", "planning weekly grocery shopping budgets carefully", "planning weekly grocery"},
		{"skips short words", "what can I eat now", ""},
		{"lowercases", "Grill Vegetables Properly", "grill vegetables properly"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := derivePattern(tt.query); got != tt.want {
				t.Errorf("derivePattern(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestPatternStoreScoping(t *testing.T) {
	s := newPatternStore(DefaultPatternsPerUser)
	s.Learn("u1", "grill vegetables properly", "veggie answer")

	if _, ok := s.Get("u2", "how to grill vegetables properly"); ok {
		t.Error("patterns must not leak across users")
	}

	response, ok := s.Get("u1", "how to grill vegetables properly")
	if !ok {
		t.Fatal("expected a pattern hit for the learning user")
	}
	if response != "veggie answer" {
		t.Errorf("unexpected response %q", response)
	}

	if s.UserCount() != 1 {
		t.Errorf("expected 1 user with patterns, got %d", s.UserCount())
	}
}

func TestPatternStoreNoSignificantWords(t *testing.T) {
	s := newPatternStore(DefaultPatternsPerUser)
	s.Learn("u1", "eat now ok", "unstorable")
	if s.UserCount() != 0 {
		t.Error("queries without significant words must not create a pattern table")
	}
}

func TestPatternStoreCapacity(t *testing.T) {
	// Oldest patterns rotate out once the per-user bound is reached.
	s := newPatternStore(3)
	for i := 0; i < 4; i++ {
		query := fmt.Sprintf("question number%d about nutrition", i)
		s.Learn("u1", query, fmt.Sprintf("answer %d", i))
	}

	if _, ok := s.Get("u1", "question number0 about nutrition"); ok {
		t.Error("the oldest pattern should have been evicted")
	}
	if _, ok := s.Get("u1", "question number3 about nutrition"); !ok {
		t.Error("the newest pattern should still match")
	}
}
