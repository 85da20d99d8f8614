// Package personalize fills response templates with user profile data,
// answering profile-shaped questions without a paid generation call.
package personalize

import (
	"strings"

	"nutribot/internal/core"
)

// Engine matches queries against an immutable template library and
// substitutes profile-derived values for placeholders. It never calls a
// generator; when no template matches it signals needs_ai back to the caller.
type Engine struct {
	templates []Template

	// costPerCall is what the caller would spend on generation; reported
	// on the needs_ai signal so the caller can account for it.
	costPerCall float64
}

// NewEngine creates an Engine over the built-in library plus extra, scanned
// in that order. costPerCall <= 0 falls back to the cache default.
func NewEngine(extra []Template, costPerCall float64) *Engine {
	if costPerCall <= 0 {
		costPerCall = 0.015
	}
	templates := DefaultTemplates()
	templates = append(templates, extra...)
	return &Engine{templates: templates, costPerCall: costPerCall}
}

// Personalize answers the query from the first matching template, filling
// placeholders from the profile. Substitution is literal string replacement;
// placeholders whose variable is not computed pass through unchanged. A
// missing or partial profile blanks fields, it never fails the call.
//
// No matching template is not an error: the result carries SourceNeedsAI and
// an empty response, and the decision to generate is handed back.
func (e *Engine) Personalize(query string, profile *core.UserProfile) *core.Result {
	lowered := strings.ToLower(query)

	for i := range e.templates {
		t := &e.templates[i]
		if !t.Matches(lowered) {
			continue
		}

		text := t.Text
		for name, value := range computeVariables(t.Variables, profile) {
			text = strings.ReplaceAll(text, "{"+name+"}", value)
		}

		return &core.Result{
			Response:     text,
			Source:       core.SourcePersonalizedTemplate,
			Cost:         0,
			Cached:       true,
			Personalized: true,
		}
	}

	return &core.Result{
		Source:       core.SourceNeedsAI,
		Cost:         e.costPerCall,
		Cached:       false,
		Personalized: false,
		Message:      "no template matched; route this query to the generator",
	}
}

// TemplateCount returns the number of templates in the library.
func (e *Engine) TemplateCount() int {
	return len(e.templates)
}
