package personalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a response skeleton with {placeholder} markers filled from a
// user profile at serve time. Templates are immutable after construction.
type Template struct {
	Name string `yaml:"name"`

	// Patterns are trigger phrases; the template matches when any of them
	// is a substring of the lowercased query.
	Patterns []string `yaml:"patterns"`

	// Text is the response skeleton. Placeholders not listed in Variables
	// are left in the output as-is.
	Text string `yaml:"text"`

	// Variables names the placeholders to compute for this template.
	Variables []string `yaml:"variables"`
}

// Matches reports whether any trigger phrase occurs in the lowercased query.
func (t *Template) Matches(loweredQuery string) bool {
	for _, p := range t.Patterns {
		if strings.Contains(loweredQuery, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// templatesFile is the YAML document shape for LoadTemplates.
type templatesFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadTemplates reads additional templates from a YAML file. Entries are
// appended after the built-in library, so built-ins keep priority.
func LoadTemplates(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var file templatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates file: %w", err)
	}

	for i, t := range file.Templates {
		if len(t.Patterns) == 0 || t.Text == "" {
			return nil, fmt.Errorf("template %d (%q) needs patterns and text", i, t.Name)
		}
	}

	return file.Templates, nil
}

// DefaultTemplates returns the built-in template library. Order matters:
// the engine scans in definition order and the first match wins.
func DefaultTemplates() []Template {
	return []Template{
		{
			Name:     "weight_loss_tips",
			Patterns: []string{"lose weight", "weight loss", "losing weight"},
			Text: "Here's your plan{user_name_greeting}:\n\n" +
				"Daily calorie target: {calorie_target} calories\n" +
				"At a steady 1.5 lb/week, you're about {weeks_to_goal} weeks from your goal.\n\n" +
				"Three habits that do most of the work:\n" +
				"1. Build each {dietary_label}meal around protein - think {protein_sources}\n" +
				"2. Front-load calories earlier in the day\n" +
				"3. Walk after meals - even 10 minutes moves the needle\n\n" +
				"Track for the first two weeks; after that the portions become second nature.",
			Variables: []string{
				"user_name_greeting", "calorie_target", "weeks_to_goal",
				"dietary_label", "protein_sources",
			},
		},
		{
			Name:     "meal_plan",
			Patterns: []string{"meal plan", "plan my meals", "weekly menu"},
			Text: "Here's a 5-day {dietary_label}meal plan for your household of {household_size}{user_name_greeting}:\n\n" +
				"Rotate these proteins: {protein_sources}.\n" +
				"Pair each with a whole grain and two vegetables, batch-cooked once.\n\n" +
				"Budget check: cooking this at home runs about ${meal_prep_cost} for the week, " +
				"versus roughly ${dine_out_cost} eating out. That's real money back in your pocket.",
			Variables: []string{
				"dietary_label", "household_size", "user_name_greeting",
				"protein_sources", "meal_prep_cost", "dine_out_cost",
			},
		},
		{
			Name:     "calorie_target",
			Patterns: []string{"how many calories", "calorie target", "daily calories"},
			Text: "Based on your current weight{user_name_greeting}, aim for about " +
				"{calorie_target} calories a day. Split it roughly 30% protein, 40% carbs, " +
				"30% fat, and re-check the number every 10 lbs of change.",
			Variables: []string{"user_name_greeting", "calorie_target"},
		},
		{
			Name:     "grocery_list",
			Patterns: []string{"grocery list", "shopping list", "what should i buy"},
			Text: "A week of {dietary_label}groceries for {household_size}{user_name_greeting}:\n\n" +
				"- Proteins: {protein_sources}\n" +
				"- Grains: brown rice, oats, whole grain bread\n" +
				"- Produce: leafy greens, peppers, berries, bananas\n" +
				"- Pantry: olive oil, canned tomatoes, spices\n\n" +
				"Expect about ${meal_prep_cost} at the register for the week's meals.",
			Variables: []string{
				"dietary_label", "household_size", "user_name_greeting",
				"protein_sources", "meal_prep_cost",
			},
		},
		{
			Name:     "protein_ideas",
			Patterns: []string{"protein ideas", "protein sources", "more protein"},
			Text: "Good {dietary_label}protein picks for you{user_name_greeting}: {protein_sources}. " +
				"Aim for a palm-sized portion at every meal.",
			Variables: []string{"dietary_label", "user_name_greeting", "protein_sources"},
		},
	}
}
