package cache

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StaticResponse pairs a set of required keywords with a canned answer.
// A query matches when every keyword occurs (case-insensitive) in it.
// Static responses are defined at startup and never expire.
type StaticResponse struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

// Matches reports whether every keyword occurs in the lowercased query.
func (s *StaticResponse) Matches(loweredQuery string) bool {
	if len(s.Keywords) == 0 {
		return false
	}
	for _, kw := range s.Keywords {
		if !strings.Contains(loweredQuery, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// staticResponsesFile is the YAML document shape for LoadStaticResponses.
type staticResponsesFile struct {
	Responses []StaticResponse `yaml:"responses"`
}

// LoadStaticResponses reads additional static responses from a YAML file.
// Entries are appended after the built-in table, so built-ins keep priority.
func LoadStaticResponses(path string) ([]StaticResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read static responses file: %w", err)
	}

	var file staticResponsesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse static responses file: %w", err)
	}

	for i, r := range file.Responses {
		if len(r.Keywords) == 0 || r.Response == "" {
			return nil, fmt.Errorf("static response %d (%q) needs keywords and a response", i, r.Name)
		}
	}

	return file.Responses, nil
}

// DefaultStaticResponses returns the built-in static response table.
// These cover the highest-volume questions observed in production so they
// never reach a paid generation call.
func DefaultStaticResponses() []StaticResponse {
	return []StaticResponse{
		{
			Name:     "healthy_breakfast",
			Keywords: []string{"healthy", "breakfast"},
			Response: "Great healthy breakfast options:\n\n" +
				"1. Overnight Oats - rolled oats, Greek yogurt, berries, and a drizzle of honey\n" +
				"2. Veggie Scramble - eggs with spinach, peppers, and tomatoes\n" +
				"3. Avocado Toast - whole grain bread, avocado, and a squeeze of lemon\n\n" +
				"All three come in under 400 calories and keep you full through the morning.",
		},
		{
			Name:     "healthy_snacks",
			Keywords: []string{"healthy", "snack"},
			Response: "Easy healthy snacks to keep on hand:\n\n" +
				"- Apple slices with peanut butter\n" +
				"- A handful of almonds or walnuts\n" +
				"- Carrot sticks with hummus\n" +
				"- Plain Greek yogurt with berries\n\n" +
				"Aim for a mix of protein and fiber so the snack actually holds you over.",
		},
		{
			Name:     "water_intake",
			Keywords: []string{"how much", "water"},
			Response: "A good baseline is about half your body weight (lbs) in ounces of water " +
				"per day. So at 160 lbs, aim for roughly 80 oz. Add more on workout days or in " +
				"hot weather. If your urine is pale yellow, you're on track.",
		},
		{
			Name:     "protein_amount",
			Keywords: []string{"how much", "protein"},
			Response: "For most active adults, 0.7-1.0 grams of protein per pound of body weight " +
				"per day works well. Spread it across meals - roughly 25-40g per meal - rather " +
				"than loading it all at dinner.",
		},
		{
			Name:     "meal_prep_basics",
			Keywords: []string{"meal", "prep"},
			Response: "Meal prep basics that actually stick:\n\n" +
				"1. Pick 2 proteins, 2 carbs, and 2-3 vegetables for the week\n" +
				"2. Batch cook on one day (60-90 minutes total)\n" +
				"3. Store in portioned containers - 3-4 days in the fridge, rest in the freezer\n" +
				"4. Season differently per meal so you don't burn out on repeats",
		},
		{
			Name:     "reduce_sugar",
			Keywords: []string{"cut", "sugar"},
			Response: "To cut sugar without misery: swap sodas for sparkling water, keep fruit " +
				"on hand for cravings, read labels for hidden sugar (sauces and dressings are " +
				"the usual culprits), and taper rather than quitting cold - cravings fade in " +
				"about two weeks.",
		},
	}
}
