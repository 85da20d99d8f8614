package personalize

import (
	"math"
	"strconv"

	"nutribot/internal/core"
)

// Per-field derivations. Each helper tolerates missing profile data and
// degrades to a blank or a sensible default rather than failing the call.

const (
	// maintenanceFactor estimates maintenance calories from body weight (lbs).
	maintenanceFactor = 13

	// weightLossDeficit is the flat daily calorie deficit applied when the
	// profile has a lower target weight.
	weightLossDeficit = 500

	// weeklyLossRate is the assumed steady loss rate in lbs per week.
	weeklyLossRate = 1.5

	// mealPrepCostPerPersonDay is the home-cooking cost model, in dollars.
	mealPrepCostPerPersonDay = 9

	// dineOutCostPerPersonDay is the eating-out comparator, in dollars.
	dineOutCostPerPersonDay = 15

	// planDays is the number of days covered by the meal-cost figures.
	planDays = 5
)

// userNameGreeting returns ", Name" for addressing the user mid-sentence,
// or "" when the profile has no name.
func userNameGreeting(p *core.UserProfile) string {
	if p == nil || p.Name == "" {
		return ""
	}
	return ", " + p.Name
}

// dietaryLabel returns a trailing-space adjective for the user's strictest
// restriction. Priority: vegan over vegetarian over gluten-free.
func dietaryLabel(p *core.UserProfile) string {
	switch {
	case p.HasRestriction("vegan"):
		return "vegan "
	case p.HasRestriction("vegetarian"):
		return "vegetarian "
	case p.HasRestriction("gluten-free"):
		return "gluten-free "
	default:
		return ""
	}
}

// calorieTarget estimates a daily calorie target: maintenance at 13 kcal/lb,
// minus a flat 500 when the profile has a lower target weight.
func calorieTarget(p *core.UserProfile) string {
	if p == nil || p.CurrentWeight <= 0 {
		return ""
	}
	target := p.CurrentWeight * maintenanceFactor
	if p.WeightGoal > 0 && p.WeightGoal < p.CurrentWeight {
		target -= weightLossDeficit
	}
	return strconv.Itoa(int(target))
}

// weeksToGoal estimates weeks to reach the target weight at 1.5 lb/week,
// truncated to a whole number.
func weeksToGoal(p *core.UserProfile) string {
	if p == nil || p.CurrentWeight <= 0 || p.WeightGoal <= 0 {
		return ""
	}
	weeks := math.Abs(p.CurrentWeight-p.WeightGoal) / weeklyLossRate
	return strconv.Itoa(int(weeks))
}

// proteinSources suggests proteins compatible with the user's restrictions.
func proteinSources(p *core.UserProfile) string {
	switch {
	case p.HasRestriction("vegan"):
		return "tofu, lentils, and chickpeas"
	case p.HasRestriction("vegetarian"):
		return "eggs, lentils, and Greek yogurt"
	default:
		return "chicken, salmon, and eggs"
	}
}

// householdSize returns the household size, defaulting to 1.
func householdSize(p *core.UserProfile) int {
	if p == nil || p.HouseholdSize <= 0 {
		return 1
	}
	return p.HouseholdSize
}

// mealPrepCost is the five-day home-cooking cost for the household.
func mealPrepCost(p *core.UserProfile) string {
	return strconv.Itoa(mealPrepCostPerPersonDay * householdSize(p) * planDays)
}

// dineOutCost is the five-day dine-out comparator for the household.
func dineOutCost(p *core.UserProfile) string {
	return strconv.Itoa(dineOutCostPerPersonDay * householdSize(p) * planDays)
}

// computeVariables builds the substitution map for the named placeholders.
// Unknown names are skipped, leaving their placeholders intact in the text.
func computeVariables(names []string, p *core.UserProfile) map[string]string {
	vars := make(map[string]string, len(names))
	for _, name := range names {
		switch name {
		case "user_name_greeting":
			vars[name] = userNameGreeting(p)
		case "dietary_label":
			vars[name] = dietaryLabel(p)
		case "calorie_target":
			vars[name] = calorieTarget(p)
		case "weeks_to_goal":
			vars[name] = weeksToGoal(p)
		case "protein_sources":
			vars[name] = proteinSources(p)
		case "household_size":
			vars[name] = strconv.Itoa(householdSize(p))
		case "meal_prep_cost":
			vars[name] = mealPrepCost(p)
		case "dine_out_cost":
			vars[name] = dineOutCost(p)
		}
	}
	return vars
}
