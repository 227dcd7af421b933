// Package classify decides whether an event description advertises free food
// and whether the event is limited to housing residents.
//
// Matching is literal substring containment. There is no stemming or
// weighting: a broad keyword such as "food" counts exactly as much as
// "free pizza".
package classify

import (
	"regexp"
	"strings"
)

// raPattern matches "RA" or "RAs" as a standalone, upper-case word.
var raPattern = regexp.MustCompile(`\bRAs?\b`)

// Result is the outcome of classifying one event.
type Result struct {
	HasFreeFood   bool `json:"has_free_food"`
	IsHousingOnly bool `json:"is_housing_only"`
}

// Classifier evaluates text against a fixed set of Rules. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	rules     Rules
	foodLower []string
	phrases   []string
}

// New compiles rules into a Classifier. The rules are copied.
func New(rules Rules) *Classifier {
	c := &Classifier{rules: rules.clone()}
	c.foodLower = lowerAll(c.rules.FreeFood)
	c.phrases = lowerAll(c.rules.HousingPhrases)
	return c
}

// Default returns a Classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules())
}

// Rules returns a copy of the tables c was built from.
func (c *Classifier) Rules() Rules {
	return c.rules.clone()
}

// HasFreeFood reports whether any free-food keyword occurs in text.
func (c *Classifier) HasFreeFood(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range c.foodLower {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MatchedKeywords returns every free-food keyword found in text, in rule order.
func (c *Classifier) MatchedKeywords(text string) []string {
	lower := strings.ToLower(text)
	var matches []string
	for i, kw := range c.foodLower {
		if kw != "" && strings.Contains(lower, kw) {
			matches = append(matches, c.rules.FreeFood[i])
		}
	}
	return matches
}

// IsHousingOnly reports whether an event is restricted to housing residents.
//
// Phrase matching against the description ignores case, but category names
// must match exactly.
// TODO: decide with housing staff whether category matching should ignore case too.
func (c *Classifier) IsHousingOnly(description, category string) bool {
	lower := strings.ToLower(description)
	for _, p := range c.phrases {
		if p != "" && strings.Contains(lower, p) {
			return true
		}
	}

	if raPattern.MatchString(description) {
		return true
	}

	for _, name := range c.rules.HousingCategories {
		if name != "" && strings.Contains(category, name) {
			return true
		}
	}
	return false
}

// Classify evaluates both rule sets.
func (c *Classifier) Classify(description, category string) Result {
	return Result{
		HasFreeFood:   c.HasFreeFood(description),
		IsHousingOnly: c.IsHousingOnly(description, category),
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
