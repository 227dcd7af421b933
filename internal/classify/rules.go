package classify

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Rules holds the literal phrase tables the classifier matches against.
// A Rules value is never mutated after it is handed to New.
type Rules struct {
	// FreeFood is checked in order; MatchedKeywords preserves this order.
	FreeFood []string `yaml:"free_food" validate:"required,min=1,dive,required"`

	// HousingPhrases are matched case-insensitively against the description.
	HousingPhrases []string `yaml:"housing_phrases" validate:"dive,required"`

	// HousingCategories are matched case-sensitively against the category.
	HousingCategories []string `yaml:"housing_categories" validate:"dive,required"`
}

// DefaultRules returns a fresh copy of the checked-in tables.
func DefaultRules() Rules {
	return Rules{
		FreeFood:          freeFoodKeywords,
		HousingPhrases:    housingPhrases,
		HousingCategories: housingCategories,
	}.clone()
}

func (r Rules) clone() Rules {
	return Rules{
		FreeFood:          append([]string(nil), r.FreeFood...),
		HousingPhrases:    append([]string(nil), r.HousingPhrases...),
		HousingCategories: append([]string(nil), r.HousingCategories...),
	}
}

// rulesFile mirrors Rules with optional lists so an omitted key keeps its default.
type rulesFile struct {
	FreeFood          *[]string `yaml:"free_food"`
	HousingPhrases    *[]string `yaml:"housing_phrases"`
	HousingCategories *[]string `yaml:"housing_categories"`
}

// LoadRules reads a YAML rules file. Lists missing from the file fall back
// to DefaultRules; the merged result must still validate.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules data. See LoadRules.
func ParseRules(data []byte) (Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}

	rules := DefaultRules()
	if f.FreeFood != nil {
		rules.FreeFood = *f.FreeFood
	}
	if f.HousingPhrases != nil {
		rules.HousingPhrases = *f.HousingPhrases
	}
	if f.HousingCategories != nil {
		rules.HousingCategories = *f.HousingCategories
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate reports an error if a table is unusable: an empty free-food list
// or a blank entry in any list.
func (r Rules) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	return nil
}
