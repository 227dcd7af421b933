// Package detail turns an event's detail-card markup into display text and
// classifies it.
//
// The pipeline is parse, locate the card, Prune, Extract, Normalize, then
// classify. Each step is also exported for callers that only need one.
package detail

import (
	"github.com/pfrederiksen/campus-events/internal/classify"
	"github.com/pfrederiksen/campus-events/internal/dom"
)

// DefaultCardSelector locates the detail card on an event page.
const DefaultCardSelector = ".card-block"

// Description is the processed content of one detail card.
type Description struct {
	Text          string   `json:"text"`
	HasFreeFood   bool     `json:"has_free_food"`
	IsHousingOnly bool     `json:"is_housing_only"`
	FoodMatches   []string `json:"food_matches,omitempty"`
}

// Options configures a Describer.
type Options struct {
	CardSelector string
	Prune        PruneRules
}

// DefaultOptions returns the selectors used by the events platform.
func DefaultOptions() Options {
	return Options{
		CardSelector: DefaultCardSelector,
		Prune:        DefaultPruneRules(),
	}
}

// Describer runs the detail pipeline. It keeps no per-call state and is safe
// for concurrent use as long as its Parser is.
type Describer struct {
	parser     dom.Parser
	classifier *classify.Classifier
	opts       Options
}

// NewDescriber creates a Describer. A nil parser uses dom.HTMLParser and a
// nil classifier uses classify.Default.
func NewDescriber(parser dom.Parser, classifier *classify.Classifier, opts Options) *Describer {
	if parser == nil {
		parser = dom.HTMLParser{}
	}
	if classifier == nil {
		classifier = classify.Default()
	}
	return &Describer{parser: parser, classifier: classifier, opts: opts}
}

// Text extracts the normalized description from detail markup. If no card
// matches the card selector the whole fragment is used. Parser errors are
// returned unchanged.
func (d *Describer) Text(markup string) (string, error) {
	if markup == "" {
		return "", nil
	}

	root, err := d.parser.Parse(markup)
	if err != nil {
		return "", err
	}

	card := root
	if d.opts.CardSelector != "" {
		if n := dom.First(root, d.opts.CardSelector); n != nil {
			card = n
		}
	}

	Prune(card, d.opts.Prune)
	return Normalize(Extract(card)), nil
}

// Describe extracts the description and classifies it. category is the
// event's already-extracted category string, used for the housing check.
func (d *Describer) Describe(markup, category string) (*Description, error) {
	text, err := d.Text(markup)
	if err != nil {
		return nil, err
	}
	return d.Classify(text, category), nil
}

// Classify builds a Description from already-normalized text.
func (d *Describer) Classify(text, category string) *Description {
	result := d.classifier.Classify(text, category)
	return &Description{
		Text:          text,
		HasFreeFood:   result.HasFreeFood,
		IsHousingOnly: result.IsHousingOnly,
		FoodMatches:   d.classifier.MatchedKeywords(text),
	}
}
