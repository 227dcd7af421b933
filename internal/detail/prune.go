package detail

import (
	"strings"

	"github.com/pfrederiksen/campus-events/internal/dom"
)

// PruneRules names the non-content markers inside a detail card.
type PruneRules struct {
	// TitleSelector matches the card heading, which duplicates the event name.
	TitleSelector string
	// BorderSelector matches the decorative border strip.
	BorderSelector string
	// ButtonClass is the style class that makes an anchor look like a button.
	ButtonClass string
}

// DefaultPruneRules returns the markers used by the events platform.
func DefaultPruneRules() PruneRules {
	return PruneRules{
		TitleSelector:  ".card-block__title",
		BorderSelector: ".card-border",
		ButtonClass:    "btn",
	}
}

// Prune removes non-content nodes from card in place. Every target is
// optional; a card with none of them is left untouched.
func Prune(card dom.Node, rules PruneRules) {
	if card == nil {
		return
	}

	for _, sel := range []string{rules.TitleSelector, rules.BorderSelector} {
		if sel == "" {
			continue
		}
		if n := dom.First(card, sel); n != nil {
			n.Remove()
		}
	}

	// "Copy link" anchors sit in their own wrapper; drop the wrapper too.
	for _, a := range card.Find("a[aria-label]") {
		label, _ := a.Attr("aria-label")
		if !strings.Contains(strings.ToLower(label), "copy link") {
			continue
		}
		if parent := a.Parent(); parent != nil && parent != card && parent.Kind() == dom.KindElement {
			parent.Remove()
			continue
		}
		a.Remove()
	}

	buttons := "button"
	if rules.ButtonClass != "" {
		buttons += ", a." + rules.ButtonClass
	}
	removeAll(card, buttons)
	removeAll(card, "img, center")
}

func removeAll(card dom.Node, selector string) {
	for _, n := range card.Find(selector) {
		n.Remove()
	}
}
