// Package dom is the small document-tree contract the extractors depend on.
//
// Extraction code only ever needs to select by query, read tag names,
// attributes and raw text, walk children, and detach subtrees. Node captures
// exactly that, so any HTML library can sit behind it. HTMLParser is the
// goquery/x/net/html implementation used in production.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Kind classifies a node.
type Kind int

const (
	// KindOther covers comments, doctypes and anything else with no content.
	KindOther Kind = iota
	// KindText is character data.
	KindText
	// KindElement is a tagged element.
	KindElement
	// KindDocument is the root returned by a Parser.
	KindDocument
)

// Node is a handle into a parsed tree. Every node has at most one parent;
// Remove detaches the node (and its subtree) from that parent. Handles to the
// same underlying node compare equal with ==.
type Node interface {
	Kind() Kind
	// TagName is the lower-case tag for elements and "" otherwise.
	TagName() string
	// Data is the raw character data of a text node.
	Data() string
	Attr(name string) (string, bool)
	Children() []Node
	// Parent returns nil for the root or a detached node.
	Parent() Node
	// Find returns the descendants matching a CSS selector in document order.
	Find(selector string) []Node
	// Text is the concatenated character data of the subtree.
	Text() string
	Remove()
}

// Parser builds a tree from raw markup.
type Parser interface {
	Parse(markup string) (Node, error)
}

// HTMLParser parses markup with goquery (golang.org/x/net/html underneath).
type HTMLParser struct{}

// Parse implements Parser.
func (HTMLParser) Parse(markup string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("parsing HTML: empty document")
	}
	return htmlNode{n: doc.Nodes[0]}, nil
}

// Parse parses markup with the default HTMLParser.
func Parse(markup string) (Node, error) {
	return HTMLParser{}.Parse(markup)
}

// First returns the first descendant of n matching selector, or nil.
func First(n Node, selector string) Node {
	if n == nil {
		return nil
	}
	matches := n.Find(selector)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

type htmlNode struct {
	n *html.Node
}

func wrap(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n}
}

func (h htmlNode) Kind() Kind {
	switch h.n.Type {
	case html.TextNode:
		return KindText
	case html.ElementNode:
		return KindElement
	case html.DocumentNode:
		return KindDocument
	default:
		return KindOther
	}
}

func (h htmlNode) TagName() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(h.n.Data)
}

func (h htmlNode) Data() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) Attr(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Children() []Node {
	var children []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, htmlNode{n: c})
	}
	return children
}

func (h htmlNode) Parent() Node {
	return wrap(h.n.Parent)
}

func (h htmlNode) Find(selector string) []Node {
	sel := goquery.NewDocumentFromNode(h.n).Find(selector)
	nodes := make([]Node, 0, sel.Length())
	for _, n := range sel.Nodes {
		nodes = append(nodes, htmlNode{n: n})
	}
	return nodes
}

func (h htmlNode) Text() string {
	return goquery.NewDocumentFromNode(h.n).Text()
}

func (h htmlNode) Remove() {
	if h.n.Parent != nil {
		h.n.Parent.RemoveChild(h.n)
	}
}
