package detail

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/campus-events/internal/dom"
)

// blockTags render on their own line and are separated by a blank line.
var blockTags = map[string]bool{
	"div": true, "p": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// piece is the rendered text of one child plus how it joins its neighbours.
type piece struct {
	text  string
	block bool // block-level element other than br
	brk   bool // a br element
}

type frame struct {
	node     dom.Node
	children []dom.Node
	next     int
	pieces   []piece
}

// Extract renders n to plain text. Block-level children are separated by a
// blank line, inline children by a single space, and every <br> contributes
// exactly one "\n", so two consecutive breaks give a blank line.
//
// The tree is walked with an explicit stack, so deeply nested markup cannot
// exhaust the goroutine stack. Extract never modifies n.
func Extract(n dom.Node) string {
	if n == nil {
		return ""
	}
	if p, ok := leaf(n); ok {
		return p.text
	}

	stack := []*frame{{node: n, children: n.Children()}}
	for {
		top := stack[len(stack)-1]
		if top.next < len(top.children) {
			child := top.children[top.next]
			top.next++
			if p, ok := leaf(child); ok {
				if p.text != "" {
					top.pieces = append(top.pieces, p)
				}
				continue
			}
			stack = append(stack, &frame{node: child, children: child.Children()})
			continue
		}

		stack = stack[:len(stack)-1]
		text := join(top.pieces)
		if len(stack) == 0 {
			return text
		}
		if text != "" {
			parent := stack[len(stack)-1]
			parent.pieces = append(parent.pieces, piece{text: text, block: blockTags[top.node.TagName()]})
		}
	}
}

// leaf renders nodes whose children are never visited. ok is false for
// containers that must be walked.
func leaf(n dom.Node) (p piece, ok bool) {
	switch n.Kind() {
	case dom.KindText:
		return piece{text: cleanText(n.Data())}, true
	case dom.KindElement:
		if n.TagName() == "br" {
			return piece{text: "\n", brk: true}, true
		}
		return piece{}, false
	case dom.KindDocument:
		return piece{}, false
	default:
		return piece{}, true
	}
}

// cleanText maps NBSP to a space and collapses every whitespace run to one
// space. Newlines inside a text node collapse too; line breaks in the output
// come only from block elements and <br>.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func join(pieces []piece) string {
	var b strings.Builder
	for i, p := range pieces {
		if i > 0 {
			b.WriteString(separator(pieces[i-1], p))
		}
		b.WriteString(p.text)
	}
	return strings.TrimSpace(b.String())
}

func separator(prev, cur piece) string {
	switch {
	case prev.block || cur.block:
		return "\n\n"
	case prev.brk || cur.brk:
		return ""
	default:
		return " "
	}
}
