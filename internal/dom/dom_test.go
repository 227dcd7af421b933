package dom

import "testing"

func TestParse(t *testing.T) {
	root, err := Parse(`<div class="card" data-id="7"><p>Hello <b>there</b></p><!-- note --></div>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if root.Kind() != KindDocument {
		t.Errorf("expected root kind %v, got %v", KindDocument, root.Kind())
	}

	card := First(root, "div.card")
	if card == nil {
		t.Fatal("expected div.card to be found")
	}
	if card.TagName() != "div" {
		t.Errorf("expected tag 'div', got '%s'", card.TagName())
	}
	if v, ok := card.Attr("data-id"); !ok || v != "7" {
		t.Errorf("Attr(data-id) = %q, %v; expected \"7\", true", v, ok)
	}
	if _, ok := card.Attr("missing"); ok {
		t.Error("expected missing attribute to report false")
	}

	children := card.Children()
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[1].Kind() != KindOther {
		t.Errorf("expected comment to be KindOther, got %v", children[1].Kind())
	}

	if got := card.Text(); got != "Hello there" {
		t.Errorf("Text() = %q, expected %q", got, "Hello there")
	}

	text := First(card, "b").Children()[0]
	if text.Kind() != KindText || text.Data() != "there" {
		t.Errorf("expected text node 'there', got kind %v data %q", text.Kind(), text.Data())
	}
	if text.TagName() != "" {
		t.Errorf("expected text node to have empty tag name, got %q", text.TagName())
	}
}

func TestRemove(t *testing.T) {
	root, err := Parse(`<div id="a"><span id="b">x</span><span id="c">y</span></div>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	b := First(root, "#b")
	if b.Parent() == nil || b.Parent().TagName() != "div" {
		t.Fatal("expected #b to have a div parent")
	}

	b.Remove()
	if b.Parent() != nil {
		t.Error("expected removed node to have no parent")
	}
	if First(root, "#b") != nil {
		t.Error("expected #b to be unreachable after Remove")
	}
	if got := First(root, "#a").Text(); got != "y" {
		t.Errorf("Text() after Remove = %q, expected %q", got, "y")
	}

	// Removing a detached node is a no-op.
	b.Remove()
}

func TestFirstNil(t *testing.T) {
	if First(nil, "p") != nil {
		t.Error("First(nil) should return nil")
	}
	root, err := Parse("<p>x</p>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if First(root, "table") != nil {
		t.Error("expected no match for table")
	}
}

func TestNodeIdentity(t *testing.T) {
	root, err := Parse(`<ul><li id="x">one</li></ul>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	li := First(root, "#x")
	ul := First(root, "ul")
	if li.Parent() != ul {
		t.Error("expected handles to the same node to compare equal")
	}
	if li == ul {
		t.Error("expected handles to different nodes to differ")
	}
}
