package grammex

import "testing"

func TestParseTreeNodeChildAndChildrenNamed(t *testing.T) {
	n := &ParseTreeNode{
		Name: "parent",
		Children: []*ParseTreeNode{
			{Name: "item", SourceText: "1"},
			{Name: "item", SourceText: "2"},
			{Name: "other", SourceText: "3"},
		},
	}

	first, ok := n.Child("item")
	if !ok || first.SourceText != "1" {
		t.Fatalf("Child: got %+v, ok=%v", first, ok)
	}

	items := n.ChildrenNamed("item")
	if len(items) != 2 || items[0].SourceText != "1" || items[1].SourceText != "2" {
		t.Fatalf("ChildrenNamed: got %+v", items)
	}

	if _, ok := n.Child("missing"); ok {
		t.Fatal("Child should report false for a name with no match")
	}
	if got := n.ChildrenNamed("missing"); got != nil {
		t.Fatalf("ChildrenNamed: want nil for no matches, got %+v", got)
	}
}
