package hash

import (
	"testing"

	"github.com/Thaylo/astograph/internal/graph"
)

func buildTree(labels []string, parents []int) *graph.Graph {
	b := graph.NewBuilder()
	depth := make([]int, len(labels))
	for i, label := range labels {
		p := parents[i]
		d := 0
		if p >= 0 {
			d = depth[p] + 1
		}
		depth[i] = d
		b.Emit(label, p, d)
	}
	return b.Build()
}

func TestCanonicalEmptyGraph(t *testing.T) {
	if got := Canonical(graph.Empty(), DefaultIterations); got != Empty {
		t.Fatalf("Canonical(empty graph) = %q, want %q", got, Empty)
	}
}

func TestCanonicalDeterministic(t *testing.T) {
	g1 := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	g2 := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	if Canonical(g1, DefaultIterations) != Canonical(g2, DefaultIterations) {
		t.Fatalf("two structurally identical graphs produced different hashes")
	}
}

func TestCanonicalIgnoresChildOrder(t *testing.T) {
	// Same multiset of children, different emission order.
	g1 := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	g2 := buildTree([]string{"FunctionDef", "Pass", "Return"}, []int{-1, 0, 0})
	if Canonical(g1, DefaultIterations) != Canonical(g2, DefaultIterations) {
		t.Fatalf("sibling order should not affect the canonical hash")
	}
}

func TestCanonicalDiffersOnStructure(t *testing.T) {
	g1 := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	g2 := buildTree([]string{"FunctionDef", "Return"}, []int{-1, 0})
	if Canonical(g1, DefaultIterations) == Canonical(g2, DefaultIterations) {
		t.Fatalf("graphs with different node counts must not hash equal")
	}
}

func TestCanonicalDiffersOnLabels(t *testing.T) {
	g1 := buildTree([]string{"FunctionDef", "Return"}, []int{-1, 0})
	g2 := buildTree([]string{"FunctionDef", "Raise"}, []int{-1, 0})
	if Canonical(g1, DefaultIterations) == Canonical(g2, DefaultIterations) {
		t.Fatalf("graphs with different labels must not hash equal")
	}
}

func TestHierarchyLengthMatchesMaxDepth(t *testing.T) {
	g := buildTree([]string{"FunctionDef", "If", "Return"}, []int{-1, 0, 1})
	hs := Hierarchy(g, 3)
	if len(hs) != 3 {
		t.Fatalf("Hierarchy returned %d entries, want 3", len(hs))
	}
	for i, h := range hs {
		if h == "" {
			t.Fatalf("Hierarchy()[%d] is empty", i)
		}
	}
}

func TestHierarchyEmptyGraph(t *testing.T) {
	hs := Hierarchy(graph.Empty(), 2)
	for i, h := range hs {
		if h != Empty {
			t.Fatalf("Hierarchy(empty)[%d] = %q, want %q", i, h, Empty)
		}
	}
}

func TestStringIncludesHash(t *testing.T) {
	g := buildTree([]string{"FunctionDef", "Pass"}, []int{-1, 0})
	s := String(g)
	if s == "" {
		t.Fatalf("String() returned empty output")
	}
}
