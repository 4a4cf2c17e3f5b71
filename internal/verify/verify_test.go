package verify

import (
	"context"
	"testing"
	"time"

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

func TestVerifyEmptyGraphsAreIsomorphic(t *testing.T) {
	if got := Verify(context.Background(), graph.Empty(), graph.Empty()); got != Isomorphic {
		t.Fatalf("Verify(empty, empty) = %s, want isomorphic", got)
	}
}

func TestVerifyIdenticalShape(t *testing.T) {
	a := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	b := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	if got := Verify(context.Background(), a, b); got != Isomorphic {
		t.Fatalf("Verify(a, b) = %s, want isomorphic", got)
	}
}

func TestVerifyIgnoresChildOrder(t *testing.T) {
	a := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	b := buildTree([]string{"FunctionDef", "Pass", "Return"}, []int{-1, 0, 0})
	if got := Verify(context.Background(), a, b); got != Isomorphic {
		t.Fatalf("Verify(a, b) = %s, want isomorphic despite differing sibling order", got)
	}
}

func TestVerifyDifferentNodeCountsNotIsomorphic(t *testing.T) {
	a := buildTree([]string{"FunctionDef", "Return", "Pass"}, []int{-1, 0, 0})
	b := buildTree([]string{"FunctionDef", "Return"}, []int{-1, 0})
	if got := Verify(context.Background(), a, b); got != NotIsomorphic {
		t.Fatalf("Verify(a, b) = %s, want not_isomorphic", got)
	}
}

func TestVerifySameShapeDifferentLabelsNotIsomorphic(t *testing.T) {
	a := buildTree([]string{"FunctionDef", "Return"}, []int{-1, 0})
	b := buildTree([]string{"FunctionDef", "Raise"}, []int{-1, 0})
	if got := Verify(context.Background(), a, b); got != NotIsomorphic {
		t.Fatalf("Verify(a, b) = %s, want not_isomorphic", got)
	}
}

func TestVerifyReturnsUnknownOnCancelledContext(t *testing.T) {
	labels := make([]string, 0, 20000)
	parents := make([]int, 0, 20000)
	labels = append(labels, "FunctionDef")
	parents = append(parents, -1)
	for i := 1; i < 20000; i++ {
		labels = append(labels, "Pass")
		parents = append(parents, 0)
	}
	a := buildTree(labels, parents)
	b := buildTree(labels, parents)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	if got := Verify(ctx, a, b); got != Unknown {
		t.Fatalf("Verify() with an already-expired context = %s, want unknown", got)
	}
}

func TestResultString(t *testing.T) {
	cases := map[Result]string{
		Isomorphic:    "isomorphic",
		NotIsomorphic: "not_isomorphic",
		Unknown:       "unknown",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Fatalf("Result(%d).String() = %q, want %q", r, got, want)
		}
	}
}
