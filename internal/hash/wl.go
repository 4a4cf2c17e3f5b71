// Package hash implements the Weisfeiler-Leman canonical structural
// hash spec.md §4.3 defines over an AST Graph, using
// github.com/cespare/xxhash/v2 as the deterministic, non-randomized
// hash primitive (the same library the teacher uses for content
// hashing in internal/core).
package hash

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/Thaylo/astograph/internal/graph"
)

// Empty is the sentinel hash for the zero-node graph.
const Empty = "empty"

// DefaultIterations is the WL color-refinement round count, pinned by
// the resolved open question in SPEC_FULL.md §9 so two Index values
// can assert they speak the same hash alphabet.
const DefaultIterations = 3

// Canonical runs k rounds of 1-dimensional color refinement over g
// and returns a deterministic hex digest of the final color multiset,
// or Empty for the zero-node graph.
func Canonical(g *graph.Graph, k int) string {
	n := g.NodeCount()
	if n == 0 {
		return Empty
	}

	colors := make([]string, n)
	for i := 0; i < n; i++ {
		colors[i] = g.Labels[i]
	}

	for iter := 0; iter < k; iter++ {
		next := make([]string, n)
		for v := 0; v < n; v++ {
			children := g.Children(v)
			neighborColors := make([]string, len(children))
			for j, c := range children {
				neighborColors[j] = colors[int(c)]
			}
			sort.Strings(neighborColors)
			next[v] = refine(colors[v], neighborColors)
		}
		colors = next
	}

	sorted := append([]string(nil), colors...)
	sort.Strings(sorted)
	return digest(strings.Join(sorted, "\x1f"))
}

// refine computes a node's next-round color from its current color
// and the sorted colors of its out-neighbors.
func refine(color string, neighborColors []string) string {
	return digest(color + "\x1e" + strings.Join(neighborColors, "\x1f"))
}

func digest(s string) string {
	return strconv.FormatUint(xxhash.Sum64String(s), 16)
}

// Hierarchy computes, for d = 1..maxDepth, the canonical hash of g
// truncated to the nodes whose depth is < d (the root is depth 0). It
// supplements the flat Canonical hash with a coarse-to-fine signature
// useful for "similar but not identical" matching — ported from the
// original implementation's compute_hierarchy_hash (see
// original_source/tests/test_canonical_hash.py).
func Hierarchy(g *graph.Graph, maxDepth int) []string {
	hashes := make([]string, maxDepth)
	n := g.NodeCount()
	if n == 0 {
		for i := range hashes {
			hashes[i] = Empty
		}
		return hashes
	}
	for d := 1; d <= maxDepth; d++ {
		hashes[d-1] = Canonical(truncate(g, d), DefaultIterations)
	}
	return hashes
}

// truncate builds the sub-graph of nodes whose depth is < maxDepth,
// relabeling ids so the result is itself a well-formed CSR graph.
// Node ids in g are assigned in preorder, so a parent's id is always
// smaller than any of its descendants'.
func truncate(g *graph.Graph, maxDepth int) *graph.Graph {
	n := g.NodeCount()
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	for p := 0; p < n; p++ {
		for _, c := range g.Children(p) {
			parent[int(c)] = p
		}
	}

	b := graph.NewBuilder()
	newID := make([]int, n)
	for i := range newID {
		newID[i] = -1
	}
	for old := 0; old < n; old++ {
		if g.NodeDepth(old) >= maxDepth {
			continue
		}
		newParent := -1
		if p := parent[old]; p >= 0 {
			newParent = newID[p]
		}
		newID[old] = b.Emit(g.Labels[old], newParent, g.NodeDepth(old))
	}
	return b.Build()
}

// String is a debugging helper mirroring fmt.Stringer conventions
// used elsewhere in the teacher codebase for compact log lines.
func String(g *graph.Graph) string {
	return fmt.Sprintf("graph(nodes=%d, edges=%d, hash=%s)", g.NodeCount(), g.EdgeCount(), Canonical(g, DefaultIterations))
}
