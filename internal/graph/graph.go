// Package graph builds the AST Graph (spec.md §3) for a CodeUnit: a
// labeled, directed, parent-to-child tree, stored struct-of-arrays
// style (flat label slice + CSR adjacency) rather than as a pointer
// graph, per spec.md's Design Notes on avoiding ownership cycles — the
// same dense-storage idiom the teacher uses for its own symbol tables
// (internal/core/dense_object_id.go).
package graph

import "sort"

// Graph is an AST Graph: nodes 0..NodeCount-1 in deterministic
// preorder traversal order, edges directed parent->child.
type Graph struct {
	Labels    []string // node id -> label
	depth     []int    // node id -> depth from root (root is 0)
	offsets   []int32  // CSR: children of node i are targets[offsets[i]:offsets[i+1]]
	targets   []int32
	Histogram map[string]int
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.Labels) }

// Depth returns the maximum node depth (root is depth 0); an empty
// graph has depth 0.
func (g *Graph) Depth() int {
	max := 0
	for _, d := range g.depth {
		if d > max {
			max = d
		}
	}
	return max
}

// Children returns the ids of node id's direct children, in source
// order.
func (g *Graph) Children(id int) []int32 {
	if id < 0 || id+1 >= len(g.offsets) {
		return nil
	}
	return g.targets[g.offsets[id]:g.offsets[id+1]]
}

// NodeDepth returns node id's depth from the root (root is 0).
func (g *Graph) NodeDepth(id int) int {
	if id < 0 || id >= len(g.depth) {
		return 0
	}
	return g.depth[id]
}

// OutDegree returns len(Children(id)).
func (g *Graph) OutDegree(id int) int {
	return len(g.Children(id))
}

// InDegreeSequence returns the sorted-ascending in-degree sequence:
// every non-root node has in-degree 1, the root has 0 (or the graph
// is empty).
func (g *Graph) InDegreeSequence() []int {
	if len(g.Labels) == 0 {
		return nil
	}
	seq := make([]int, len(g.Labels))
	seq[0] = 0
	for i := 1; i < len(seq); i++ {
		seq[i] = 1
	}
	sort.Ints(seq)
	return seq
}

// OutDegreeSequence returns the sorted-ascending out-degree sequence.
func (g *Graph) OutDegreeSequence() []int {
	seq := make([]int, len(g.Labels))
	for i := range seq {
		seq[i] = g.OutDegree(i)
	}
	sort.Ints(seq)
	return seq
}

// EdgeCount returns the number of directed edges (NodeCount-1 for a
// non-empty tree).
func (g *Graph) EdgeCount() int {
	if len(g.Labels) == 0 {
		return 0
	}
	return len(g.Labels) - 1
}

// Builder accumulates a Graph during a single preorder walk. Callers
// outside this package (the pyast tree-sitter walker) use it to turn
// a parsed subtree into a Graph without reaching into Graph's storage
// directly.
type Builder struct {
	labels    []string
	depth     []int
	adjacency [][]int32
	histogram map[string]int
}

func NewBuilder() *Builder {
	return &Builder{histogram: make(map[string]int)}
}

// Emit assigns the next node id, records its label/depth, and wires
// the parent->id edge (parent < 0 means "this is the root").
func (b *Builder) Emit(label string, parent, depth int) int {
	id := len(b.labels)
	b.labels = append(b.labels, label)
	b.depth = append(b.depth, depth)
	b.adjacency = append(b.adjacency, nil)
	b.histogram[label]++
	if parent >= 0 {
		b.adjacency[parent] = append(b.adjacency[parent], int32(id))
	}
	return id
}

func (b *Builder) Build() *Graph {
	offsets := make([]int32, len(b.adjacency)+1)
	var targets []int32
	for i, children := range b.adjacency {
		offsets[i] = int32(len(targets))
		targets = append(targets, children...)
	}
	offsets[len(b.adjacency)] = int32(len(targets))
	return &Graph{
		Labels:    b.labels,
		depth:     b.depth,
		offsets:   offsets,
		targets:   targets,
		Histogram: b.histogram,
	}
}

// Empty returns the canonical zero-node graph.
func Empty() *Graph {
	return NewBuilder().Build()
}
