// Package verify implements the exact isomorphism check spec.md §4.5
// calls the Verifier. AST Graphs are always rooted out-trees (one
// root, every other node reachable by exactly one parent edge), the
// graph class for which 1-dimensional Weisfeiler-Leman color
// refinement run to convergence is a complete isomorphism test (the
// well-known AHU canonical-form result) — so rather than a general
// VF2 backtracking search, the Verifier computes each tree's bottom-up
// canonical signature and compares them. It keeps VF2's operational
// contract from spec.md §4.5 (bounded by a context budget, returns
// Unknown rather than erroring on timeout) without the backtracking
// search VF2 needs for graphs with cycles or multiple roots, which
// these graphs never have.
package verify

import (
	"context"
	"sort"
	"strings"

	"github.com/Thaylo/astograph/internal/graph"
)

// Result is the tri-state verification outcome spec.md §4.5 requires.
type Result int

const (
	Isomorphic Result = iota
	NotIsomorphic
	Unknown
)

func (r Result) String() string {
	switch r {
	case Isomorphic:
		return "isomorphic"
	case NotIsomorphic:
		return "not_isomorphic"
	default:
		return "unknown"
	}
}

// checkEvery bounds how often the recursive signature walk polls
// ctx.Done(), trading latency for overhead on the common case where
// ctx never expires.
const checkEvery = 4096

// Verify decides whether a and b are isomorphic as labeled directed
// trees. It returns Unknown if ctx is done before the check completes.
func Verify(ctx context.Context, a, b *graph.Graph) Result {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return NotIsomorphic
	}
	if a.NodeCount() == 0 {
		return Isomorphic
	}

	v := &verifier{ctx: ctx}
	sigA, ok := v.signature(a, 0)
	if !ok {
		return Unknown
	}
	sigB, ok := v.signature(b, 0)
	if !ok {
		return Unknown
	}
	if sigA == sigB {
		return Isomorphic
	}
	return NotIsomorphic
}

type verifier struct {
	ctx   context.Context
	steps int
}

// signature computes node root's AHU canonical signature: its label
// followed by its children's signatures, lexicographically sorted so
// that child order (which may differ between two otherwise-equal
// subtrees, e.g. dict-literal key order) doesn't affect the result.
func (v *verifier) signature(g *graph.Graph, root int) (string, bool) {
	v.steps++
	if v.steps%checkEvery == 0 {
		select {
		case <-v.ctx.Done():
			return "", false
		default:
		}
	}

	children := g.Children(root)
	if len(children) == 0 {
		return g.Labels[root], true
	}
	childSigs := make([]string, len(children))
	for i, c := range children {
		sig, ok := v.signature(g, int(c))
		if !ok {
			return "", false
		}
		childSigs[i] = sig
	}
	sort.Strings(childSigs)
	var b strings.Builder
	b.WriteString(g.Labels[root])
	b.WriteByte('(')
	for i, s := range childSigs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s)
	}
	b.WriteByte(')')
	return b.String(), true
}
