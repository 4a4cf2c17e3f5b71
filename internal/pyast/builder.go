package pyast

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Thaylo/astograph/internal/graph"
)

// BuildGraph builds the AST Graph for a single code unit's source text,
// per spec.md §4.2. code is expected to be exactly a CodeUnit's Code
// field (a standalone function/class definition or a bare top-level
// statement for a block unit) — both parse cleanly on their own
// because Python accepts for/while/if/try/with as top-level
// statements. A code snippet that yields no tree, or no statement to
// root the graph at, yields the empty graph rather than an error. A
// snippet with syntax errors still yields a graph, in which the
// unparsable parts appear as "Error" nodes.
func BuildGraph(code string) *graph.Graph {
	src := []byte(code)
	tree := Parse(src)
	if tree == nil {
		return graph.Empty()
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return graph.Empty()
	}
	unitRoot := firstNamedChild(root)
	if unitRoot == nil {
		return graph.Empty()
	}
	if def := unwrapDef(unitRoot); def != nil {
		unitRoot = def
	}

	gb := &graphBuilder{src: src, b: graph.NewBuilder()}
	gb.processNode(unitRoot, -1, 0)
	return gb.b.Build()
}

// TryBuildGraph is BuildGraph plus an explicit ok flag, for callers
// like find_similar that must distinguish "source failed to parse"
// (spec.md §4.6: return an empty result) from "source parsed but
// legitimately describes the empty graph".
func TryBuildGraph(code string) (*graph.Graph, bool) {
	src := []byte(code)
	tree := Parse(src)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, false
	}
	unitRoot := firstNamedChild(root)
	if unitRoot == nil {
		return nil, false
	}
	if def := unwrapDef(unitRoot); def != nil {
		unitRoot = def
	}
	gb := &graphBuilder{src: src, b: graph.NewBuilder()}
	gb.processNode(unitRoot, -1, 0)
	return gb.b.Build(), true
}

type graphBuilder struct {
	src []byte
	b   *graph.Builder
}

// processNode handles one named tree-sitter node: it is either
// dropped (skipKinds), collapsed to a single Const leaf
// (leafConstKinds), passed through transparently (transparentKinds),
// or turned into its own graph node with its named children recursed
// into at depth+1.
func (gb *graphBuilder) processNode(n *tree_sitter.Node, parentID, depth int) {
	kind := n.Kind()
	if skipKinds[kind] {
		return
	}
	if typ, ok := leafConstKinds[kind]; ok {
		gb.b.Emit("Const:"+typ, parentID, depth)
		return
	}
	if transparentKinds[kind] {
		gb.processChildren(n, parentID, depth)
		return
	}
	id := gb.b.Emit(gb.labelFor(n, kind), parentID, depth)
	gb.processChildren(n, id, depth+1)
}

func (gb *graphBuilder) processChildren(n *tree_sitter.Node, parentID, depth int) {
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.IsNamed() {
			gb.processNode(c, parentID, depth)
		}
	}
}

// labelFor computes the CPython-ast-shaped label for a named,
// non-transparent, non-leaf node.
func (gb *graphBuilder) labelFor(n *tree_sitter.Node, kind string) string {
	switch kind {
	case "binary_operator":
		return "BinOp:" + gb.operatorText(n)
	case "boolean_operator":
		return "BoolOp:" + gb.operatorText(n)
	case "augmented_assignment":
		return "AugAssign:" + gb.operatorText(n)
	case "unary_operator":
		return "UnaryOp:" + gb.operatorText(n)
	case "not_operator":
		return "UnaryOp:not"
	case "comparison_operator":
		return "Compare:" + gb.comparisonOps(n)
	case "function_definition":
		if hasAsyncChild(n) {
			return asyncLabels["FunctionDef"]
		}
		return "FunctionDef"
	case "for_statement":
		if hasAsyncChild(n) {
			return asyncLabels["For"]
		}
		return "For"
	case "with_statement":
		if hasAsyncChild(n) {
			return asyncLabels["With"]
		}
		return "With"
	}
	if label, ok := simpleLabels[kind]; ok {
		return label
	}
	return pascalCase(kind)
}

// operatorTokens collects the anonymous (unnamed) token children of n
// whose text is a recognized operator symbol, in source order.
// tree-sitter reports an anonymous literal token's Kind() as the
// literal text itself, so no separate text lookup is needed.
func operatorTokens(n *tree_sitter.Node) []string {
	var toks []string
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.IsNamed() {
			continue
		}
		if kind := c.Kind(); operatorSymbols[kind] {
			toks = append(toks, kind)
		}
	}
	return toks
}

func (gb *graphBuilder) operatorText(n *tree_sitter.Node) string {
	toks := operatorTokens(n)
	if len(toks) == 0 {
		return "?"
	}
	return toks[0]
}

// comparisonOps renders a (possibly chained, "a < b < c") comparison's
// operators, merging the two-token "is not" / "not in" forms back
// into the single cmpop CPython's own ast module would report.
func (gb *graphBuilder) comparisonOps(n *tree_sitter.Node) string {
	toks := operatorTokens(n)
	var merged []string
	for i := 0; i < len(toks); i++ {
		switch {
		case toks[i] == "is" && i+1 < len(toks) && toks[i+1] == "not":
			merged = append(merged, "is not")
			i++
		case toks[i] == "not" && i+1 < len(toks) && toks[i+1] == "in":
			merged = append(merged, "not in")
			i++
		default:
			merged = append(merged, toks[i])
		}
	}
	if len(merged) == 0 {
		return "?"
	}
	return strings.Join(merged, ",")
}
