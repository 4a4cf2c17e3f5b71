package pyast

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// unwrapDef strips a decorated_definition down to the function_definition
// or class_definition it decorates. Returns n unchanged if n is not a
// decorated_definition.
func unwrapDef(n *tree_sitter.Node) *tree_sitter.Node {
	if n == nil || n.Kind() != "decorated_definition" {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "function_definition", "class_definition":
			return c
		}
	}
	return nil
}

// hasAsyncChild reports whether n carries a leading "async" keyword
// token, the shape tree-sitter-python uses for async def/for/with
// instead of a distinct node kind.
func hasAsyncChild(n *tree_sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "async" {
			return true
		}
	}
	return false
}

// blockKind reports the spec's block_type for a control-flow
// statement node, or ok=false if n isn't one of the five kinds the
// extractor descends into.
func blockKind(n *tree_sitter.Node) (kind string, ok bool) {
	switch n.Kind() {
	case "for_statement":
		if hasAsyncChild(n) {
			return "async_for", true
		}
		return "for", true
	case "while_statement":
		return "while", true
	case "if_statement":
		return "if", true
	case "try_statement":
		return "try", true
	case "with_statement":
		if hasAsyncChild(n) {
			return "async_with", true
		}
		return "with", true
	}
	return "", false
}

func firstNamedChild(n *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c.IsNamed() {
			return c
		}
	}
	return nil
}
