package pyast

import (
	"fmt"
	"iter"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Thaylo/astograph/internal/types"
)

// DefaultMaxBlockDepth bounds how deep the extractor descends into
// nested control-flow blocks before it stops emitting new block units.
const DefaultMaxBlockDepth = 64

// ExtractOptions configures Extract.
type ExtractOptions struct {
	// IncludeBlocks enables block-level extraction (spec.md §4.1's
	// optional for/while/if/try/with units). Functions, methods, and
	// classes are always extracted regardless of this flag.
	IncludeBlocks bool
	// MaxBlockDepth caps NestingDepth; a block whose depth would exceed
	// it is neither emitted nor descended into further.
	MaxBlockDepth int
}

func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{IncludeBlocks: true, MaxBlockDepth: DefaultMaxBlockDepth}
}

// Extract lazily yields the CodeUnits in source. A source that fails
// to parse into a tree, or whose tree contains any syntax error,
// yields nothing: the extractor never panics and never returns an
// error, matching spec.md §4.1's fault-tolerance requirement.
func Extract(source []byte, filePath string, opts ExtractOptions) iter.Seq[types.CodeUnit] {
	return func(yield func(types.CodeUnit) bool) {
		tree := Parse(source)
		if tree == nil {
			return
		}
		defer tree.Close()
		root := tree.RootNode()
		if root == nil || root.HasError() {
			return
		}
		e := &extractor{src: source, filePath: filePath, opts: opts, yield: yield}
		for i := uint(0); i < root.ChildCount() && !e.stopped; i++ {
			e.walkTopLevel(root.Child(i))
		}
	}
}

type extractor struct {
	src      []byte
	filePath string
	opts     ExtractOptions
	yield    func(types.CodeUnit) bool
	stopped  bool
}

func (e *extractor) emit(u types.CodeUnit) bool {
	if e.stopped {
		return false
	}
	if !e.yield(u) {
		e.stopped = true
		return false
	}
	return true
}

func (e *extractor) text(n *tree_sitter.Node) string {
	return string(e.src[n.StartByte():n.EndByte()])
}

func (e *extractor) lines(n *tree_sitter.Node) (int, int) {
	return int(n.StartPosition().Row) + 1, int(n.EndPosition().Row) + 1
}

func (e *extractor) walkTopLevel(n *tree_sitter.Node) {
	if !n.IsNamed() {
		return
	}
	def := unwrapDef(n)
	if def == nil {
		return
	}
	switch def.Kind() {
	case "function_definition":
		e.emitFunction(def, "")
	case "class_definition":
		e.emitClass(def)
	}
}

func (e *extractor) emitFunction(def *tree_sitter.Node, parentName string) {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	unitType := types.UnitFunction
	if parentName != "" {
		unitType = types.UnitMethod
	}
	start, end := e.lines(def)
	u := types.CodeUnit{
		Name:       e.text(nameNode),
		Code:       e.text(def),
		FilePath:   e.filePath,
		LineStart:  start,
		LineEnd:    end,
		UnitType:   unitType,
		ParentName: parentName,
	}
	if !e.emit(u) {
		return
	}
	if !e.opts.IncludeBlocks {
		return
	}
	body := def.ChildByFieldName("body")
	if body == nil {
		return
	}
	e.walkBlockBody(body, blockWalk{prefix: u.Name, depth: 1})
}

func (e *extractor) emitClass(def *tree_sitter.Node) {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	start, end := e.lines(def)
	u := types.CodeUnit{
		Name:      e.text(nameNode),
		Code:      e.text(def),
		FilePath:  e.filePath,
		LineStart: start,
		LineEnd:   end,
		UnitType:  types.UnitClass,
	}
	if !e.emit(u) {
		return
	}
	body := def.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount() && !e.stopped; i++ {
		child := body.Child(i)
		if !child.IsNamed() {
			continue
		}
		member := unwrapDef(child)
		if member == nil {
			continue
		}
		switch member.Kind() {
		case "function_definition":
			e.emitFunction(member, u.Name)
		case "class_definition":
			e.emitClass(member)
		}
	}
}

// blockWalk carries the naming/nesting context for one level of block
// extraction: prefix is the dotted name new blocks at this level
// build on (the enclosing function's name at depth 1, or the parent
// block's own full name at depth > 1), and parentBlockName is the
// value blocks at this level record on their ParentBlockName field.
type blockWalk struct {
	prefix          string
	parentBlockName string
	depth           int
}

func (e *extractor) walkBlockBody(body *tree_sitter.Node, w blockWalk) {
	if e.stopped || w.depth > e.opts.MaxBlockDepth {
		return
	}
	ordinals := map[string]int{}
	for i := uint(0); i < body.ChildCount() && !e.stopped; i++ {
		stmt := body.Child(i)
		if !stmt.IsNamed() {
			continue
		}
		if kind, ok := blockKind(stmt); ok {
			ordinals[kind]++
			name := fmt.Sprintf("%s.%s_%d", w.prefix, kind, ordinals[kind])
			start, end := e.lines(stmt)
			u := types.CodeUnit{
				Name:            name,
				Code:            e.text(stmt),
				FilePath:        e.filePath,
				LineStart:       start,
				LineEnd:         end,
				UnitType:        types.UnitBlock,
				ParentName:      strings.SplitN(w.prefix, ".", 2)[0],
				BlockType:       types.BlockType(kind),
				NestingDepth:    w.depth,
				ParentBlockName: w.parentBlockName,
			}
			if !e.emit(u) {
				return
			}
			next := blockWalk{prefix: name, parentBlockName: name, depth: w.depth + 1}
			for _, blk := range collectBodyBlocks(stmt) {
				e.walkBlockBody(blk, next)
				if e.stopped {
					return
				}
			}
			continue
		}
		if def := unwrapDef(stmt); def != nil {
			switch def.Kind() {
			case "function_definition":
				e.emitFunction(def, "")
			case "class_definition":
				e.emitClass(def)
			}
		}
	}
}

// collectBodyBlocks finds every "block" (suite) node reachable from
// stmt's own structure — its main body plus any elif/else/except/
// finally suites — without crossing into a nested block-kind
// statement (that statement's own suites are handled by its own
// walkBlockBody call) or a nested function/class definition (handled
// by walkBlockBody's per-statement loop once that def's own "block"
// is reached).
func collectBodyBlocks(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	var walk func(*tree_sitter.Node)
	walk = func(x *tree_sitter.Node) {
		for i := uint(0); i < x.ChildCount(); i++ {
			c := x.Child(i)
			if !c.IsNamed() {
				continue
			}
			switch {
			case c.Kind() == "block":
				out = append(out, c)
			case c.Kind() == "function_definition", c.Kind() == "class_definition", c.Kind() == "decorated_definition":
				// nested def: own subtree, walked separately.
			default:
				if _, ok := blockKind(c); ok {
					continue // nested block statement: own subtree, walked separately.
				}
				walk(c)
			}
		}
	}
	walk(n)
	return out
}
