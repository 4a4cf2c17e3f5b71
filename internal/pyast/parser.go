package pyast

import (
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// parserPool reuses tree_sitter.Parser instances across Parse calls.
// Parsers are cheap to run but expensive to configure with a language,
// and they are not safe for concurrent use by multiple goroutines at
// once, so the pool hands each caller an exclusive instance.
type parserPool struct {
	mu   sync.Mutex
	free []*tree_sitter.Parser
	lang *tree_sitter.Language
}

func newParserPool() *parserPool {
	lang := tree_sitter.NewLanguage(tree_sitter_python.Language())
	return &parserPool{lang: lang}
}

func (p *parserPool) acquire() *tree_sitter.Parser {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		ps := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return ps
	}
	p.mu.Unlock()
	ps := tree_sitter.NewParser()
	_ = ps.SetLanguage(p.lang)
	return ps
}

func (p *parserPool) release(ps *tree_sitter.Parser) {
	p.mu.Lock()
	p.free = append(p.free, ps)
	p.mu.Unlock()
}

// Parse parses source and returns the resulting tree, or nil if
// tree-sitter could produce no tree at all. A tree with syntax errors
// inside it is still returned — callers that need a clean parse check
// RootNode().HasError() themselves. Extract and TryBuildGraph do, and
// fail closed (emit nothing) on any such tree; BuildGraph does not,
// and builds its graph from the partial tree.
func (p *parserPool) Parse(source []byte) *tree_sitter.Tree {
	ps := p.acquire()
	defer p.release(ps)
	buf := make([]byte, len(source))
	copy(buf, source)
	return ps.Parse(buf, nil)
}

var defaultPool = newParserPool()

// Parse parses Python source using the package's shared parser pool.
func Parse(source []byte) *tree_sitter.Tree {
	return defaultPool.Parse(source)
}
