// Package scan discovers the Python files an indexing pass should
// read: a filepath.WalkDir descent (grounded on
// ingo-eichhorst-agent-readyness's internal/discovery/walker.go)
// filtered by the project's .gitignore (github.com/sabhiram/go-gitignore,
// that same repo's dependency) and by the config's include/exclude
// doublestar globs (github.com/bmatcuk/doublestar/v4, the teacher's
// own glob matcher).
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs are directory names never descended into regardless of
// .gitignore or glob configuration.
var skipDirs = map[string]bool{
	".git":         true,
	"__pycache__": true,
	".venv":       true,
	"venv":        true,
	"node_modules": true,
}

// Walker discovers Python source files under a root directory.
type Walker struct {
	Include []string
	Exclude []string
}

// NewWalker builds a Walker from include/exclude doublestar glob
// patterns, relative to the root passed to Walk.
func NewWalker(include, exclude []string) *Walker {
	return &Walker{Include: include, Exclude: exclude}
}

// Walk invokes fn for every regular file under root whose
// root-relative, slash-normalized path matches Include, doesn't match
// Exclude, and isn't ignored by root's .gitignore (if present). fn's
// own error aborts the walk and is returned.
func (w *Walker) Walk(root string, fn func(relPath string) error) error {
	var gitIgnore *ignore.GitIgnore
	if g, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		gitIgnore = g
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if skipDirs[name] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gitIgnore != nil && gitIgnore.MatchesPath(rel) {
			return nil
		}
		if !w.Included(rel) || w.Excluded(rel) {
			return nil
		}
		return fn(rel)
	})
}

// Included reports whether rel matches w's include globs (or w has
// none, in which case everything is included).
func (w *Walker) Included(rel string) bool {
	if len(w.Include) == 0 {
		return true
	}
	for _, pat := range w.Include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// Excluded reports whether rel matches one of w's exclude globs.
func (w *Walker) Excluded(rel string) bool {
	for _, pat := range w.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// ReadFile is a thin wrapper kept for symmetry with Walk so callers
// doing path, err := ... ; scan.ReadFile(path) never import os
// directly just for this.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
