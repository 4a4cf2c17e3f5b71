package types

import (
	"path"
	"strings"
)

// testPathPatterns mirrors the spec's unified test-file detection:
// a path is a test path if it contains any of these substrings, or
// its base name (sans extension) equals "conftest".
var testPathPatterns = []string{
	"test_", "_test", "/tests/", "/test/", "spec_", "_spec",
}

// isTestPath reports whether filePath looks like a test file, per the
// same rule used by both the Pattern Classifier (spec.md §4.7) and the
// Recommendation Engine (spec.md §4.8).
func isTestPath(filePath string) bool {
	lower := strings.ToLower(toSlash(filePath))
	for _, pat := range testPathPatterns {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	base := path.Base(lower)
	base = strings.TrimSuffix(base, path.Ext(base))
	return base == "conftest"
}

// toSlash normalizes path separators without importing path/filepath
// just for this, since CodeUnit paths are already project-relative
// slash paths in practice but callers may pass OS paths on Windows.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
