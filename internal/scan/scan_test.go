package scan

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestWalkFindsIncludedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/a.py", "pass\n")
	writeFile(t, root, "pkg/b.txt", "not python\n")
	writeFile(t, root, "pkg/__pycache__/a.pyc", "binary\n")

	w := NewWalker([]string{"**/*.py"}, nil)
	var found []string
	if err := w.Walk(root, func(rel string) error {
		found = append(found, rel)
		return nil
	}); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	sort.Strings(found)
	if len(found) != 1 || found[0] != "pkg/a.py" {
		t.Fatalf("Walk found %v, want [pkg/a.py]", found)
	}
}

func TestWalkRespectsExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.py", "pass\n")
	writeFile(t, root, "generated/skip.py", "pass\n")

	w := NewWalker([]string{"**/*.py"}, []string{"generated/**"})
	var found []string
	if err := w.Walk(root, func(rel string) error {
		found = append(found, rel)
		return nil
	}); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(found) != 1 || found[0] != "keep.py" {
		t.Fatalf("Walk found %v, want [keep.py]", found)
	}
}

func TestWalkRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "ignored.py\n")
	writeFile(t, root, "ignored.py", "pass\n")
	writeFile(t, root, "tracked.py", "pass\n")

	w := NewWalker([]string{"**/*.py"}, nil)
	var found []string
	if err := w.Walk(root, func(rel string) error {
		found = append(found, rel)
		return nil
	}); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(found) != 1 || found[0] != "tracked.py" {
		t.Fatalf("Walk found %v, want [tracked.py]", found)
	}
}

func TestWalkSkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".hidden/a.py", "pass\n")
	writeFile(t, root, "visible.py", "pass\n")

	w := NewWalker([]string{"**/*.py"}, nil)
	var found []string
	if err := w.Walk(root, func(rel string) error {
		found = append(found, rel)
		return nil
	}); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(found) != 1 || found[0] != "visible.py" {
		t.Fatalf("Walk found %v, want [visible.py]", found)
	}
}

func TestIncludedWithNoPatternsIncludesEverything(t *testing.T) {
	w := NewWalker(nil, nil)
	if !w.Included("anything.py") {
		t.Fatalf("Included() with no Include patterns = false, want true")
	}
}

func TestExcludedMatchesGlob(t *testing.T) {
	w := NewWalker(nil, []string{"build/**"})
	if !w.Excluded("build/out.py") {
		t.Fatalf("Excluded(build/out.py) = false, want true")
	}
	if w.Excluded("src/out.py") {
		t.Fatalf("Excluded(src/out.py) = true, want false")
	}
}
