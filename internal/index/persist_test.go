package index

import (
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTripsUnitsAndSuppressions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	idx := New(3)
	idx.AddCodeUnit(unit("f", bodyA, "a.py", 1))
	idx.AddCodeUnit(unit("g", bodyB, "b.py", 1))
	suppressions := NewSuppressionSet()
	suppressions.Add("some-hash")

	if err := Save(dir, idx, suppressions); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loadedIdx, loadedSuppressions, err := Load(dir, 3)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	groups, err := loadedIdx.FindAllDuplicates(0)
	if err != nil {
		t.Fatalf("FindAllDuplicates on loaded index returned error: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Entries) != 2 {
		t.Fatalf("loaded index groups = %+v, want one group of 2 entries", groups)
	}

	if !loadedSuppressions.Contains("some-hash") {
		t.Fatalf("loaded SuppressionSet does not contain some-hash")
	}
}

func TestLoadOnFreshDirectoryIsEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh-store")
	idx, suppressions, err := Load(dir, 3)
	if err != nil {
		t.Fatalf("Load on a fresh directory returned error: %v", err)
	}
	groups, _ := idx.FindAllDuplicates(0)
	if len(groups) != 0 {
		t.Fatalf("fresh Load produced %d duplicate groups, want 0", len(groups))
	}
	if len(suppressions.List()) != 0 {
		t.Fatalf("fresh Load produced a non-empty SuppressionSet")
	}
}
