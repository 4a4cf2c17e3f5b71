package index

import (
	"context"
	"testing"

	"github.com/Thaylo/astograph/internal/pyast"
	"github.com/Thaylo/astograph/internal/types"
	"github.com/Thaylo/astograph/internal/verify"
)

func unit(name, code, filePath string, line int) types.CodeUnit {
	return types.CodeUnit{
		Name:      name,
		Code:      code,
		FilePath:  filePath,
		LineStart: line,
		LineEnd:   line + 1,
		UnitType:  types.UnitFunction,
	}
}

const bodyA = "def f(x):\n    return x + 1\n"
const bodyB = "def g(y):\n    return y + 1\n"
const bodyC = "def h(z):\n    return z * 2\n"

func TestAddCodeUnitGroupsByHash(t *testing.T) {
	idx := New(3)
	idx.AddCodeUnit(unit("f", bodyA, "a.py", 1))
	idx.AddCodeUnit(unit("g", bodyB, "b.py", 1))
	idx.AddCodeUnit(unit("h", bodyC, "c.py", 1))

	groups, err := idx.FindAllDuplicates(0)
	if err != nil {
		t.Fatalf("FindAllDuplicates returned error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("FindAllDuplicates returned %d groups, want 1", len(groups))
	}
	if len(groups[0].Entries) != 2 {
		t.Fatalf("the isomorphic-shape group has %d entries, want 2", len(groups[0].Entries))
	}
}

func TestFindAllDuplicatesRejectsNegativeMinNodeCount(t *testing.T) {
	idx := New(3)
	if _, err := idx.FindAllDuplicates(-1); err == nil {
		t.Fatalf("FindAllDuplicates(-1) returned nil error, want an error")
	}
}

func TestFindAllDuplicatesFiltersByMinNodeCount(t *testing.T) {
	idx := New(3)
	idx.AddCodeUnit(unit("f", bodyA, "a.py", 1))
	idx.AddCodeUnit(unit("g", bodyB, "b.py", 1))

	groups, err := idx.FindAllDuplicates(1000)
	if err != nil {
		t.Fatalf("FindAllDuplicates returned error: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("FindAllDuplicates(1000) = %d groups, want 0 (every group is smaller)", len(groups))
	}
}

func TestRemoveFileDropsOnlyThatFilesEntries(t *testing.T) {
	idx := New(3)
	idx.AddCodeUnit(unit("f", bodyA, "a.py", 1))
	idx.AddCodeUnit(unit("g", bodyB, "b.py", 1))

	removed := idx.RemoveFile("a.py")
	if removed != 1 {
		t.Fatalf("RemoveFile(a.py) removed %d entries, want 1", removed)
	}
	groups, _ := idx.FindAllDuplicates(0)
	if len(groups) != 0 {
		t.Fatalf("expected no duplicate groups after removing one of two entries, got %d", len(groups))
	}
}

func TestVerifyGroupMarksVerifiedOnIsomorphism(t *testing.T) {
	idx := New(3)
	e1 := idx.AddCodeUnit(unit("f", bodyA, "a.py", 1))
	idx.AddCodeUnit(unit("g", bodyB, "b.py", 1))

	result := idx.VerifyGroup(context.Background(), e1.Hash)
	if result != verify.Isomorphic {
		t.Fatalf("VerifyGroup result = %s, want isomorphic", result)
	}
	group, ok := idx.Group(e1.Hash)
	if !ok {
		t.Fatalf("Group(%q) not found after VerifyGroup", e1.Hash)
	}
	if !group.IsVerified {
		t.Fatalf("group.IsVerified = false after a confirmed isomorphism")
	}
}

func TestVerifyGroupUnknownOnSingleEntry(t *testing.T) {
	idx := New(3)
	e1 := idx.AddCodeUnit(unit("f", bodyA, "a.py", 1))
	if result := idx.VerifyGroup(context.Background(), e1.Hash); result != verify.Unknown {
		t.Fatalf("VerifyGroup on a single-entry bucket = %s, want unknown", result)
	}
}

func TestFindSimilarReturnsExactHits(t *testing.T) {
	idx := New(3)
	idx.AddCodeUnit(unit("f", bodyA, "a.py", 1))

	hits, err := idx.FindSimilar(bodyB, 0)
	if err != nil {
		t.Fatalf("FindSimilar returned error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("FindSimilar(bodyB) = %d hits, want 1", len(hits))
	}
	if hits[0].SimilarityType != "exact" {
		t.Fatalf("hit SimilarityType = %q, want exact", hits[0].SimilarityType)
	}
}

func TestFindSimilarEmptySourceYieldsEmptyNoError(t *testing.T) {
	idx := New(3)
	hits, err := idx.FindSimilar("", 0)
	if err != nil {
		t.Fatalf("FindSimilar(\"\") returned error: %v", err)
	}
	if hits != nil {
		t.Fatalf("FindSimilar(\"\") = %v, want nil", hits)
	}
}

func TestAddFileExtractsMultipleUnits(t *testing.T) {
	idx := New(3)
	src := []byte("def a():\n    pass\n\n\ndef b():\n    pass\n")
	n := idx.AddFile("m.py", src, pyast.DefaultExtractOptions())
	if n != 2 {
		t.Fatalf("AddFile extracted %d units, want 2", n)
	}
}

func TestAddFileEmptySourceYieldsZero(t *testing.T) {
	idx := New(3)
	n := idx.AddFile("m.py", []byte(""), pyast.DefaultExtractOptions())
	if n != 0 {
		t.Fatalf("AddFile(\"\") extracted %d units, want 0", n)
	}
}
