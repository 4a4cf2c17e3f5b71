package recommend

import (
	"testing"

	"github.com/Thaylo/astograph/internal/graph"
	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/types"
)

func bigGraph(nodes int) *graph.Graph {
	b := graph.NewBuilder()
	root := b.Emit("FunctionDef", -1, 0)
	for i := 1; i < nodes; i++ {
		b.Emit("Pass", root, 1)
	}
	return b.Build()
}

func prodEntry(filePath, name string, lineStart, lineEnd int) index.IndexEntry {
	g := bigGraph(20)
	return index.IndexEntry{
		Unit: types.CodeUnit{
			FilePath:  filePath,
			Name:      name,
			LineStart: lineStart,
			LineEnd:   lineEnd,
			UnitType:  types.UnitFunction,
		},
		Graph:     g,
		NodeCount: g.NodeCount(),
	}
}

func TestRecommendSkipsGroupsUnderTwoEntries(t *testing.T) {
	groups := []index.DuplicateGroup{{
		Hash:    "h1",
		Entries: []index.IndexEntry{prodEntry("a.py", "f", 1, 10)},
	}}
	recs := Recommend(groups, nil)
	if len(recs) != 0 {
		t.Fatalf("Recommend on a single-entry group returned %d recommendations, want 0", len(recs))
	}
}

func TestRecommendProductionDuplicatesAcrossDirectoriesExtractToUtility(t *testing.T) {
	groups := []index.DuplicateGroup{{
		Hash: "h1",
		Entries: []index.IndexEntry{
			prodEntry("services/a/compute.py", "compute_total", 1, 20),
			prodEntry("services/b/compute.py", "compute_total", 1, 20),
		},
		IsVerified: true,
	}}
	recs := Recommend(groups, nil)
	if len(recs) != 1 {
		t.Fatalf("Recommend returned %d recommendations, want 1", len(recs))
	}
	if recs[0].Action != ExtractToUtility {
		t.Fatalf("Action = %s, want %s", recs[0].Action, ExtractToUtility)
	}
	if recs[0].FilesAffected != 2 {
		t.Fatalf("FilesAffected = %d, want 2", recs[0].FilesAffected)
	}
}

func TestRecommendSameDirectoryConsolidateInPlace(t *testing.T) {
	groups := []index.DuplicateGroup{{
		Hash: "h1",
		Entries: []index.IndexEntry{
			prodEntry("services/a/one.py", "run", 1, 20),
			prodEntry("services/a/two.py", "run", 1, 20),
		},
		IsVerified: true,
	}}
	recs := Recommend(groups, nil)
	if recs[0].Action != ConsolidateInPlace {
		t.Fatalf("Action = %s, want %s", recs[0].Action, ConsolidateInPlace)
	}
}

func TestRecommendAllTestFilesReviewTestDuplication(t *testing.T) {
	groups := []index.DuplicateGroup{{
		Hash: "h1",
		Entries: []index.IndexEntry{
			prodEntry("tests/test_a.py", "setup", 1, 5),
			prodEntry("tests/test_b.py", "setup", 1, 5),
		},
	}}
	recs := Recommend(groups, nil)
	if recs[0].Action != ReviewTestDuplication {
		t.Fatalf("Action = %s, want %s", recs[0].Action, ReviewTestDuplication)
	}
}

func TestRecommendMethodsAcrossClassesExtractToBaseClass(t *testing.T) {
	e1 := prodEntry("models/widget.py", "render", 1, 20)
	e1.Unit.UnitType = types.UnitMethod
	e1.Unit.ParentName = "Widget"
	e2 := prodEntry("models/gadget.py", "render", 1, 20)
	e2.Unit.UnitType = types.UnitMethod
	e2.Unit.ParentName = "Gadget"

	groups := []index.DuplicateGroup{{
		Hash:       "h1",
		Entries:    []index.IndexEntry{e1, e2},
		IsVerified: true,
	}}
	recs := Recommend(groups, nil)
	if recs[0].Action != ExtractToBaseClass {
		t.Fatalf("Action = %s, want %s", recs[0].Action, ExtractToBaseClass)
	}
}

func TestRecommendImpactScoreIsBounded(t *testing.T) {
	groups := []index.DuplicateGroup{{
		Hash: "h1",
		Entries: []index.IndexEntry{
			prodEntry("a/one.py", "f", 1, 100),
			prodEntry("b/two.py", "f", 1, 100),
			prodEntry("c/three.py", "f", 1, 100),
		},
		IsVerified: true,
	}}
	recs := Recommend(groups, nil)
	if recs[0].ImpactScore < 0 || recs[0].ImpactScore > 1.0 {
		t.Fatalf("ImpactScore = %f, want in [0, 1]", recs[0].ImpactScore)
	}
	if recs[0].Confidence < 0 || recs[0].Confidence > 1.0 {
		t.Fatalf("Confidence = %f, want in [0, 1]", recs[0].Confidence)
	}
}

func TestRecommendUsesVerifyFuncWhenGroupUnverified(t *testing.T) {
	called := false
	verifyFn := VerifyFunc(func(a, b index.IndexEntry) bool {
		called = true
		return true
	})
	groups := []index.DuplicateGroup{{
		Hash: "h1",
		Entries: []index.IndexEntry{
			prodEntry("a/one.py", "f", 1, 20),
			prodEntry("b/two.py", "f", 1, 20),
		},
		IsVerified: false,
	}}
	Recommend(groups, verifyFn)
	if !called {
		t.Fatalf("Recommend did not call VerifyFunc for an unverified group")
	}
}

func TestRecommendKeepsShallowestPathWhenUnambiguous(t *testing.T) {
	groups := []index.DuplicateGroup{{
		Hash: "h1",
		Entries: []index.IndexEntry{
			prodEntry("top.py", "f", 1, 20),
			prodEntry("nested/deep/path.py", "f", 1, 20),
		},
		IsVerified: true,
	}}
	recs := Recommend(groups, nil)
	if recs[0].KeepLocation == nil {
		t.Fatalf("KeepLocation is nil, want the shallowest entry")
	}
	if recs[0].KeepLocation.FilePath != "top.py" {
		t.Fatalf("KeepLocation.FilePath = %q, want top.py", recs[0].KeepLocation.FilePath)
	}
	if len(recs[0].RemoveLocations) != 1 {
		t.Fatalf("RemoveLocations = %v, want 1 entry", recs[0].RemoveLocations)
	}
}

func TestRecommendSortedByImpactDescending(t *testing.T) {
	small := []index.IndexEntry{prodEntry("a.py", "f", 1, 2), prodEntry("b.py", "f", 1, 2)}
	small[0].NodeCount, small[1].NodeCount = 3, 3

	big := []index.IndexEntry{prodEntry("c.py", "g", 1, 100), prodEntry("d.py", "g", 1, 100)}

	groups := []index.DuplicateGroup{
		{Hash: "small", Entries: small},
		{Hash: "big", Entries: big, IsVerified: true},
	}
	recs := Recommend(groups, nil)
	if len(recs) != 2 {
		t.Fatalf("Recommend returned %d recommendations, want 2", len(recs))
	}
	if recs[0].ImpactScore < recs[1].ImpactScore {
		t.Fatalf("recommendations not sorted descending by ImpactScore: %v", recs)
	}
}
