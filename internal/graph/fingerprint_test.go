package graph

import "testing"

func buildSimpleTree() *Graph {
	b := NewBuilder()
	root := b.Emit("FunctionDef", -1, 0)
	b.Emit("Return", root, 1)
	b.Emit("Pass", root, 1)
	return b.Build()
}

func TestStructuralFingerprintEmpty(t *testing.T) {
	fp := StructuralFingerprint(Empty())
	if !fp.Empty {
		t.Fatalf("StructuralFingerprint(Empty()).Empty = false, want true")
	}
	if !FingerprintsCompatible(fp, fp) {
		t.Fatalf("two empty fingerprints should be compatible")
	}
}

func TestStructuralFingerprintMatchesSameShape(t *testing.T) {
	a := StructuralFingerprint(buildSimpleTree())
	b := StructuralFingerprint(buildSimpleTree())
	if !FingerprintsCompatible(a, b) {
		t.Fatalf("fingerprints of two identically-shaped graphs should be compatible")
	}
}

func TestStructuralFingerprintRejectsDifferentLabels(t *testing.T) {
	a := StructuralFingerprint(buildSimpleTree())

	b := NewBuilder()
	root := b.Emit("FunctionDef", -1, 0)
	b.Emit("Return", root, 1)
	b.Emit("Raise", root, 1) // different label than "Pass"
	other := StructuralFingerprint(b.Build())

	if FingerprintsCompatible(a, other) {
		t.Fatalf("fingerprints with different label histograms should not be compatible")
	}
}

func TestStructuralFingerprintRejectsDifferentShape(t *testing.T) {
	a := StructuralFingerprint(buildSimpleTree())

	b := NewBuilder()
	root := b.Emit("FunctionDef", -1, 0)
	child := b.Emit("Return", root, 1)
	b.Emit("Pass", child, 2) // nested instead of sibling: different degree sequence
	other := StructuralFingerprint(b.Build())

	if FingerprintsCompatible(a, other) {
		t.Fatalf("fingerprints with different degree sequences should not be compatible")
	}
}

func TestFingerprintsCompatibleEmptyVsNonEmpty(t *testing.T) {
	empty := StructuralFingerprint(Empty())
	nonEmpty := StructuralFingerprint(buildSimpleTree())
	if FingerprintsCompatible(empty, nonEmpty) {
		t.Fatalf("an empty and a non-empty fingerprint must never be compatible")
	}
}
