package graph

// Fingerprint is the cheap structural summary from spec.md §4.4, used
// to pre-filter isomorphism candidates in O(L+N) before the Verifier's
// exact (and much more expensive) isomorphism check.
type Fingerprint struct {
	Empty           bool
	NNodes          int
	NEdges          int
	LabelCounts     map[string]int
	InDegreeSeq     []int
	OutDegreeSeq    []int
}

// StructuralFingerprint computes g's Fingerprint.
func StructuralFingerprint(g *Graph) Fingerprint {
	if g == nil || g.NodeCount() == 0 {
		return Fingerprint{Empty: true, LabelCounts: map[string]int{}}
	}
	return Fingerprint{
		NNodes:       g.NodeCount(),
		NEdges:       g.EdgeCount(),
		LabelCounts:  g.Histogram,
		InDegreeSeq:  g.InDegreeSequence(),
		OutDegreeSeq: g.OutDegreeSequence(),
	}
}

// FingerprintsCompatible implements spec.md §4.4's necessary (not
// sufficient) precondition for isomorphism.
func FingerprintsCompatible(a, b Fingerprint) bool {
	if a.Empty || b.Empty {
		return a.Empty && b.Empty
	}
	if a.NNodes != b.NNodes || a.NEdges != b.NEdges {
		return false
	}
	if !labelCountsEqual(a.LabelCounts, b.LabelCounts) {
		return false
	}
	return intsEqual(a.InDegreeSeq, b.InDegreeSeq) && intsEqual(a.OutDegreeSeq, b.OutDegreeSeq)
}

func labelCountsEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
