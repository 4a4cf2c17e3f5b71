// Package index implements the duplicate Index from spec.md §4.6: a
// hash-bucketed collection of IndexEntry values with duplicate-group
// and similarity lookups. Synchronization follows the teacher's
// sync.RWMutex idiom for index-shaped state
// (internal/core/index_state.go) even though spec.md §5 only requires
// single-writer/concurrent-reader discipline, not full concurrent
// mutation.
package index

import (
	"context"
	"sort"
	"sync"
	"time"

	asterrors "github.com/Thaylo/astograph/internal/errors"
	"github.com/Thaylo/astograph/internal/graph"
	"github.com/Thaylo/astograph/internal/hash"
	"github.com/Thaylo/astograph/internal/metrics"
	"github.com/Thaylo/astograph/internal/pyast"
	"github.com/Thaylo/astograph/internal/types"
	"github.com/Thaylo/astograph/internal/verify"
)

// IndexEntry is one indexed CodeUnit plus its derived structural data.
type IndexEntry struct {
	Unit        types.CodeUnit
	Graph       *graph.Graph
	Hash        string
	Fingerprint graph.Fingerprint
	NodeCount   int
}

// DuplicateGroup is an equivalence class of entries under wl_hash.
type DuplicateGroup struct {
	Hash       string
	Entries    []IndexEntry
	IsVerified bool
}

// SimilarityHit is one bucket member returned by FindSimilar.
type SimilarityHit struct {
	Entry          IndexEntry
	SimilarityType string
}

// Index groups CodeUnits by their WL hash. The zero value is not
// usable; construct with New.
type Index struct {
	mu           sync.RWMutex
	buckets      map[string][]IndexEntry
	verified     map[string]bool
	wlIterations int
}

// New builds an empty Index using the given WL iteration count; two
// indexes must agree on this value to compare hashes meaningfully
// (spec.md §4.3).
func New(wlIterations int) *Index {
	if wlIterations <= 0 {
		wlIterations = hash.DefaultIterations
	}
	return &Index{
		buckets:      make(map[string][]IndexEntry),
		verified:     make(map[string]bool),
		wlIterations: wlIterations,
	}
}

// WLIterations reports the iteration count this Index was built with.
func (idx *Index) WLIterations() int { return idx.wlIterations }

// AddCodeUnit builds unit's graph, hash, and fingerprint, appends it
// to the matching bucket, and returns the resulting entry.
func (idx *Index) AddCodeUnit(unit types.CodeUnit) IndexEntry {
	g := pyast.BuildGraph(unit.Code)
	entry := IndexEntry{
		Unit:        unit,
		Graph:       g,
		Hash:        hash.Canonical(g, idx.wlIterations),
		Fingerprint: graph.StructuralFingerprint(g),
		NodeCount:   g.NodeCount(),
	}
	idx.mu.Lock()
	idx.buckets[entry.Hash] = append(idx.buckets[entry.Hash], entry)
	idx.mu.Unlock()
	return entry
}

// AddFile extracts every CodeUnit from source and indexes it,
// returning the number of units added. A file that fails to parse
// contributes zero units, not an error.
func (idx *Index) AddFile(filePath string, source []byte, opts pyast.ExtractOptions) int {
	start := time.Now()
	n := 0
	byType := map[types.UnitType]int{}
	for unit := range pyast.Extract(source, filePath, opts) {
		idx.AddCodeUnit(unit)
		byType[unit.UnitType]++
		n++
	}
	if n == 0 {
		metrics.RecordFileSkipped("no_units")
	} else {
		metrics.RecordFileIndexed(time.Since(start))
		for t, count := range byType {
			metrics.RecordUnitsExtracted(string(t), count)
		}
	}
	idx.refreshBucketGauges()
	return n
}

// RemoveFile drops every entry indexed from filePath, for incremental
// reindexing when a watched file changes or disappears. Callers that
// want to reflect an edit re-extract and AddFile the new contents
// after calling RemoveFile. A bucket left with fewer than two entries
// has its Verified flag cleared here, since a single surviving entry
// can no longer be confirmed a duplicate.
func (idx *Index) RemoveFile(filePath string) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	removed := 0
	for h, entries := range idx.buckets {
		kept := entries[:0:0]
		for _, e := range entries {
			if e.Unit.FilePath == filePath {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(idx.buckets, h)
			delete(idx.verified, h)
		} else {
			idx.buckets[h] = kept
			if len(kept) < 2 {
				delete(idx.verified, h)
			}
		}
	}
	return removed
}

func (idx *Index) refreshBucketGauges() {
	idx.mu.RLock()
	n := len(idx.buckets)
	total := 0
	for _, entries := range idx.buckets {
		total += len(entries)
	}
	idx.mu.RUnlock()
	avg := 0.0
	if n > 0 {
		avg = float64(total) / float64(n)
	}
	metrics.SetBucketStats(n, avg)
}

// FindAllDuplicates returns every bucket with at least two entries
// whose average node count is >= minNodeCount, sorted by descending
// average node count; entries within a group are sorted by
// (file_path, line_start).
func (idx *Index) FindAllDuplicates(minNodeCount int) ([]DuplicateGroup, error) {
	if minNodeCount < 0 {
		return nil, asterrors.InvalidInput("find_all_duplicates", errNegativeMinNodeCount)
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var groups []DuplicateGroup
	for h, entries := range idx.buckets {
		if len(entries) < 2 {
			continue
		}
		if avgNodeCount(entries) < float64(minNodeCount) {
			continue
		}
		sorted := append([]IndexEntry(nil), entries...)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Unit.FilePath != sorted[j].Unit.FilePath {
				return sorted[i].Unit.FilePath < sorted[j].Unit.FilePath
			}
			return sorted[i].Unit.LineStart < sorted[j].Unit.LineStart
		})
		groups = append(groups, DuplicateGroup{
			Hash:       h,
			Entries:    sorted,
			IsVerified: idx.verified[h],
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return avgNodeCount(groups[i].Entries) > avgNodeCount(groups[j].Entries)
	})
	return groups, nil
}

// FindSimilar parses codeText (best-effort), builds its graph, and
// returns an "exact" hit for every bucket member whose fingerprint is
// compatible with it and whose node count meets minNodeCount. A
// codeText that fails to parse yields an empty, error-free result.
func (idx *Index) FindSimilar(codeText string, minNodeCount int) ([]SimilarityHit, error) {
	if minNodeCount < 0 {
		return nil, asterrors.InvalidInput("find_similar", errNegativeMinNodeCount)
	}
	g, ok := pyast.TryBuildGraph(codeText)
	if !ok {
		return nil, nil
	}
	fp := graph.StructuralFingerprint(g)
	h := hash.Canonical(g, idx.wlIterations)

	idx.mu.RLock()
	entries := idx.buckets[h]
	hits := make([]SimilarityHit, 0, len(entries))
	for _, e := range entries {
		if e.NodeCount < minNodeCount {
			continue
		}
		if !graph.FingerprintsCompatible(fp, e.Fingerprint) {
			continue
		}
		hits = append(hits, SimilarityHit{Entry: e, SimilarityType: "exact"})
	}
	idx.mu.RUnlock()
	return hits, nil
}

// VerifyGroup runs the Verifier against bucket h's first entry and
// each subsequent entry until a confirmed isomorphism is found, and
// if one is, marks the group Verified (spec.md §4.9). No later
// verification clears the mark; only RemoveFile does, when it leaves
// the bucket with fewer than two entries. It returns the strongest
// result observed.
func (idx *Index) VerifyGroup(ctx context.Context, h string) verify.Result {
	idx.mu.RLock()
	entries := append([]IndexEntry(nil), idx.buckets[h]...)
	idx.mu.RUnlock()
	if len(entries) < 2 {
		return verify.Unknown
	}

	best := verify.NotIsomorphic
	for i := 1; i < len(entries); i++ {
		result := verify.Verify(ctx, entries[0].Graph, entries[i].Graph)
		metrics.RecordVerify(result.String())
		switch result {
		case verify.Isomorphic:
			idx.mu.Lock()
			idx.verified[h] = true
			idx.mu.Unlock()
			return verify.Isomorphic
		case verify.Unknown:
			best = verify.Unknown
		}
	}
	return best
}

// Group returns the DuplicateGroup for h regardless of size, for
// callers (classify, the tool server) that already have a hash in
// hand rather than a result of FindAllDuplicates.
func (idx *Index) Group(h string) (DuplicateGroup, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entries, ok := idx.buckets[h]
	if !ok {
		return DuplicateGroup{}, false
	}
	return DuplicateGroup{Hash: h, Entries: entries, IsVerified: idx.verified[h]}, true
}

func avgNodeCount(entries []IndexEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range entries {
		total += e.NodeCount
	}
	return float64(total) / float64(len(entries))
}

type invalidInputError string

func (e invalidInputError) Error() string { return string(e) }

const errNegativeMinNodeCount = invalidInputError("min_node_count must be >= 0")
