// Package recommend implements the Recommendation Engine from
// spec.md §4.8, ported from the original implementation's
// RecommendationEngine (see
// original_source/src/astograph/recommendations.py) in the teacher's
// idiom: typed string enums instead of Python's Enum class, and
// plain structs instead of dataclasses.
package recommend

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/types"
)

// ActionType is the refactoring action a Recommendation proposes.
type ActionType string

const (
	ExtractToUtility      ActionType = "extract_to_utility"
	ConsolidateInPlace    ActionType = "consolidate_in_place"
	ExtractToBaseClass    ActionType = "extract_to_base_class"
	ReviewTestDuplication ActionType = "review_test_duplication"
	NoAction              ActionType = "no_action"
)

// ImpactLevel buckets a Recommendation's ImpactScore.
type ImpactLevel string

const (
	ImpactHigh    ImpactLevel = "high"
	ImpactMedium  ImpactLevel = "medium"
	ImpactLow     ImpactLevel = "low"
	ImpactTrivial ImpactLevel = "trivial"
)

// Evidence is one supporting fact behind a Recommendation.
type Evidence struct {
	Fact   string
	Metric string
}

// LocationInfo describes one entry's position for reporting purposes.
type LocationInfo struct {
	FilePath       string
	Name           string
	Lines          string
	UnitType       types.UnitType
	ParentName     string
	IsTestFile     bool
	DirectoryDepth int
}

// Recommendation is one scored, evidenced refactoring suggestion.
type Recommendation struct {
	Action     ActionType
	Summary    string
	Rationale  string
	Impact     ImpactLevel
	ImpactScore float64
	Confidence float64

	Evidence  []Evidence
	Locations []LocationInfo

	KeepLocation    *LocationInfo
	KeepReason      string
	RemoveLocations []LocationInfo

	SuggestedName string

	LinesDuplicated      int
	EstimatedLinesSaved  int
	FilesAffected        int
}

// VerifyFunc checks isomorphism between two entries, used to upgrade
// a group's evidence from "hash match" to "verified match" when the
// group isn't already marked Verified.
type VerifyFunc func(a, b index.IndexEntry) bool

// Recommend analyzes groups and returns Recommendations sorted by
// ImpactScore descending. Groups with fewer than two entries are
// skipped, as are groups whose analysis would select NoAction.
func Recommend(groups []index.DuplicateGroup, verify VerifyFunc) []Recommendation {
	var out []Recommendation
	for _, g := range groups {
		if len(g.Entries) < 2 {
			continue
		}
		rec := analyzeGroup(g, verify)
		if rec.Action != NoAction {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ImpactScore > out[j].ImpactScore })
	return out
}

func analyzeGroup(g index.DuplicateGroup, verify VerifyFunc) Recommendation {
	entries := g.Entries
	locations := make([]LocationInfo, len(entries))
	for i, e := range entries {
		locations[i] = locationInfo(e)
	}

	isVerified := g.IsVerified
	if verify != nil && !isVerified && len(entries) >= 2 {
		isVerified = verify(entries[0], entries[1])
	}

	totalLines := 0
	for _, e := range entries {
		totalLines += countLines(e)
	}
	avgLines := totalLines / len(entries)

	totalNodes := 0
	for _, e := range entries {
		totalNodes += e.NodeCount
	}
	avgNodes := totalNodes / len(entries)

	var evidence []Evidence
	evidence = append(evidence, Evidence{
		Fact:   fmt.Sprintf("%d structurally identical code units detected", len(entries)),
		Metric: fmt.Sprintf("%d occurrences", len(entries)),
	})
	evidence = append(evidence, Evidence{
		Fact:   fmt.Sprintf("Each instance contains approximately %d lines", avgLines),
		Metric: fmt.Sprintf("%d lines each", avgLines),
	})
	evidence = append(evidence, Evidence{
		Fact:   fmt.Sprintf("AST complexity: %d nodes per instance", avgNodes),
		Metric: fmt.Sprintf("%d AST nodes", avgNodes),
	})
	if isVerified {
		evidence = append(evidence, Evidence{Fact: "Structural equivalence verified via exact tree isomorphism (AHU canonical form)"})
	} else {
		evidence = append(evidence, Evidence{Fact: "Structural equivalence indicated by matching Weisfeiler-Leman hash"})
	}

	testCount, prodCount := 0, 0
	for _, loc := range locations {
		if loc.IsTestFile {
			testCount++
		} else {
			prodCount++
		}
	}
	switch {
	case testCount > 0 && prodCount > 0:
		evidence = append(evidence, Evidence{
			Fact:   "Duplication spans test and production code",
			Metric: fmt.Sprintf("%d prod, %d test", prodCount, testCount),
		})
	case testCount > 0:
		evidence = append(evidence, Evidence{
			Fact:   "All instances are in test files",
			Metric: fmt.Sprintf("%d test files", testCount),
		})
	default:
		evidence = append(evidence, Evidence{
			Fact:   "All instances are in production code",
			Metric: fmt.Sprintf("%d production files", prodCount),
		})
	}

	action := determineAction(locations, entries, testCount, prodCount)
	impactScore := calculateImpactScore(entries, locations, avgNodes)
	confidence := calculateConfidence(isVerified, avgNodes, prodCount, len(locations))
	impactLevel := scoreToImpactLevel(impactScore)

	keepLocation, keepReason := selectKeepLocation(locations)
	var removeLocations []LocationInfo
	if keepLocation != nil {
		for _, loc := range locations {
			if loc != *keepLocation {
				removeLocations = append(removeLocations, loc)
			}
		}
	}

	suggestedName := suggestName(entries)
	summary, rationale := generateSummary(action, len(entries), avgLines, locations)

	return Recommendation{
		Action:              action,
		Summary:             summary,
		Rationale:           rationale,
		Impact:              impactLevel,
		ImpactScore:         impactScore,
		Confidence:          confidence,
		Evidence:            evidence,
		Locations:           locations,
		KeepLocation:        keepLocation,
		KeepReason:          keepReason,
		RemoveLocations:     removeLocations,
		SuggestedName:       suggestedName,
		LinesDuplicated:     totalLines,
		EstimatedLinesSaved: totalLines - avgLines,
		FilesAffected:       countDistinctFiles(locations),
	}
}

func locationInfo(e index.IndexEntry) LocationInfo {
	return LocationInfo{
		FilePath:       e.Unit.FilePath,
		Name:           e.Unit.Name,
		Lines:          fmt.Sprintf("%d-%d", e.Unit.LineStart, e.Unit.LineEnd),
		UnitType:       e.Unit.UnitType,
		ParentName:     e.Unit.ParentName,
		IsTestFile:     e.Unit.IsTestFile(),
		DirectoryDepth: directoryDepth(e.Unit.FilePath),
	}
}

func countLines(e index.IndexEntry) int { return e.Unit.LineCount() }

func directoryDepth(filePath string) int {
	cleaned := strings.Trim(path.Clean(toSlash(filePath)), "/")
	if cleaned == "" || cleaned == "." {
		return 0
	}
	return len(strings.Split(cleaned, "/"))
}

func directoryOf(filePath string) string {
	return path.Dir(toSlash(filePath))
}

func toSlash(p string) string { return strings.ReplaceAll(p, "\\", "/") }

func determineAction(locations []LocationInfo, entries []index.IndexEntry, testCount, prodCount int) ActionType {
	if prodCount == 0 {
		return ReviewTestDuplication
	}

	allMethods := true
	parentNames := map[string]bool{}
	for _, e := range entries {
		if e.Unit.UnitType != types.UnitMethod {
			allMethods = false
			break
		}
		parentNames[e.Unit.ParentName] = true
	}
	if allMethods {
		allNamed := true
		for name := range parentNames {
			if name == "" {
				allNamed = false
				break
			}
		}
		if len(parentNames) > 1 && allNamed {
			return ExtractToBaseClass
		}
	}

	directories := map[string]bool{}
	for _, loc := range locations {
		directories[directoryOf(loc.FilePath)] = true
	}
	if len(directories) == 1 {
		return ConsolidateInPlace
	}

	return ExtractToUtility
}

func scoreByThresholds(value float64, thresholds [][2]float64, fallback float64) float64 {
	for _, t := range thresholds {
		if value >= t[0] {
			return t[1]
		}
	}
	return fallback
}

func calculateImpactScore(entries []index.IndexEntry, locations []LocationInfo, avgNodes int) float64 {
	score := 0.0

	freqScore := 0.1 + float64(len(entries)-1)*0.05
	if freqScore > 0.3 {
		freqScore = 0.3
	}
	score += freqScore

	score += scoreByThresholds(float64(avgNodes), [][2]float64{{50, 0.30}, {20, 0.25}, {10, 0.15}}, 0.05)

	prodCount := 0
	for _, loc := range locations {
		if !loc.IsTestFile {
			prodCount++
		}
	}
	prodRatio := float64(prodCount) / float64(len(locations))
	score += prodRatio * 0.25

	totalLines := 0
	for _, e := range entries {
		totalLines += countLines(e)
	}
	avgLines := float64(totalLines) / float64(len(entries))
	score += scoreByThresholds(avgLines, [][2]float64{{30, 0.15}, {15, 0.10}, {5, 0.05}}, 0.0)

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func calculateConfidence(isVerified bool, avgNodes int, prodCount, totalLocations int) float64 {
	score := 0.5
	if isVerified {
		score += 0.25
	} else {
		score += 0.10
	}

	switch {
	case avgNodes >= 15:
		score += 0.15
	case avgNodes >= 8:
		score += 0.10
	}

	switch {
	case prodCount == totalLocations:
		score += 0.10
	case prodCount > 0:
		score += 0.05
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func scoreToImpactLevel(score float64) ImpactLevel {
	switch {
	case score >= 0.70:
		return ImpactHigh
	case score >= 0.45:
		return ImpactMedium
	case score >= 0.25:
		return ImpactLow
	default:
		return ImpactTrivial
	}
}

// selectKeepLocation proposes the strictly-shallowest-path entry as
// "keep"; a tie at the minimum depth means no clear winner.
func selectKeepLocation(locations []LocationInfo) (*LocationInfo, string) {
	if len(locations) == 0 {
		return nil, ""
	}
	minDepth := locations[0].DirectoryDepth
	for _, loc := range locations[1:] {
		if loc.DirectoryDepth < minDepth {
			minDepth = loc.DirectoryDepth
		}
	}
	var shallowest *LocationInfo
	count := 0
	for i := range locations {
		if locations[i].DirectoryDepth == minDepth {
			count++
			shallowest = &locations[i]
		}
	}
	if count != 1 {
		return nil, ""
	}
	return shallowest, "shallowest path"
}

// suggestName tokenizes each entry's name by underscore and
// upper-case boundary, then joins (up to three) tokens appearing in
// at least ceil(n/2)+1 names. With no such token it falls back to the
// shortest existing name.
func suggestName(entries []index.IndexEntry) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Unit.Name
	}

	counts := map[string]int{}
	var order []string
	for _, name := range names {
		seen := map[string]bool{}
		for _, tok := range tokenize(name) {
			if !seen[tok] {
				seen[tok] = true
				if counts[tok] == 0 {
					order = append(order, tok)
				}
				counts[tok]++
			}
		}
	}

	threshold := (len(names)+1)/2 + 1
	var common []string
	for _, tok := range order {
		if counts[tok] >= threshold {
			common = append(common, tok)
		}
	}
	sort.SliceStable(common, func(i, j int) bool { return counts[common[i]] > counts[common[j]] })
	if len(common) > 0 {
		if len(common) > 3 {
			common = common[:3]
		}
		return strings.Join(common, "_")
	}

	shortest := names[0]
	for _, n := range names[1:] {
		if len(n) < len(shortest) {
			shortest = n
		}
	}
	return shortest
}

func tokenize(name string) []string {
	var tokens []string
	var current strings.Builder
	for _, ch := range name {
		switch {
		case ch == '_':
			if current.Len() > 0 {
				tokens = append(tokens, strings.ToLower(current.String()))
				current.Reset()
			}
		case ch >= 'A' && ch <= 'Z' && current.Len() > 0:
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
			current.WriteRune(ch)
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, strings.ToLower(current.String()))
	}
	return tokens
}

func countDistinctFiles(locations []LocationInfo) int {
	seen := map[string]bool{}
	for _, loc := range locations {
		seen[loc.FilePath] = true
	}
	return len(seen)
}

func generateSummary(action ActionType, count, avgLines int, locations []LocationInfo) (string, string) {
	filesAffected := countDistinctFiles(locations)
	switch action {
	case ExtractToUtility:
		return fmt.Sprintf("Consider extracting %d duplicate implementations to a shared utility", count),
			fmt.Sprintf("Found %d structurally identical code blocks (~%d lines each) across %d files. "+
				"Extracting to a shared utility would reduce maintenance burden and ensure consistent behavior.",
				count, avgLines, filesAffected)
	case ConsolidateInPlace:
		return fmt.Sprintf("Consider consolidating %d duplicates within the same directory", count),
			fmt.Sprintf("Found %d identical implementations in the same directory. "+
				"Consolidating into a single local function would improve maintainability.", count)
	case ExtractToBaseClass:
		return fmt.Sprintf("Consider extracting %d duplicate methods to a base class", count),
			fmt.Sprintf("Found %d identical methods across different classes. "+
				"A base class or mixin could eliminate this duplication while preserving the object-oriented design.", count)
	case ReviewTestDuplication:
		return fmt.Sprintf("Review %d similar test implementations", count),
			fmt.Sprintf("Found %d structurally identical code blocks in test files. "+
				"This may be intentional (test isolation) or could benefit from test fixtures/helpers. "+
				"Review to determine if consolidation is appropriate.", count)
	default:
		return "No action recommended", "The detected similarity does not warrant refactoring."
	}
}
