// Package classify implements the Pattern Classifier from spec.md
// §4.7: given a DuplicateGroup, decide whether its duplication is
// idiomatic noise, test boilerplate, a delegate method, or a genuine
// refactoring candidate.
package classify

import (
	"regexp"
	"strings"

	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/types"
)

// Category is one of the five classifier outcomes.
type Category string

const (
	IdiomaticGuard     Category = "IDIOMATIC_GUARD"
	IdiomaticDictBuild Category = "IDIOMATIC_DICT_BUILD"
	TestSetup          Category = "TEST_SETUP"
	DelegateMethod     Category = "DELEGATE_METHOD"
	Refactorable       Category = "REFACTORABLE"
)

// Classification is the classifier's verdict on one DuplicateGroup.
type Classification struct {
	Category           Category
	SuppressSuggestion bool
	Confidence         float64
	Reason             string
	Recommendation     string
}

// Classify applies spec.md §4.7's decision order, first match wins.
func Classify(group index.DuplicateGroup) Classification {
	if len(group.Entries) == 0 {
		return Classification{
			Category:       Refactorable,
			Confidence:     0.5,
			Reason:         "empty group",
			Recommendation: "no entries to act on",
		}
	}

	if allTestFiles(group.Entries) {
		return Classification{
			Category:           TestSetup,
			SuppressSuggestion: true,
			Confidence:         0.8,
			Reason:             "all entries live in test files",
			Recommendation:     "leave as-is; shared test setup is expected to repeat",
		}
	}

	if all(group.Entries, isGuardClause) {
		return Classification{
			Category:           IdiomaticGuard,
			SuppressSuggestion: true,
			Confidence:         0.85,
			Reason:             "short guard-clause shape",
			Recommendation:     "suppress; guard clauses are expected to recur",
		}
	}

	if all(group.Entries, isDictBuild) {
		return Classification{
			Category:           IdiomaticDictBuild,
			SuppressSuggestion: true,
			Confidence:         0.8,
			Reason:             "conditional dict/attribute assignment shape",
			Recommendation:     "suppress; this shape is idiomatic even when repeated",
		}
	}

	if countDelegateMethods(group.Entries) >= 2 {
		return Classification{
			Category:           DelegateMethod,
			SuppressSuggestion: true,
			Confidence:         0.7,
			Reason:             "delegate methods forwarding to another method with different arguments",
			Recommendation:     "suppress; consider only if the delegation itself grows duplicated logic",
		}
	}

	return Classification{
		Category:       Refactorable,
		Confidence:     0.6,
		Reason:         "no idiomatic pattern matched",
		Recommendation: "candidate for extraction",
	}
}

func allTestFiles(entries []index.IndexEntry) bool {
	for _, e := range entries {
		if !e.Unit.IsTestFile() {
			return false
		}
	}
	return true
}

func all(entries []index.IndexEntry, pred func(types.CodeUnit) bool) bool {
	for _, e := range entries {
		if !pred(e.Unit) {
			return false
		}
	}
	return true
}

var (
	walrusRe      = regexp.MustCompile(`:=`)
	oneLineIfRe   = regexp.MustCompile(`^if\s+.+:\s*(return|continue|break)\b`)
	bareNegGuard  = regexp.MustCompile(`^if\s+not\s+.+:\s*(return|continue|break)\b`)
	dictBuildRe   = regexp.MustCompile(`^if\s+.+:\s*[\w.]+\[.+\]\s*=\s*.+$`)
	setattrRe     = regexp.MustCompile(`^if\s+.+:\s*setattr\(.+\)$`)
	delegateCallRe = regexp.MustCompile(`^return\s+self\.\w+\(.*\)$`)
)

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func lineCount(code string) int {
	trimmed := strings.TrimRight(code, "\n")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "\n") + 1
}

// isGuardClause matches spec.md §4.7 rule 3: an `if` containing a
// walrus assignment, a 1-2 line if ending in return/continue/break,
// or a bare `if not <expr>: return/continue/break`.
func isGuardClause(u types.CodeUnit) bool {
	norm := normalize(u.Code)
	if !strings.HasPrefix(norm, "if") {
		return false
	}
	if walrusRe.MatchString(norm) {
		return true
	}
	if lineCount(u.Code) > 2 {
		return false
	}
	if bareNegGuard.MatchString(oneLine(norm)) {
		return true
	}
	return oneLineIfRe.MatchString(oneLine(norm))
}

// isDictBuild matches spec.md §4.7 rule 4: a 1-2 line
// `if <cond>: target[key] = expr` or `setattr(...)`.
func isDictBuild(u types.CodeUnit) bool {
	if lineCount(u.Code) > 2 {
		return false
	}
	norm := oneLine(normalize(u.Code))
	return dictBuildRe.MatchString(norm) || setattrRe.MatchString(norm)
}

// oneLine collapses a short multi-line snippet ("if x:\n    return")
// into a single line ("if x:return") so the single-line regexes
// above can match either written form.
func oneLine(s string) string {
	fields := strings.Fields(strings.ReplaceAll(s, "\n", " "))
	joined := strings.Join(fields, " ")
	return strings.ReplaceAll(joined, ": ", ":")
}

// countDelegateMethods counts entries that are methods whose body is
// a single `return self.other(...)` call.
func countDelegateMethods(entries []index.IndexEntry) int {
	n := 0
	for _, e := range entries {
		if e.Unit.UnitType != types.UnitMethod {
			continue
		}
		// A def line plus one statement line: nothing but the return.
		if lineCount(strings.TrimSpace(e.Unit.Code)) != 2 {
			continue
		}
		body := strings.TrimSpace(lastStatementLine(e.Unit.Code))
		if delegateCallRe.MatchString(strings.ToLower(body)) {
			n++
		}
	}
	return n
}

// lastStatementLine returns the final non-empty line of a short
// method body, which for a true delegate method is its only
// statement.
func lastStatementLine(code string) string {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
