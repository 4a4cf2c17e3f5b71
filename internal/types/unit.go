// Package types holds the data model shared across the astograph
// pipeline: extracted code units and the enums that classify them.
package types

import "fmt"

// UnitType classifies a CodeUnit.
type UnitType string

const (
	UnitFunction UnitType = "function"
	UnitMethod   UnitType = "method"
	UnitClass    UnitType = "class"
	UnitBlock    UnitType = "block"
)

// BlockType enumerates the control-flow statements the extractor
// descends into when block extraction is enabled.
type BlockType string

const (
	BlockFor       BlockType = "for"
	BlockWhile     BlockType = "while"
	BlockIf        BlockType = "if"
	BlockTry       BlockType = "try"
	BlockWith      BlockType = "with"
	BlockAsyncFor  BlockType = "async_for"
	BlockAsyncWith BlockType = "async_with"
)

// CodeUnit is a named, extractable region of source: a function, a
// method, a class, or (optionally) a nested control-flow block.
//
// CodeUnit is immutable once constructed; re-indexing a file drops and
// rebuilds all of its units.
type CodeUnit struct {
	Name     string
	Code     string
	FilePath string

	LineStart int
	LineEnd   int

	UnitType UnitType

	// ParentName is the enclosing class for a method, or the enclosing
	// function for a block. Empty for top-level functions and classes.
	ParentName string

	// BlockType and NestingDepth are set only when UnitType == UnitBlock.
	BlockType    BlockType
	NestingDepth int

	// ParentBlockName is the name of the immediately enclosing block,
	// empty if the block sits directly inside the function body.
	ParentBlockName string
}

// Key returns the identity tuple the extraction-uniqueness invariant
// is defined over: (file_path, line_start, line_end, name).
func (u CodeUnit) Key() string {
	return fmt.Sprintf("%s:%d:%d:%s", u.FilePath, u.LineStart, u.LineEnd, u.Name)
}

// LineCount returns the inclusive line span of the unit.
func (u CodeUnit) LineCount() int {
	return u.LineEnd - u.LineStart + 1
}

// IsTestFile reports whether the unit's file path looks like a test
// file under the Pattern Classifier / Recommendation Engine's shared
// convention (see isTestPath in testpath.go).
func (u CodeUnit) IsTestFile() bool {
	return isTestPath(u.FilePath)
}
