package model

import "fmt"

// Genre represents the category of a mutation.
type Genre string

const (
	// GenreArithmetic swaps an arithmetic operator (+, -, *, /, %).
	GenreArithmetic Genre = "arithmetic"
	// GenreComparison flips a comparison operator to its negation.
	GenreComparison Genre = "comparison"
	// GenreBoolean flips a boolean literal (true <-> false).
	GenreBoolean Genre = "boolean"
	// GenreLogical swaps a logical operator (&& <-> ||).
	GenreLogical Genre = "logical"
	// GenreUnary removes a negating unary operator (!, unary -, ^).
	GenreUnary Genre = "unary"
	// GenreNumber replaces a numeric literal with a boundary value.
	GenreNumber Genre = "number"
	// GenreStub replaces a function body with a zero-value stub.
	GenreStub Genre = "stub"
	// GenreCaseArm removes one case arm from a switch statement.
	GenreCaseArm Genre = "case-arm"
)

// Span is a half-open byte range [Start, End) into a source file.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Mutant is a single candidate source edit. Mutants are immutable once
// generated; Ordinal is the stable position used for final report ordering
// regardless of execution order.
type Mutant struct {
	Ordinal     int
	File        Path
	Span        Span
	Line        int
	Column      int
	Original    string
	Replacement string
	Genre       Genre
	Function    string
}

// Describe returns the human-readable one-line description handed to
// reporting collaborators.
func (mu Mutant) Describe() string {
	return fmt.Sprintf("%s:%d:%d: %s: replace %q with %q in %s",
		mu.File, mu.Line, mu.Column, mu.Genre, mu.Original, mu.Replacement, mu.Function)
}
