// Package mutagens provides the per-genre rule tables that turn AST nodes
// into candidate mutants.
package mutagens

import (
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

// offsetForPos converts a token position to a byte offset in the file it
// belongs to.
func offsetForPos(fset *token.FileSet, pos token.Pos) (int, bool) {
	file := fset.File(pos)
	if file == nil {
		return 0, false
	}

	return file.Offset(pos), true
}

// spanBetween builds the byte span covered by [start, end).
func spanBetween(fset *token.FileSet, start, end token.Pos) (m.Span, bool) {
	startOff, ok := offsetForPos(fset, start)
	if !ok {
		return m.Span{}, false
	}

	endOff, ok := offsetForPos(fset, end)
	if !ok || endOff < startOff {
		return m.Span{}, false
	}

	return m.Span{Start: startOff, End: endOff}, true
}

// newMutant assembles a mutant for the given span. File, function and ordinal
// are filled in later by the catalog builder. Candidates whose replacement
// equals the original are dropped here so no-op edits never reach execution.
func newMutant(genre m.Genre, fset *token.FileSet, pos token.Pos, span m.Span, content []byte, replacement string) []m.Mutant {
	if span.Start < 0 || span.End > len(content) {
		return nil
	}

	original := string(content[span.Start:span.End])
	if original == replacement {
		return nil
	}

	position := fset.Position(pos)

	return []m.Mutant{{
		Span:        span,
		Line:        position.Line,
		Column:      position.Column,
		Original:    original,
		Replacement: replacement,
		Genre:       genre,
	}}
}
