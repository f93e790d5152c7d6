package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// GenerateBooleanMutants flips a boolean literal.
func GenerateBooleanMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	ident, ok := n.(*ast.Ident)
	if !ok {
		return nil
	}

	var flipped string

	switch ident.Name {
	case trueStr:
		flipped = falseStr
	case falseStr:
		flipped = trueStr
	default:
		return nil
	}

	start, ok := offsetForPos(fset, ident.Pos())
	if !ok {
		return nil
	}

	span := m.Span{Start: start, End: start + len(ident.Name)}

	return newMutant(m.GenreBoolean, fset, ident.Pos(), span, content, flipped)
}
