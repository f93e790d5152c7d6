package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

// comparisonNegations maps each comparison operator to its logical negation.
var comparisonNegations = map[token.Token]token.Token{
	token.LSS: token.GEQ,
	token.GTR: token.LEQ,
	token.LEQ: token.GTR,
	token.GEQ: token.LSS,
	token.EQL: token.NEQ,
	token.NEQ: token.EQL,
}

// GenerateComparisonMutants flips a comparison operator to its negation.
func GenerateComparisonMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	negated, ok := comparisonNegations[binExpr.Op]
	if !ok {
		return nil
	}

	start, ok := offsetForPos(fset, binExpr.OpPos)
	if !ok {
		return nil
	}

	span := m.Span{Start: start, End: start + len(binExpr.Op.String())}

	return newMutant(m.GenreComparison, fset, binExpr.OpPos, span, content, negated.String())
}
