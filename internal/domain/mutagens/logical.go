package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

// logicalSwaps maps each logical operator to its counterpart.
var logicalSwaps = map[token.Token]token.Token{
	token.LAND: token.LOR,
	token.LOR:  token.LAND,
}

// GenerateLogicalMutants swaps the operator of a logical binary expression.
func GenerateLogicalMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	swapped, ok := logicalSwaps[binExpr.Op]
	if !ok {
		return nil
	}

	start, ok := offsetForPos(fset, binExpr.OpPos)
	if !ok {
		return nil
	}

	span := m.Span{Start: start, End: start + len(binExpr.Op.String())}

	return newMutant(m.GenreLogical, fset, binExpr.OpPos, span, content, swapped.String())
}
