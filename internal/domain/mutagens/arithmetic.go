package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

// arithmeticSwaps maps each arithmetic operator to its single canonical
// counterpart. One replacement per site keeps mutant spans disjoint.
var arithmeticSwaps = map[token.Token]token.Token{
	token.ADD: token.SUB,
	token.SUB: token.ADD,
	token.MUL: token.QUO,
	token.QUO: token.MUL,
	token.REM: token.MUL,
}

// GenerateArithmeticMutants swaps the operator of an arithmetic binary
// expression.
func GenerateArithmeticMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	swapped, ok := arithmeticSwaps[binExpr.Op]
	if !ok {
		return nil
	}

	start, ok := offsetForPos(fset, binExpr.OpPos)
	if !ok {
		return nil
	}

	span := m.Span{Start: start, End: start + len(binExpr.Op.String())}

	return newMutant(m.GenreArithmetic, fset, binExpr.OpPos, span, content, swapped.String())
}
