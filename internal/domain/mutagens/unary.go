package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

// unaryRemovals lists the unary operators whose removal yields a meaningful
// mutant. Unary plus is excluded because dropping it does not change
// behavior.
var unaryRemovals = map[token.Token]struct{}{
	token.NOT: {},
	token.SUB: {},
	token.XOR: {},
}

// GenerateUnaryMutants removes a negating unary operator, turning !x into x
// and -x into x.
func GenerateUnaryMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	unaryExpr, ok := n.(*ast.UnaryExpr)
	if !ok {
		return nil
	}

	if _, ok := unaryRemovals[unaryExpr.Op]; !ok {
		return nil
	}

	start, ok := offsetForPos(fset, unaryExpr.OpPos)
	if !ok {
		return nil
	}

	span := m.Span{Start: start, End: start + len(unaryExpr.Op.String())}

	return newMutant(m.GenreUnary, fset, unaryExpr.OpPos, span, content, "")
}
