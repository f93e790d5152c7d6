package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

// GenerateNumberMutants replaces a numeric literal with a boundary value:
// zero becomes one, everything else becomes zero.
func GenerateNumberMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	lit, ok := n.(*ast.BasicLit)
	if !ok {
		return nil
	}

	if lit.Kind != token.INT && lit.Kind != token.FLOAT {
		return nil
	}

	replacement := "0"
	if isZeroLiteral(lit.Value) {
		replacement = "1"
	}

	start, ok := offsetForPos(fset, lit.Pos())
	if !ok {
		return nil
	}

	span := m.Span{Start: start, End: start + len(lit.Value)}

	return newMutant(m.GenreNumber, fset, lit.Pos(), span, content, replacement)
}

// isZeroLiteral reports whether every digit of the literal is zero, covering
// forms like 0, 00, 0.0 and 0e0.
func isZeroLiteral(value string) bool {
	seenDigit := false

	for _, r := range value {
		switch {
		case r == '0':
			seenDigit = true
		case r >= '1' && r <= '9':
			return false
		case r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-' || r == '_',
			r == 'x' || r == 'X' || r == 'o' || r == 'O' || r == 'b' || r == 'B':
			// Separators, base prefixes and exponent syntax carry no magnitude.
		default:
			return false
		}
	}

	return seenDigit
}
