package mutagens

import (
	"go/ast"
	"go/token"
	"strings"

	m "github.com/varmint-dev/varmint/internal/model"
)

// GenerateStubMutants replaces a whole function body with a stub returning
// the zero value of each result. An empty body stubs to itself and is
// therefore never emitted.
func GenerateStubMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	fd, ok := n.(*ast.FuncDecl)
	if !ok || fd.Body == nil {
		return nil
	}

	// An empty body already is its own stub; emitting it would produce a
	// mutant textually equivalent to the original.
	if len(fd.Body.List) == 0 {
		return nil
	}

	span, ok := spanBetween(fset, fd.Body.Pos(), fd.Body.End())
	if !ok {
		return nil
	}

	replacement := stubBody(fd.Type.Results)

	return newMutant(m.GenreStub, fset, fd.Body.Pos(), span, content, replacement)
}

// stubBody renders the replacement body text for the given result list.
func stubBody(results *ast.FieldList) string {
	if results == nil || len(results.List) == 0 {
		return "{}"
	}

	zeros := make([]string, 0, results.NumFields())

	for _, field := range results.List {
		zero := zeroValueFor(field.Type)

		count := len(field.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			zeros = append(zeros, zero)
		}
	}

	return "{ return " + strings.Join(zeros, ", ") + " }"
}

// zeroValueFor picks a textual zero value for a result type expression.
// Only shapes detectable without type-checking are special-cased; everything
// else stubs to nil and is resolved as Unviable when that guess is wrong.
func zeroValueFor(expr ast.Expr) string {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return "nil"
	}

	switch ident.Name {
	case "string":
		return `""`
	case "bool":
		return "false"
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"byte", "rune":
		return "0"
	case "error":
		return "nil"
	default:
		return "nil"
	}
}
