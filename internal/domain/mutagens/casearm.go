package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/varmint-dev/varmint/internal/model"
)

// GenerateCaseArmMutants removes one non-default case arm from a switch or
// type switch. Switches with a single arm are left alone since removing it
// degenerates to deleting the whole statement body.
func GenerateCaseArmMutants(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant {
	var body *ast.BlockStmt

	switch stmt := n.(type) {
	case *ast.SwitchStmt:
		body = stmt.Body
	case *ast.TypeSwitchStmt:
		body = stmt.Body
	default:
		return nil
	}

	if body == nil || len(body.List) < 2 {
		return nil
	}

	var mutants []m.Mutant

	for _, stmt := range body.List {
		clause, ok := stmt.(*ast.CaseClause)
		if !ok || clause.List == nil {
			// A nil List marks the default arm, which stays.
			continue
		}

		span, ok := spanBetween(fset, clause.Pos(), clause.End())
		if !ok {
			continue
		}

		mutants = append(mutants, newMutant(m.GenreCaseArm, fset, clause.Pos(), span, content, "")...)
	}

	return mutants
}
