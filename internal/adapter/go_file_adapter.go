package adapter

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
)

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can focus
// on mutation rules while delegating compilation details to an infrastructure
// component.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and source bytes.
	// Comments are kept because skip directives live in them.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// EnclosingFunction returns the name of the function declaration covering
	// pos, or "" when pos sits outside any function.
	EnclosingFunction(file *ast.File, pos token.Pos) string
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.ParseComments)
}

// EnclosingFunction walks the file's declarations looking for the function
// whose extent covers pos.
func (a *LocalGoFileAdapter) EnclosingFunction(file *ast.File, pos token.Pos) string {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		if fd.Pos() <= pos && pos < fd.End() {
			return fd.Name.Name
		}
	}

	return ""
}
