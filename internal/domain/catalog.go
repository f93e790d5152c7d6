// Package domain holds the core mutation-testing engine: catalog generation,
// tree slots, scheduling and outcome aggregation.
package domain

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"sort"

	"github.com/varmint-dev/varmint/internal/adapter"
	"github.com/varmint-dev/varmint/internal/domain/mutagens"
	m "github.com/varmint-dev/varmint/internal/model"
)

// mutantGenerator inspects one AST node and emits the mutants it warrants.
type mutantGenerator func(n ast.Node, fset *token.FileSet, content []byte) []m.Mutant

// generators is the full rule table, one entry per genre.
var generators = []mutantGenerator{
	mutagens.GenerateArithmeticMutants,
	mutagens.GenerateComparisonMutants,
	mutagens.GenerateBooleanMutants,
	mutagens.GenerateLogicalMutants,
	mutagens.GenerateUnaryMutants,
	mutagens.GenerateNumberMutants,
	mutagens.GenerateStubMutants,
	mutagens.GenerateCaseArmMutants,
}

// containerGenres produce mutants whose span encloses other mutation sites.
// They are suppressed when a finer-grained mutant already lives inside, so
// catalog spans stay pairwise disjoint.
var containerGenres = map[m.Genre]struct{}{
	m.GenreStub:    {},
	m.GenreCaseArm: {},
}

// Catalog is the immutable result of source analysis: every mutant to run
// plus the pristine content of every file they touch.
type Catalog struct {
	Mutants []m.Mutant
	Files   map[m.Path][]byte
}

// CatalogOptions narrow which files and sites enter the catalog.
type CatalogOptions struct {
	// Exclude holds regex patterns matched against relative file paths.
	Exclude []string
	// Genres restricts generation to the named genres; empty means all.
	Genres []m.Genre
	// Scope, when non-nil, keeps only mutants on lines a diff touched.
	Scope *DiffScope
}

// CatalogBuilder turns a source tree into a mutant catalog.
type CatalogBuilder struct {
	fs     adapter.SourceFSAdapter
	parser adapter.GoFileAdapter
	logger *slog.Logger
}

// NewCatalogBuilder constructs a CatalogBuilder.
func NewCatalogBuilder(fs adapter.SourceFSAdapter, parser adapter.GoFileAdapter, logger *slog.Logger) *CatalogBuilder {
	return &CatalogBuilder{fs: fs, parser: parser, logger: logger}
}

// Build discovers, parses and mutates every eligible file under root.
// Files that fail to parse are skipped with a warning rather than aborting
// the run. The returned mutants are sorted by (file, span start, genre) and
// carry ordinals assigned after sorting, so the catalog is deterministic for
// a given tree.
func (b *CatalogBuilder) Build(ctx context.Context, root m.Path, opts CatalogOptions) (*Catalog, error) {
	paths, err := b.fs.Discover(ctx, root, opts.Exclude...)
	if err != nil {
		return nil, fmt.Errorf("discovering source files: %w", err)
	}

	catalog := &Catalog{Files: make(map[m.Path][]byte, len(paths))}
	wanted := genreFilter(opts.Genres)

	for _, relPath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := b.fs.ReadFile(ctx, b.fs.JoinPath(root, relPath))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", relPath, err)
		}

		fset := token.NewFileSet()

		file, err := b.parser.Parse(ctx, fset, string(relPath), content)
		if err != nil {
			b.logger.Warn("skipping unparsable file", "file", relPath, "error", err)

			continue
		}

		fileMutants := b.mutateFile(file, fset, relPath, content, wanted, opts.Scope)
		if len(fileMutants) == 0 {
			continue
		}

		catalog.Files[relPath] = content
		catalog.Mutants = append(catalog.Mutants, fileMutants...)
	}

	sortMutants(catalog.Mutants)

	catalog.Mutants = dropOverlaps(catalog.Mutants)
	for i := range catalog.Mutants {
		catalog.Mutants[i].Ordinal = i
	}

	return catalog, nil
}

func (b *CatalogBuilder) mutateFile(
	file *ast.File,
	fset *token.FileSet,
	relPath m.Path,
	content []byte,
	wanted map[m.Genre]struct{},
	scope *DiffScope,
) []m.Mutant {
	skips := buildSkipIndex(file, fset, content)

	var mutants []m.Mutant

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return false
		}

		for _, generate := range generators {
			for _, mu := range generate(n, fset, content) {
				if wanted != nil {
					if _, ok := wanted[mu.Genre]; !ok {
						continue
					}
				}

				mu.File = relPath
				mu.Function = b.parser.EnclosingFunction(file, n.Pos())

				if skips.excluded(mu.Genre, mu.Line, mu.Function) {
					continue
				}

				if scope != nil && !scope.Covers(relPath, mu.Line, lineOfOffset(fset, file, mu.Span.End)) {
					continue
				}

				mutants = append(mutants, mu)
			}
		}

		return true
	})

	return suppressContainers(mutants)
}

// suppressContainers drops stub and case-arm mutants whose span encloses a
// finer-grained mutant. A function body with mutable expressions inside is
// already exercised through them; stubbing it too would overlap their spans.
// Between two nested containers the smaller one wins.
func suppressContainers(mutants []m.Mutant) []m.Mutant {
	// The inner loop keeps reading the input, so filter into a fresh slice
	// rather than reusing its backing array.
	kept := make([]m.Mutant, 0, len(mutants))

	for i, mu := range mutants {
		if _, container := containerGenres[mu.Genre]; !container {
			kept = append(kept, mu)

			continue
		}

		enclosesOther := false

		for j, other := range mutants {
			if j == i || !mu.Span.Overlaps(other.Span) {
				continue
			}

			if other.Span.Len() < mu.Span.Len() {
				enclosesOther = true

				break
			}
		}

		if !enclosesOther {
			kept = append(kept, mu)
		}
	}

	return kept
}

// dropOverlaps enforces span disjointness on the sorted catalog. Container
// suppression should have removed every overlap already; anything left is a
// generator bug and the later mutant loses.
func dropOverlaps(mutants []m.Mutant) []m.Mutant {
	kept := mutants[:0]

	for _, mu := range mutants {
		if len(kept) > 0 {
			prev := kept[len(kept)-1]
			if prev.File == mu.File && prev.Span.Overlaps(mu.Span) {
				continue
			}
		}

		kept = append(kept, mu)
	}

	return kept
}

func sortMutants(mutants []m.Mutant) {
	sort.SliceStable(mutants, func(i, j int) bool {
		a, b := mutants[i], mutants[j]

		if a.File != b.File {
			return a.File < b.File
		}

		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}

		return a.Genre < b.Genre
	})
}

func genreFilter(genres []m.Genre) map[m.Genre]struct{} {
	if len(genres) == 0 {
		return nil
	}

	filter := make(map[m.Genre]struct{}, len(genres))
	for _, genre := range genres {
		filter[genre] = struct{}{}
	}

	return filter
}

func lineOfOffset(fset *token.FileSet, file *ast.File, offset int) int {
	tokFile := fset.File(file.Pos())
	if tokFile == nil || offset < 0 || offset > tokFile.Size() {
		return 0
	}

	return tokFile.Position(tokFile.Pos(offset)).Line
}
