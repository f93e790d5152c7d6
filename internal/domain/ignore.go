package domain

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"

	m "github.com/varmint-dev/varmint/internal/model"
)

// skipMarker is the pass-through exclusion directive. It is recognized purely
// syntactically inside comments and never alters compiled behavior:
//
//	//varmint:skip             skips everything in scope
//	//varmint:skip boolean     skips only the named genres
type skipMarker struct {
	all    bool
	genres map[string]struct{}
}

func (r skipMarker) skips(genre m.Genre) bool {
	if r.all {
		return true
	}

	if len(r.genres) == 0 {
		return false
	}

	_, ok := r.genres[strings.ToLower(string(genre))]

	return ok
}

func mergeSkipMarker(dst *skipMarker, src skipMarker) {
	if src.all {
		dst.all = true
		dst.genres = nil

		return
	}

	if dst.all || len(src.genres) == 0 {
		return
	}

	if dst.genres == nil {
		dst.genres = make(map[string]struct{}, len(src.genres))
	}

	for genre := range src.genres {
		dst.genres[genre] = struct{}{}
	}
}

func parseSkipDirective(commentText string) (skipMarker, bool) {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "//") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	rest, found := strings.CutPrefix(s, "varmint:skip")
	if !found {
		return skipMarker{}, false
	}

	// Reject lookalikes such as "varmint:skipped".
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return skipMarker{}, false
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return skipMarker{all: true}, true
	}

	parts := strings.Split(rest, ",")
	marker := skipMarker{genres: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		marker.genres[name] = struct{}{}
	}

	if len(marker.genres) == 0 {
		marker.all = true
		marker.genres = nil
	}

	return marker, true
}

// skipIndex resolves which genres are excluded at file, function and line
// granularity for one parsed source file.
type skipIndex struct {
	file       skipMarker
	funcByName map[string]skipMarker
	line       map[int]skipMarker
}

func buildSkipIndex(file *ast.File, fset *token.FileSet, content []byte) skipIndex {
	funcByName, funcDocGroups := buildFuncSkipMarkers(file)
	fileMarker := buildFileSkipMarker(file)
	lineMarkers := buildLineSkipMarkers(file, fset, content, funcDocGroups)

	return skipIndex{file: fileMarker, funcByName: funcByName, line: lineMarkers}
}

func (idx skipIndex) excluded(genre m.Genre, line int, funcName string) bool {
	if idx.file.skips(genre) {
		return true
	}

	if funcName != "" {
		if marker, ok := idx.funcByName[funcName]; ok && marker.skips(genre) {
			return true
		}
	}

	if marker, ok := idx.line[line]; ok && marker.skips(genre) {
		return true
	}

	return false
}

func buildFuncSkipMarkers(file *ast.File) (map[string]skipMarker, map[*ast.CommentGroup]struct{}) {
	funcByName := make(map[string]skipMarker)
	funcDocGroups := map[*ast.CommentGroup]struct{}{}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}

		funcDocGroups[fd.Doc] = struct{}{}

		var marker skipMarker

		for _, c := range fd.Doc.List {
			r, ok := parseSkipDirective(c.Text)
			if !ok {
				continue
			}

			mergeSkipMarker(&marker, r)
		}

		if marker.all || len(marker.genres) > 0 {
			funcByName[fd.Name.Name] = marker
		}
	}

	return funcByName, funcDocGroups
}

func buildFileSkipMarker(file *ast.File) skipMarker {
	var marker skipMarker

	for _, group := range file.Comments {
		if group.End() >= file.Package {
			continue
		}

		for _, c := range group.List {
			r, ok := parseSkipDirective(c.Text)
			if !ok {
				continue
			}

			mergeSkipMarker(&marker, r)
		}
	}

	return marker
}

func buildLineSkipMarkers(
	file *ast.File,
	fset *token.FileSet,
	content []byte,
	funcDocGroups map[*ast.CommentGroup]struct{},
) map[int]skipMarker {
	lineMarkers := make(map[int]skipMarker)
	lineStarts := computeLineStarts(content)

	for _, group := range file.Comments {
		if group.End() < file.Package {
			continue
		}

		if _, ok := funcDocGroups[group]; ok {
			continue
		}

		for _, c := range group.List {
			r, ok := parseSkipDirective(c.Text)
			if !ok {
				continue
			}

			pos := fset.PositionFor(c.Slash, true)
			if pos.Line <= 0 {
				continue
			}

			// A trailing comment shields its own line, a leading comment
			// shields the line below it.
			targetLine := pos.Line
			if isLeadingComment(pos.Line, pos.Offset, lineStarts, content) {
				targetLine = pos.Line + 1
			}

			current := lineMarkers[targetLine]
			mergeSkipMarker(&current, r)
			lineMarkers[targetLine] = current
		}
	}

	return lineMarkers
}

func computeLineStarts(content []byte) []int {
	starts := []int{0}

	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func isLeadingComment(line int, slashOffset int, lineStarts []int, content []byte) bool {
	if line <= 0 || line > len(lineStarts) {
		return false
	}

	start := lineStarts[line-1]
	if slashOffset < start || slashOffset > len(content) {
		return false
	}

	for _, b := range content[start:slashOffset] {
		if !unicode.IsSpace(rune(b)) {
			return false
		}
	}

	return true
}
