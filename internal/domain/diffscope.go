package domain

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	m "github.com/varmint-dev/varmint/internal/model"
)

// DiffScope narrows the eligible mutation sites to the lines a unified diff
// added or rewrote. Mutants outside those lines are filtered out of the
// catalog.
type DiffScope struct {
	ranges map[m.Path][]lineRange
}

type lineRange struct {
	start int
	end   int
}

// ParseDiffScope reads a unified diff and records, per touched file, the
// post-image line numbers of its added lines. Context and deletion lines
// advance or hold the position but are never recorded, so unchanged code
// inside a hunk stays out of scope. An empty diff yields a scope that covers
// nothing.
func ParseDiffScope(diff string) (*DiffScope, error) {
	scope := &DiffScope{ranges: make(map[m.Path][]lineRange)}

	var (
		current  m.Path
		nextLine int
		inHunk   bool
	)

	scanner := bufio.NewScanner(strings.NewReader(diff))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "+++ "):
			current = normalizeDiffPath(strings.TrimPrefix(line, "+++ "))
			inHunk = false

		case strings.HasPrefix(line, "@@ "):
			start, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}

			nextLine = start
			inHunk = current != "" && current != "/dev/null"

		case inHunk && strings.HasPrefix(line, "+"):
			scope.addLine(current, nextLine)
			nextLine++

		case inHunk && (line == "" || strings.HasPrefix(line, " ")):
			nextLine++

		case inHunk && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, `\`)):
			// Deletions and the no-newline marker do not advance the
			// post-image position.

		default:
			inHunk = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading diff: %w", err)
	}

	return scope, nil
}

// addLine records one added line, extending the previous range when the lines
// are contiguous.
func (s *DiffScope) addLine(path m.Path, line int) {
	ranges := s.ranges[path]

	if n := len(ranges); n > 0 && ranges[n-1].end == line-1 {
		ranges[n-1].end = line

		return
	}

	s.ranges[path] = append(ranges, lineRange{start: line, end: line})
}

// Covers reports whether any added line of the diff falls inside the given
// line range of the given file.
func (s *DiffScope) Covers(path m.Path, startLine, endLine int) bool {
	for _, r := range s.ranges[path] {
		if startLine <= r.end && r.start <= endLine {
			return true
		}
	}

	return false
}

// Empty reports whether the diff added no lines anywhere.
func (s *DiffScope) Empty() bool {
	return len(s.ranges) == 0
}

func normalizeDiffPath(field string) m.Path {
	path := field
	if i := strings.IndexByte(path, '\t'); i >= 0 {
		path = path[:i]
	}

	path = strings.TrimSpace(path)
	if path == "/dev/null" {
		return m.Path(path)
	}

	if rest, ok := strings.CutPrefix(path, "b/"); ok {
		path = rest
	} else if rest, ok := strings.CutPrefix(path, "a/"); ok {
		path = rest
	}

	return m.Path(path)
}

// parseHunkHeader extracts the post-image start line from a header of the
// form "@@ -oldStart,oldCount +newStart,newCount @@".
func parseHunkHeader(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || !strings.HasPrefix(fields[2], "+") {
		return 0, fmt.Errorf("malformed hunk header %q", line)
	}

	start := strings.TrimPrefix(fields[2], "+")
	if i := strings.IndexByte(start, ','); i >= 0 {
		start = start[:i]
	}

	startLine, err := strconv.Atoi(start)
	if err != nil {
		return 0, fmt.Errorf("malformed hunk header %q: %w", line, err)
	}

	return startLine, nil
}
