package classify

import (
	"bufio"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ============================================================================
// BATCH — Classify every expression in a set of files
// ============================================================================

// FileMatch is the classification of one line of an expression file.
type FileMatch struct {
	Path       string `json:"path"`
	Line       int    `json:"line"`
	Expression string `json:"expression"`
	Match
}

// ClassifyFiles classifies each expression in the files of fsys matching
// pattern. Files hold one expression per line; blank lines and lines
// starting with '#' are skipped. Patterns support ** for recursive matches.
func ClassifyFiles(fsys fs.FS, pattern string) ([]FileMatch, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	paths, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var out []FileMatch
	for _, p := range paths {
		matches, err := classifyFile(fsys, p)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

func classifyFile(fsys fs.FS, path string) ([]FileMatch, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []FileMatch
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, FileMatch{Path: path, Line: n, Expression: line, Match: Explain(line)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}
