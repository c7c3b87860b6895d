package formatter

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreMatcher matches project-relative paths against the root .gitignore.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// LoadIgnoreMatcher reads workDir/.gitignore. A missing file yields a
// matcher that never ignores.
func LoadIgnoreMatcher(workDir string) (*IgnoreMatcher, error) {
	path := filepath.Join(workDir, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &IgnoreMatcher{}, nil
		}
		return nil, fmt.Errorf("failed to read .gitignore at %s: %w", path, err)
	}
	return NewIgnoreMatcher(data), nil
}

// NewIgnoreMatcher parses gitignore content.
func NewIgnoreMatcher(content []byte) *IgnoreMatcher {
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return &IgnoreMatcher{}
	}
	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// ShouldIgnore reports whether the slash-separated relative path is ignored.
func (m *IgnoreMatcher) ShouldIgnore(relPath string) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	segments := splitPath(relPath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, false)
}

func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
