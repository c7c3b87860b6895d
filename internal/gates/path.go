package gates

import (
	"path/filepath"
	"slices"
	"strings"
)

// PathRules holds the literal substrings used by the Path Gate.
// Allow patterns always win over protect patterns.
type PathRules struct {
	Protect []string
	Allow   []string
}

// PathGate classifies paths as protected (read-only) or modifiable.
type PathGate struct {
	protect []string
	allow   []string
}

// PathDecision explains a Path Gate classification.
type PathDecision struct {
	Path        string // normalized form that was matched
	Protected   bool
	AllowedBy   string // allow pattern that matched, if any
	ProtectedBy string // protect pattern that matched, if any
}

// NewPathGate builds a gate from rules. Empty patterns are dropped since
// they would match every path.
func NewPathGate(rules PathRules) *PathGate {
	return &PathGate{
		protect: compactPatterns(rules.Protect),
		allow:   compactPatterns(rules.Allow),
	}
}

// NormalizePath returns the lexical form of path used for matching.
// It never touches the filesystem.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
}

// Classify reports whether path is protected.
func (g *PathGate) Classify(path string) bool {
	return g.Explain(path).Protected
}

// Explain classifies path and reports which pattern decided it.
func (g *PathGate) Explain(path string) PathDecision {
	d := PathDecision{Path: NormalizePath(path)}
	if d.Path == "" {
		return d
	}

	// Allow-list first: a narrow exception carves out of a broad protect pattern.
	for _, pattern := range g.allow {
		if strings.Contains(d.Path, pattern) {
			d.AllowedBy = pattern
			return d
		}
	}

	for _, pattern := range g.protect {
		if strings.Contains(d.Path, pattern) {
			d.Protected = true
			d.ProtectedBy = pattern
			return d
		}
	}

	return d
}

// Check is Classify behind a fault boundary. A panic inside the gate is
// reported as a warning and the path is treated as not protected.
func (g *PathGate) Check(path string) (protected bool, warning string) {
	defer func() {
		if r := recover(); r != nil {
			protected = false
			warning = faultVerdict("path", r).Messages[0]
		}
	}()
	return g.Classify(path), ""
}

// Rules returns a copy of the gate's tables.
func (g *PathGate) Rules() PathRules {
	return PathRules{
		Protect: slices.Clone(g.protect),
		Allow:   slices.Clone(g.allow),
	}
}

func compactPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
