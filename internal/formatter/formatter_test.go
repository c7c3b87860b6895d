package formatter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T) string {
	t.Helper()
	workDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "src", "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "src", "pkg", "mod.py"), []byte("x=1\n"), 0644))
	return workDir
}

func TestFormatEligibility(t *testing.T) {
	workDir := newProject(t)
	f := New(Options{
		WorkDir: workDir,
		Dirs:    []string{"/src/", "/tests/"},
		Tools:   map[string][][]string{".py": {{"true"}}},
		Ignore:  NewIgnoreMatcher([]byte("src/generated/\n*.pyc\n")),
	})
	ctx := context.Background()

	tests := []struct {
		name   string
		path   string
		want   Outcome
		reason string
	}{
		{name: "python in src", path: "src/pkg/mod.py", want: Formatted},
		{name: "absolute python in src", path: filepath.Join(workDir, "src", "pkg", "mod.py"), want: Formatted},
		{name: "uppercase extension", path: "src/pkg/MOD.PY", want: Formatted},
		{name: "no tools for extension", path: "src/pkg/readme.md", want: Skipped, reason: "no formatter for extension"},
		{name: "outside formatted dirs", path: "scripts/tool.py", want: Skipped, reason: "not in a formatted directory"},
		{name: "gitignored", path: "src/generated/api.py", want: Skipped, reason: "ignored by .gitignore"},
		{name: "outside project", path: "/etc/src/evil.py", want: Skipped},
		{name: "empty path", path: "", want: Skipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.Format(ctx, tt.path)
			assert.Equal(t, tt.want, r.Outcome, "reason: %s", r.Reason)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, r.Reason)
			}
		})
	}
}

func TestFormatOutcomes(t *testing.T) {
	workDir := newProject(t)
	file := filepath.Join(workDir, "src", "pkg", "mod.py")
	ctx := context.Background()

	run := func(tools [][]string, timeout time.Duration) *Result {
		return New(Options{
			WorkDir: workDir,
			Timeout: timeout,
			Tools:   map[string][][]string{".py": tools},
		}).Format(ctx, file)
	}

	t.Run("any success formats", func(t *testing.T) {
		r := run([][]string{{"false"}, {"true"}}, time.Second)
		assert.Equal(t, Formatted, r.Outcome)
		assert.Equal(t, "✓ Formatted: mod.py", Message(r))
	})

	t.Run("all failures leave file unchanged", func(t *testing.T) {
		r := run([][]string{{"false"}, {"false"}}, time.Second)
		assert.Equal(t, Unchanged, r.Outcome)
		assert.Empty(t, Message(r))
	})

	t.Run("timeout stops the sequence", func(t *testing.T) {
		r := run([][]string{{"sh", "-c", "exec sleep 5"}, {"true"}}, 100*time.Millisecond)
		assert.Equal(t, TimedOut, r.Outcome)
		assert.Equal(t, "sh", r.Tool)
		assert.Equal(t, "⚠ Format timeout: mod.py", Message(r))
		assert.Less(t, r.Duration, 4*time.Second)
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		r := run([][]string{{"hookguard-no-such-formatter"}}, time.Second)
		assert.Equal(t, Error, r.Outcome)
		require.Error(t, r.Err)
		assert.Contains(t, Message(r), "⚠ Format error:")
	})

	t.Run("empty tool entries are skipped", func(t *testing.T) {
		r := run([][]string{{}, {"true"}}, time.Second)
		assert.Equal(t, Formatted, r.Outcome)
	})
}

func TestFormatPassesFileLast(t *testing.T) {
	workDir := newProject(t)
	f := New(Options{
		WorkDir: workDir,
		Tools:   map[string][][]string{".py": {{"ruff", "check", "--fix"}}},
	})

	var gotDir string
	var gotArgv []string
	f.run = func(ctx context.Context, dir string, argv []string) ([]byte, error) {
		gotDir, gotArgv = dir, argv
		return []byte("fixed 1 issue"), nil
	}

	r := f.Format(context.Background(), "src/pkg/mod.py")
	assert.Equal(t, Formatted, r.Outcome)
	assert.Equal(t, workDir, gotDir)
	assert.Equal(t, []string{"ruff", "check", "--fix", filepath.Join(workDir, "src", "pkg", "mod.py")}, gotArgv)
	assert.Equal(t, "fixed 1 issue", r.Output)
}

func TestFormatStartFailure(t *testing.T) {
	workDir := newProject(t)
	f := New(Options{WorkDir: workDir, Tools: map[string][][]string{".py": {{"black"}, {"ruff"}}}})

	calls := 0
	f.run = func(ctx context.Context, dir string, argv []string) ([]byte, error) {
		calls++
		return nil, errors.New("permission denied")
	}

	r := f.Format(context.Background(), "src/pkg/mod.py")
	assert.Equal(t, Error, r.Outcome)
	assert.Equal(t, "black", r.Tool)
	assert.Equal(t, 1, calls, "start failure stops the sequence")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "formatted", Formatted.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "timeout", TimedOut.String())
	assert.Equal(t, "error", Error.String())
}

func TestIgnoreMatcher(t *testing.T) {
	m := NewIgnoreMatcher([]byte("# comment\nbuild/\n*.log\n!keep.log\n"))

	assert.True(t, m.ShouldIgnore("build/out.py"))
	assert.True(t, m.ShouldIgnore("logs/debug.log"))
	assert.False(t, m.ShouldIgnore("keep.log"))
	assert.False(t, m.ShouldIgnore("src/app.py"))
	assert.False(t, m.ShouldIgnore(""))

	var nilMatcher *IgnoreMatcher
	assert.False(t, nilMatcher.ShouldIgnore("build/out.py"))
}

func TestLoadIgnoreMatcher(t *testing.T) {
	workDir := t.TempDir()

	m, err := LoadIgnoreMatcher(workDir)
	require.NoError(t, err)
	assert.False(t, m.ShouldIgnore("anything.py"))

	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".gitignore"), []byte("dist/\n"), 0644))
	m, err = LoadIgnoreMatcher(workDir)
	require.NoError(t, err)
	assert.True(t, m.ShouldIgnore("dist/pkg.py"))
}
