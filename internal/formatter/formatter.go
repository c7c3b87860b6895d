// Package formatter runs code formatters on files the agent just wrote.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"hookguard/internal/validation"
)

// Outcome represents what happened to a file.
type Outcome int

const (
	// Skipped indicates the file was not eligible for formatting.
	Skipped Outcome = iota
	// Formatted indicates at least one tool succeeded.
	Formatted
	// Unchanged indicates every tool ran and none succeeded.
	Unchanged
	// TimedOut indicates a tool exceeded its timeout.
	TimedOut
	// Error indicates a tool could not be run.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Formatted:
		return "formatted"
	case Unchanged:
		return "unchanged"
	case TimedOut:
		return "timeout"
	default:
		return "error"
	}
}

// DefaultTimeout is the default per-tool timeout.
const DefaultTimeout = 10 * time.Second

// Result describes one Format call.
type Result struct {
	Outcome  Outcome
	File     string // absolute path
	Reason   string // why the file was skipped
	Tool     string // tool that timed out or failed to start
	Output   string // combined output of the last tool run
	Err      error
	Duration time.Duration
}

// Options configures a Formatter.
type Options struct {
	WorkDir string
	Timeout time.Duration
	// Dirs are path markers ("/src/"); the project-relative path, rooted at
	// "/", must contain one for the file to be formatted.
	// An empty list accepts every file.
	Dirs []string
	// Tools maps an extension (".py") to commands; the file path is appended.
	Tools map[string][][]string
	// Ignore, when set, skips files it matches.
	Ignore *IgnoreMatcher
}

// runFunc executes argv in dir and returns combined output.
type runFunc func(ctx context.Context, dir string, argv []string) ([]byte, error)

// Formatter runs the configured tools.
type Formatter struct {
	opts Options
	run  runFunc
}

// New creates a Formatter.
func New(opts Options) *Formatter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Formatter{opts: opts, run: execRun}
}

func execRun(ctx context.Context, dir string, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Children that inherit the output pipe must not outlive the timeout.
	cmd.WaitDelay = time.Second
	return cmd.CombinedOutput()
}

// Format runs every tool registered for the file's extension, in order.
// Tools run even if an earlier one failed; the file counts as formatted when
// any tool exits 0. A timeout or start failure stops the sequence.
func (f *Formatter) Format(ctx context.Context, filePath string) *Result {
	result := &Result{Outcome: Skipped}

	abs, rel, err := validation.ProjectPath(filePath, f.opts.WorkDir)
	if err != nil {
		result.Reason = "outside project: " + err.Error()
		return result
	}
	result.File = abs

	tools := f.opts.Tools[strings.ToLower(filepath.Ext(abs))]
	if len(tools) == 0 {
		result.Reason = "no formatter for extension"
		return result
	}

	// Markers match the project-relative path rooted at "/".
	if !f.inFormattedDir("/" + rel) {
		result.Reason = "not in a formatted directory"
		return result
	}

	if f.opts.Ignore.ShouldIgnore(rel) {
		result.Reason = "ignored by .gitignore"
		return result
	}

	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	succeeded := false
	for _, tool := range tools {
		if len(tool) == 0 {
			continue
		}
		argv := append(append([]string{}, tool...), abs)

		toolCtx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
		output, err := f.run(toolCtx, f.opts.WorkDir, argv)
		timedOut := errors.Is(toolCtx.Err(), context.DeadlineExceeded)
		cancel()

		result.Output = string(output)
		if timedOut {
			result.Outcome = TimedOut
			result.Tool = tool[0]
			result.Err = fmt.Errorf("%s timed out after %s", tool[0], f.opts.Timeout)
			return result
		}

		var exitErr *exec.ExitError
		switch {
		case err == nil:
			succeeded = true
		case errors.As(err, &exitErr):
			// Non-zero exit: the tool ran but reported problems.
		default:
			result.Outcome = Error
			result.Tool = tool[0]
			result.Err = err
			return result
		}
	}

	if succeeded {
		result.Outcome = Formatted
	} else {
		result.Outcome = Unchanged
	}
	return result
}

func (f *Formatter) inFormattedDir(path string) bool {
	if len(f.opts.Dirs) == 0 {
		return true
	}
	for _, dir := range f.opts.Dirs {
		if strings.Contains(path, dir) {
			return true
		}
	}
	return false
}

// Message returns the user-facing line for a result, or empty when there is
// nothing to say.
func Message(r *Result) string {
	name := filepath.Base(r.File)
	switch r.Outcome {
	case Formatted:
		return "✓ Formatted: " + name
	case TimedOut:
		return "⚠ Format timeout: " + name
	case Error:
		return fmt.Sprintf("⚠ Format error: %v", r.Err)
	default:
		return ""
	}
}
