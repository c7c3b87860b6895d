// hookguard is the operator CLI for the hook gates: it classifies paths and
// commands the way the hooks would, prints the effective rule tables, lists
// the decision journal and scaffolds project configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"hookguard/internal/config"
	"hookguard/internal/guard"
	"hookguard/internal/logging"
	"hookguard/internal/validation"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// exitError carries a non-zero exit status without an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type rootOptions struct {
	workDir string
	verbose bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "hookguard",
		Short:         "Inspect and configure the agent tool-call gates",
		Long:          "hookguard checks paths and shell commands against the same rules the PreToolUse hook enforces.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.workDir, "workdir", "C", "", "project directory (default: $CLAUDE_PROJECT_DIR or current directory)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(checkCmd(opts))
	root.AddCommand(rulesCmd(opts))
	root.AddCommand(journalCmd(opts))
	root.AddCommand(initCmd(opts))

	return root
}

// resolveWorkDir returns the --workdir flag or the hook work directory.
func (o *rootOptions) resolveWorkDir() (string, error) {
	dir := o.workDir
	if dir == "" {
		dir = validation.GetWorkDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", validation.ErrInvalidWorkDir, dir)
	}
	if err := validation.ValidateWorkDir(abs); err != nil {
		return "", fmt.Errorf("%w: %s", err, dir)
	}
	return abs, nil
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := config.LevelWarn
	if o.verbose {
		level = config.LevelDebug
	}
	return logging.New(cmd.ErrOrStderr(), level)
}

// openGuard loads the guard for the work directory and prints its notices.
func (o *rootOptions) openGuard(cmd *cobra.Command) (*guard.Guard, error) {
	workDir, err := o.resolveWorkDir()
	if err != nil {
		return nil, err
	}

	g := guard.Open(cmd.Context(), workDir)
	st := newStyles(cmd.ErrOrStderr())
	for _, notice := range g.Notices {
		fmt.Fprintln(cmd.ErrOrStderr(), st.warn.Render(notice))
	}
	return g, nil
}
