// PostToolUse hook formats files after the agent edits them.
//
// Runs after Write, Edit, MultiEdit and NotebookEdit. Eligible files are
// passed through the configured formatter chain and a short system message
// reports the result. The hook never blocks.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"hookguard/internal/formatter"
	"hookguard/internal/guard"
	"hookguard/internal/journal"
	"hookguard/internal/protocol"
	"hookguard/internal/validation"
)

func main() {
	if err := run(os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "hookguard: %v\n", err)
	}
	os.Exit(0)
}

func run(stdin io.Reader, stdout, stderr io.Writer) error {
	input, err := protocol.ReadInput(stdin)
	if err != nil {
		return protocol.WriteEmpty(stdout)
	}

	if !protocol.IsFileMutation(input.ToolName) {
		return protocol.WriteEmpty(stdout)
	}

	ctx := context.Background()
	g := guard.Open(ctx, validation.GetWorkDir())
	defer g.Close()

	if !g.Config.FormatFiles {
		return protocol.WriteEmpty(stdout)
	}

	path := input.GetFilePath()
	if path == "" {
		return protocol.WriteEmpty(stdout)
	}

	r := g.Formatter().Format(ctx, path)
	g.Logger.Info("format",
		"file", path,
		"outcome", r.Outcome.String(),
		"reason", r.Reason,
		"duration", r.Duration,
	)

	if r.Outcome != formatter.Skipped {
		entry := journal.Entry{
			Hook:      journal.HookPostToolUse,
			SessionID: input.SessionID,
			ToolName:  input.ToolName,
			Subject:   path,
			Decision:  r.Outcome.String(),
		}
		if msg := formatter.Message(r); msg != "" {
			entry.Messages = []string{msg}
		}
		g.Record(ctx, entry)
	}

	switch r.Outcome {
	case formatter.Formatted:
		return protocol.WriteMessage(stdout, formatter.Message(r))
	case formatter.TimedOut, formatter.Error:
		fmt.Fprintln(stderr, formatter.Message(r))
	}
	return protocol.WriteEmpty(stdout)
}
