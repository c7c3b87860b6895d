// PreToolUse hook runs the decision gates before a tool call executes.
//
// - Write, Edit, MultiEdit, NotebookEdit: Path Gate on the target file
// - Bash: Command Gate on the command
//
// Exit 0 allows the call (warnings may be printed), exit 2 blocks it. All
// explanation text goes to stderr. Malformed input allows.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"hookguard/internal/gates"
	"hookguard/internal/guard"
	"hookguard/internal/journal"
	"hookguard/internal/protocol"
	"hookguard/internal/validation"
)

func main() {
	os.Exit(run(os.Stdin, os.Stderr))
}

func run(stdin io.Reader, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "%shookguard: internal error, allowing: %v\n", gates.WarningPrefix, r)
			code = protocol.ExitAllow
		}
	}()

	input, err := protocol.ReadInput(stdin)
	if err != nil {
		return protocol.ExitAllow
	}

	ctx := context.Background()
	g := guard.Open(ctx, validation.GetWorkDir())
	defer g.Close()

	for _, notice := range g.Notices {
		fmt.Fprintln(stderr, gates.WarningPrefix+notice)
	}

	switch {
	case protocol.IsFileMutation(input.ToolName):
		return checkFile(ctx, g, input, stderr)
	case input.ToolName == protocol.ToolBash:
		return checkCommand(ctx, g, input, stderr)
	case input.ToolName == "":
		// No tool name: classify whatever the payload carries.
		if input.GetCommand() != "" {
			return checkCommand(ctx, g, input, stderr)
		}
		return checkFile(ctx, g, input, stderr)
	default:
		return protocol.ExitAllow
	}
}

func checkFile(ctx context.Context, g *guard.Guard, input *protocol.HookInput, stderr io.Writer) int {
	if !g.Config.ProtectFiles {
		return protocol.ExitAllow
	}

	path := input.GetFilePath()
	if path == "" {
		return protocol.ExitAllow
	}

	protected, warning := g.Paths.Check(path)
	entry := journal.Entry{
		Hook:      journal.HookPreToolUse,
		SessionID: input.SessionID,
		ToolName:  input.ToolName,
		Subject:   path,
		Decision:  string(gates.ActionAllow),
	}
	if warning != "" {
		fmt.Fprintln(stderr, gates.WarningPrefix+warning)
		entry.Decision = string(gates.ActionWarn)
		entry.Messages = []string{warning}
	}
	if protected {
		entry.Decision = string(gates.ActionBlock)
	}

	g.Logger.Info("path checked", "tool", input.ToolName, "path", path, "decision", entry.Decision)
	g.Record(ctx, entry)

	if protected {
		protocol.WriteReport(stderr, gates.FormatReport(gates.PathReportLines(path)))
		return protocol.ExitBlock
	}
	return protocol.ExitAllow
}

func checkCommand(ctx context.Context, g *guard.Guard, input *protocol.HookInput, stderr io.Writer) int {
	if !g.Config.ValidateCommands {
		return protocol.ExitAllow
	}

	command := input.GetCommand()
	if command == "" {
		return protocol.ExitAllow
	}

	v := g.Commands.Check(command)
	action := v.Action()

	g.Logger.Info("command checked", "command", command, "decision", action, "messages", len(v.Messages))
	g.Record(ctx, journal.Entry{
		Hook:      journal.HookPreToolUse,
		SessionID: input.SessionID,
		ToolName:  input.ToolName,
		Subject:   command,
		Decision:  string(action),
		Messages:  v.Messages,
	})

	protocol.WriteReport(stderr, gates.FormatReport(gates.ReportLines(command, v)))

	if v.Blocked {
		return protocol.ExitBlock
	}
	return protocol.ExitAllow
}
