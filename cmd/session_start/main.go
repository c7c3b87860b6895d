// SessionStart hook tells the agent which guard rules are active.
//
// The summary lists the protected paths and the blocking command rules so the
// agent can avoid tripping them, and surfaces any config or rule file
// problems found while loading. It never blocks.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"hookguard/internal/guard"
	"hookguard/internal/protocol"
	"hookguard/internal/validation"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hookguard: %v\n", err)
	}
	os.Exit(0)
}

func run(stdin io.Reader, stdout io.Writer) error {
	// Input carries only the session source; a bad payload changes nothing.
	_, _ = protocol.ReadInput(stdin)

	g := guard.Open(context.Background(), validation.GetWorkDir())
	defer g.Close()

	msg := summary(g)
	g.Logger.Debug("session summary", "lines", strings.Count(msg, "\n")+1)
	return protocol.WriteMessage(stdout, msg)
}

func summary(g *guard.Guard) string {
	var b strings.Builder

	b.WriteString("[hookguard] Tool-call guard active.")

	if g.Config.ProtectFiles {
		paths := g.Paths.Rules()
		fmt.Fprintf(&b, "\nRead-only paths (substring match): %s", strings.Join(paths.Protect, ", "))
		if len(paths.Allow) > 0 {
			fmt.Fprintf(&b, "\nAlways writable: %s", strings.Join(paths.Allow, ", "))
		}
	}

	if g.Config.ValidateCommands {
		var blocking []string
		warnings := 0
		for _, r := range g.Commands.Rules() {
			if r.Block {
				blocking = append(blocking, r.Message)
			} else {
				warnings++
			}
		}
		if len(blocking) > 0 {
			fmt.Fprintf(&b, "\nBlocked commands: %s", strings.Join(blocking, "; "))
		}
		if warnings > 0 {
			fmt.Fprintf(&b, "\n%d more command rules only warn.", warnings)
		}
	}

	if g.Config.FormatFiles {
		b.WriteString("\nEdited files are auto-formatted after each write.")
	}

	for _, notice := range g.Notices {
		b.WriteString("\n" + notice)
	}

	return b.String()
}
