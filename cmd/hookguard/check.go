package main

import (
	"fmt"
	"strings"

	"hookguard/internal/gates"

	"github.com/spf13/cobra"
)

func checkCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Classify paths or commands against the active rules",
	}
	cmd.AddCommand(checkPathCmd(opts))
	cmd.AddCommand(checkCommandCmd(opts))
	return cmd
}

func checkPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <path>...",
		Short: "Report whether each path is protected",
		Long: `Runs each path through the Path Gate. Exits with status 2 when any
path is protected, matching the PreToolUse hook.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.openGuard(cmd)
			if err != nil {
				return err
			}
			defer g.Close()

			log := opts.logger(cmd)
			st := newStyles(cmd.OutOrStdout())
			out := cmd.OutOrStdout()

			anyProtected := false
			for _, path := range args {
				d := g.Paths.Explain(path)
				log.Debug("path classified", "path", path, "normalized", d.Path, "protected", d.Protected)

				switch {
				case d.Protected:
					anyProtected = true
					fmt.Fprintf(out, "%s %s %s\n", st.block.Render("protected"), path,
						st.subtle.Render(fmt.Sprintf("(matches %q)", d.ProtectedBy)))
				case d.AllowedBy != "":
					fmt.Fprintf(out, "%s %s %s\n", st.allow.Render("allowed"), path,
						st.subtle.Render(fmt.Sprintf("(allow-listed by %q)", d.AllowedBy)))
				default:
					fmt.Fprintf(out, "%s %s\n", st.allow.Render("allowed"), path)
				}
			}

			if anyProtected {
				return &exitError{code: 2}
			}
			return nil
		},
	}
}

func checkCommandCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "command <command>",
		Short: "Report the Command Gate verdict for a shell command",
		Long: `Runs a shell command through the Command Gate and prints the same
report the PreToolUse hook would. Separate the command with -- when it
contains flags:

  hookguard check command -- git push --force origin main

Exits with status 2 when the command would be blocked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.openGuard(cmd)
			if err != nil {
				return err
			}
			defer g.Close()

			command := strings.Join(args, " ")
			v := g.Commands.Check(command)
			opts.logger(cmd).Debug("command classified", "command", command, "decision", v.Action())

			st := newStyles(cmd.OutOrStdout())
			out := cmd.OutOrStdout()

			lines := gates.ReportLines(command, v)
			if len(lines) == 0 {
				fmt.Fprintf(out, "%s %s\n", st.allow.Render("allowed"), command)
				return nil
			}
			for _, line := range lines {
				switch {
				case line == gates.BlockedLine:
					fmt.Fprintln(out, st.block.Render(line))
				case strings.HasPrefix(line, gates.WarningPrefix):
					fmt.Fprintln(out, st.warn.Render(line))
				default:
					fmt.Fprintln(out, st.subtle.Render(line))
				}
			}

			if v.Blocked {
				return &exitError{code: 2}
			}
			return nil
		},
	}
}
