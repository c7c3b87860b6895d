package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func rulesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule tables",
		Long: `Prints the protect and allow lists, the command rules and the safe
commands in effect for the project, after the project rule file is merged
with the built-in tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.openGuard(cmd)
			if err != nil {
				return err
			}
			defer g.Close()

			out := cmd.OutOrStdout()
			st := newStyles(out)

			source, err := g.Config.RulesPath(g.WorkDir)
			switch {
			case err != nil:
				source = fmt.Sprintf("%s (rejected: %v, built-in rules only)", g.Config.RulesFile, err)
			case source == "":
				source = "(none configured, built-in rules only)"
			default:
				if _, err := os.Stat(source); err != nil {
					source += " (not present, built-in rules only)"
				}
			}
			fmt.Fprintf(out, "%s %s\n", st.subtle.Render("rules file:"), source)

			paths := g.Paths.Rules()
			section(out, st, "Protect", paths.Protect)
			section(out, st, "Allow", paths.Allow)

			fmt.Fprintf(out, "\n%s\n", st.title.Render("Commands"))
			for _, r := range g.Commands.Rules() {
				action := st.warn.Render("warn ")
				if r.Block {
					action = st.block.Render("block")
				}
				fmt.Fprintf(out, "  %s  %s\n", action, r.Pattern.String())
				fmt.Fprintf(out, "         %s\n", st.subtle.Render(r.Message))
			}

			section(out, st, "Safe commands", g.Commands.SafeCommands())
			return nil
		},
	}
}

func section(w io.Writer, st styles, title string, items []string) {
	fmt.Fprintf(w, "\n%s\n", st.title.Render(title))
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n", st.subtle.Render("(none)"))
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}
