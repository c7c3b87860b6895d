package main

import (
	"fmt"
	"os"
	"strings"

	"hookguard/internal/config"
	"hookguard/internal/journal"

	"github.com/spf13/cobra"
)

func journalCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent hook decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := opts.resolveWorkDir()
			if err != nil {
				return err
			}

			cfg, err := config.Load(workDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			path, err := cfg.GetJournalPath(workDir)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintf(out, "No journal at %s\n", path)
				fmt.Fprintln(out, "Enable it with 'hookguard init --journal' or \"journal\": {\"enabled\": true} in the config.")
				return nil
			}

			j, err := journal.Open(cmd.Context(), path, opts.logger(cmd))
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "Journal is empty")
				return nil
			}

			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-11s %-9s %-12s %s\n",
					st.subtle.Render(e.CreatedAt.Format("2006-01-02 15:04:05")),
					e.Hook,
					st.decision(e.Decision),
					e.ToolName,
					oneLine(e.Subject),
				)
				for _, msg := range e.Messages {
					fmt.Fprintf(out, "    %s\n", st.subtle.Render(msg))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", journal.DefaultLimit, "number of entries to show")
	return cmd
}

// oneLine keeps multi-line commands on a single output row.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", "⏎")
	if r := []rune(s); len(r) > 80 {
		s = string(r[:77]) + "..."
	}
	return s
}
