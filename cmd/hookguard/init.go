package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hookguard/internal/config"
	"hookguard/internal/rules"

	"github.com/spf13/cobra"
)

func initCmd(opts *rootOptions) *cobra.Command {
	var (
		force       bool
		withJournal bool
		withLog     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config and example rule file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := opts.resolveWorkDir()
			if err != nil {
				return err
			}

			if config.Exists(workDir) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", config.Path(workDir))
			}

			cfg := config.DefaultConfig()
			cfg.Journal.Enabled = withJournal
			cfg.Logging.Enabled = withLog
			if err := cfg.Save(workDir); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)
			fmt.Fprintf(out, "%s %s\n", st.allow.Render("created"), config.Path(workDir))

			rulesPath, err := cfg.RulesPath(workDir)
			if err != nil {
				return err
			}
			if _, err := os.Stat(rulesPath); err == nil && !force {
				fmt.Fprintf(out, "%s %s\n", st.subtle.Render("kept"), rulesPath)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(rulesPath), 0o700); err != nil {
				return err
			}
			if err := os.WriteFile(rulesPath, rules.Example(), 0o600); err != nil {
				return fmt.Errorf("write rules file: %w", err)
			}
			fmt.Fprintf(out, "%s %s\n", st.allow.Render("created"), rulesPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	cmd.Flags().BoolVar(&withJournal, "journal", false, "enable the decision journal")
	cmd.Flags().BoolVar(&withLog, "log", false, "enable the hook log file")
	return cmd
}
