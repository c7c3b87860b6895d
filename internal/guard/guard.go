// Package guard assembles everything a hook invocation needs: configuration,
// the gates built from the rule tables, the logger and the optional journal.
//
// Open never fails. Every problem degrades to the built-in defaults and is
// reported through Notices, so a broken config can never block the agent.
package guard

import (
	"context"
	"fmt"
	"log/slog"

	"hookguard/internal/config"
	"hookguard/internal/formatter"
	"hookguard/internal/gates"
	"hookguard/internal/journal"
	"hookguard/internal/logging"
	"hookguard/internal/rules"
)

// Guard holds the per-process hook state. Gates are immutable once built.
type Guard struct {
	WorkDir  string
	Config   *config.Config
	Logger   *slog.Logger
	Paths    *gates.PathGate
	Commands *gates.CommandGate
	Notices  []string

	journal *journal.Journal
	closers []func() error
}

// Open loads configuration and rules for workDir.
func Open(ctx context.Context, workDir string) *Guard {
	g := &Guard{WorkDir: workDir, Logger: logging.Discard()}

	cfg, err := config.Load(workDir)
	if err != nil {
		g.notice("ignoring config file: %v", err)
		cfg = config.DefaultConfig()
	}
	g.Config = cfg

	g.openLogger()
	g.loadRules()

	if cfg.JournalEnabled() {
		j, err := g.openJournal(ctx)
		if err != nil {
			g.Logger.Warn("journal unavailable", "err", err)
			g.notice("journal disabled: %v", err)
		} else {
			g.journal = j
			g.closers = append(g.closers, j.Close)
		}
	}

	return g
}

func (g *Guard) openLogger() {
	if !g.Config.LoggingEnabled() {
		return
	}

	file, err := g.Config.GetLogFile(g.WorkDir)
	if err != nil {
		g.notice("logging disabled: %v", err)
		return
	}

	logger, closeLog, err := logging.Open(logging.Options{
		Enabled: true,
		Level:   g.Config.GetLogLevel(),
		File:    file,
	})
	if err != nil {
		g.notice("logging disabled: %v", err)
	}
	g.Logger = logger
	g.closers = append(g.closers, closeLog)
}

func (g *Guard) openJournal(ctx context.Context) (*journal.Journal, error) {
	path, err := g.Config.GetJournalPath(g.WorkDir)
	if err != nil {
		return nil, err
	}
	return journal.Open(ctx, path, g.Logger)
}

func (g *Guard) loadRules() {
	path, err := g.Config.RulesPath(g.WorkDir)
	if err != nil {
		g.Logger.Warn("rules file rejected, using built-in rules", "rules_file", g.Config.RulesFile, "err", err)
		g.notice("ignoring rules file %q: %v", g.Config.RulesFile, err)
		g.Paths = gates.DefaultPathGate()
		g.Commands = gates.DefaultCommandGate()
		return
	}

	file, err := rules.Load(path)
	if err != nil {
		g.Logger.Warn("rules file rejected, using built-in rules", "path", path, "err", err)
		g.notice("ignoring rules file: %v", err)
		file = &rules.File{}
	}

	g.Paths = file.PathGate()

	commands, err := file.CommandGate()
	if err != nil {
		g.Logger.Warn("command rules rejected, using built-in rules", "path", path, "err", err)
		g.notice("ignoring command rules: %v", err)
		commands = gates.DefaultCommandGate()
	}
	g.Commands = commands

	g.Logger.Debug("rules loaded",
		"path", path,
		"protect", len(g.Paths.Rules().Protect),
		"allow", len(g.Paths.Rules().Allow),
		"commands", len(g.Commands.Rules()),
	)
}

func (g *Guard) notice(format string, args ...interface{}) {
	g.Notices = append(g.Notices, "hookguard: "+fmt.Sprintf(format, args...))
}

// Journal returns the open journal, or nil when journaling is off.
func (g *Guard) Journal() *journal.Journal {
	return g.journal
}

// Record journals an entry when the journal is enabled. Failures are logged
// and otherwise ignored.
func (g *Guard) Record(ctx context.Context, e journal.Entry) {
	if g.journal == nil {
		return
	}
	if err := g.journal.Record(ctx, e); err != nil {
		g.Logger.Warn("journal write failed", "err", err)
	}
}

// Formatter builds the post-edit formatter from configuration.
func (g *Guard) Formatter() *formatter.Formatter {
	opts := formatter.Options{
		WorkDir: g.WorkDir,
		Timeout: g.Config.GetFormatterTimeout(),
		Dirs:    g.Config.GetFormatterDirs(),
		Tools:   g.Config.GetFormatterTools(),
	}
	if g.Config.ShouldRespectGitignore() {
		ignore, err := formatter.LoadIgnoreMatcher(g.WorkDir)
		if err != nil {
			g.Logger.Warn("gitignore unreadable, formatting without it", "err", err)
		}
		opts.Ignore = ignore
	}
	return formatter.New(opts)
}

// Close releases the journal and log file.
func (g *Guard) Close() {
	for i := len(g.closers) - 1; i >= 0; i-- {
		g.closers[i]()
	}
	g.closers = nil
}
