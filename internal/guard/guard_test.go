package guard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hookguard/internal/config"
	"hookguard/internal/journal"
	"hookguard/internal/validation"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestOpenDefaults(t *testing.T) {
	workDir := t.TempDir()

	g := Open(context.Background(), workDir)
	defer g.Close()

	assert.Empty(t, g.Notices)
	assert.Nil(t, g.Journal())
	assert.True(t, g.Paths.Classify(".git/config"))
	assert.True(t, g.Commands.Classify("pip install x").Blocked)

	// Nothing is written to the project by default.
	_, err := os.Stat(filepath.Join(workDir, ".claude"))
	assert.True(t, os.IsNotExist(err))
}

func TestOpenWithRulesFile(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, config.DefaultRulesFile), `
protect: ["deploy/"]
commands:
  - pattern: 'kubectl\s+delete'
    message: "Destructive: kubectl delete"
    block: true
`)

	g := Open(context.Background(), workDir)
	defer g.Close()

	assert.Empty(t, g.Notices)
	assert.True(t, g.Paths.Classify("deploy/prod.yaml"))
	assert.True(t, g.Commands.Classify("kubectl delete ns prod").Blocked)
}

func TestOpenDegradesOnBrokenInputs(t *testing.T) {
	t.Run("broken config", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, config.Path(workDir), "{broken")

		g := Open(context.Background(), workDir)
		defer g.Close()

		require.Len(t, g.Notices, 1)
		assert.Contains(t, g.Notices[0], "ignoring config file")
		assert.Equal(t, config.DefaultConfig(), g.Config)
	})

	t.Run("broken rules yaml", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, filepath.Join(workDir, config.DefaultRulesFile), "protect: [unclosed")

		g := Open(context.Background(), workDir)
		defer g.Close()

		require.Len(t, g.Notices, 1)
		assert.Contains(t, g.Notices[0], "ignoring rules file")
		assert.True(t, g.Paths.Classify(".env"))
	})

	t.Run("bad regex keeps path rules", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, filepath.Join(workDir, config.DefaultRulesFile), `
protect: ["vault/"]
commands:
  - pattern: '(oops'
`)

		g := Open(context.Background(), workDir)
		defer g.Close()

		require.Len(t, g.Notices, 1)
		assert.Contains(t, g.Notices[0], "ignoring command rules")
		assert.True(t, g.Paths.Classify("vault/key"))
		assert.True(t, g.Commands.Classify("sudo rm -rf /").Blocked)
	})

	t.Run("rules file outside the project", func(t *testing.T) {
		root := t.TempDir()
		workDir := filepath.Join(root, "project")
		writeFile(t, filepath.Join(root, "shared.yaml"), `protect: ["vault/"]`)
		cfg := config.DefaultConfig()
		cfg.RulesFile = "../shared.yaml"
		require.NoError(t, cfg.Save(workDir))

		g := Open(context.Background(), workDir)
		defer g.Close()

		require.Len(t, g.Notices, 1)
		assert.Contains(t, g.Notices[0], `ignoring rules file "../shared.yaml"`)
		assert.Contains(t, g.Notices[0], validation.ErrPathEscape.Error())
		assert.False(t, g.Paths.Classify("vault/key"))
		assert.True(t, g.Paths.Classify(".env"))
		assert.True(t, g.Commands.Classify("pip install x").Blocked)
	})

	t.Run("log and journal outside the project", func(t *testing.T) {
		workDir := t.TempDir()
		cfg := config.DefaultConfig()
		cfg.Logging.Enabled = true
		cfg.Logging.File = "../hookguard.log"
		cfg.Journal.Enabled = true
		cfg.Journal.Path = "../journal.db"
		require.NoError(t, cfg.Save(workDir))

		g := Open(context.Background(), workDir)
		defer g.Close()

		require.Len(t, g.Notices, 2)
		assert.Contains(t, g.Notices[0], "logging disabled")
		assert.Contains(t, g.Notices[1], "journal disabled")
		for _, n := range g.Notices {
			assert.Contains(t, n, validation.ErrPathEscape.Error())
		}
		assert.Nil(t, g.Journal())

		_, err := os.Stat(filepath.Join(filepath.Dir(workDir), "journal.db"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestRecordWithJournal(t *testing.T) {
	workDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Journal.Enabled = true
	cfg.Logging.Enabled = true
	require.NoError(t, cfg.Save(workDir))

	ctx := context.Background()
	g := Open(ctx, workDir)
	require.Empty(t, g.Notices)
	require.NotNil(t, g.Journal())

	g.Record(ctx, journal.Entry{
		Hook:     journal.HookPreToolUse,
		ToolName: "Bash",
		Subject:  "git reset --hard",
		Decision: "warn",
		Messages: []string{"Destructive: Hard reset loses uncommitted work"},
	})

	entries, err := g.Journal().Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0].Decision)
	g.Close()

	_, err = os.Stat(filepath.Join(workDir, config.DefaultLogFile))
	assert.NoError(t, err, "log file created when logging is enabled")
}

func TestRecordWithoutJournalIsNoop(t *testing.T) {
	g := Open(context.Background(), t.TempDir())
	defer g.Close()
	g.Record(context.Background(), journal.Entry{Hook: journal.HookPreToolUse, Decision: "allow"})
}

func TestFormatterFromConfig(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ".gitignore"), "src/vendor/\n")
	cfg := config.DefaultConfig()
	cfg.Formatter.Tools = map[string][][]string{".py": {{"true"}}}
	require.NoError(t, cfg.Save(workDir))

	g := Open(context.Background(), workDir)
	defer g.Close()

	f := g.Formatter()
	assert.Equal(t, "formatted", f.Format(context.Background(), "src/app.py").Outcome.String())
	assert.Equal(t, "skipped", f.Format(context.Background(), "src/vendor/lib.py").Outcome.String())
}
