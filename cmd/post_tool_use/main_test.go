package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hookguard/internal/config"
	"hookguard/internal/protocol"
)

func setupProject(t *testing.T, tools map[string][][]string) string {
	t.Helper()
	workDir := t.TempDir()
	t.Setenv("CLAUDE_PROJECT_DIR", workDir)
	if tools != nil {
		cfg := config.DefaultConfig()
		cfg.Formatter.Tools = tools
		cfg.Formatter.TimeoutSeconds = 1
		require.NoError(t, cfg.Save(workDir))
	}
	return workDir
}

func runHook(t *testing.T, payload string) (protocol.HookOutput, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(strings.NewReader(payload), &stdout, &stderr))

	var out protocol.HookOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), "stdout must be JSON: %q", stdout.String())
	return out, stderr.String()
}

func TestFormattedFileReportsMessage(t *testing.T) {
	setupProject(t, map[string][][]string{".py": {{"true"}}})

	out, stderr := runHook(t, `{"tool_name":"Write","tool_input":{"file_path":"src/app.py"}}`)
	assert.Equal(t, "✓ Formatted: app.py", out.SystemMessage)
	assert.Empty(t, stderr)
}

func TestIneligibleFilesAreQuiet(t *testing.T) {
	setupProject(t, map[string][][]string{".py": {{"true"}}})

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not in formatted dir", payload: `{"tool_name":"Edit","tool_input":{"file_path":"scripts/run.py"}}`},
		{name: "no formatter for extension", payload: `{"tool_name":"Edit","tool_input":{"file_path":"src/notes.md"}}`},
		{name: "non mutating tool", payload: `{"tool_name":"Read","tool_input":{"file_path":"src/app.py"}}`},
		{name: "bash", payload: `{"tool_name":"Bash","tool_input":{"command":"black src/app.py"}}`},
		{name: "malformed input", payload: `{oops`},
		{name: "missing path", payload: `{"tool_name":"Write","tool_input":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stderr := runHook(t, tt.payload)
			assert.Empty(t, out.SystemMessage)
			assert.Empty(t, stderr)
		})
	}
}

func TestFormatterFailuresGoToStderr(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		setupProject(t, map[string][][]string{".py": {{"hookguard-no-such-formatter"}}})

		out, stderr := runHook(t, `{"tool_name":"Write","tool_input":{"file_path":"src/app.py"}}`)
		assert.Empty(t, out.SystemMessage)
		assert.Contains(t, stderr, "⚠ Format error:")
	})

	t.Run("timeout", func(t *testing.T) {
		setupProject(t, map[string][][]string{".py": {{"sh", "-c", "exec sleep 5"}}})

		out, stderr := runHook(t, `{"tool_name":"Edit","tool_input":{"file_path":"tests/test_app.py"}}`)
		assert.Empty(t, out.SystemMessage)
		assert.Contains(t, stderr, "⚠ Format timeout: test_app.py")
	})

	t.Run("failing tools leave file unchanged", func(t *testing.T) {
		setupProject(t, map[string][][]string{".py": {{"false"}}})

		out, stderr := runHook(t, `{"tool_name":"Edit","tool_input":{"file_path":"src/app.py"}}`)
		assert.Empty(t, out.SystemMessage)
		assert.Empty(t, stderr)
	})
}

func TestFormattingDisabled(t *testing.T) {
	workDir := setupProject(t, nil)
	cfg := config.DefaultConfig()
	cfg.FormatFiles = false
	cfg.Formatter.Tools = map[string][][]string{".py": {{"true"}}}
	require.NoError(t, cfg.Save(workDir))

	out, _ := runHook(t, `{"tool_name":"Write","tool_input":{"file_path":"src/app.py"}}`)
	assert.Empty(t, out.SystemMessage)
}
