// Package protocol handles JSON communication with Claude Code hooks.
// Hooks read one JSON request from stdin, answer with an exit status, and
// write any explanation to stderr. Post hooks may also write a JSON object
// to stdout.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
)

// Exit statuses understood by the hook runtime.
const (
	ExitAllow = 0
	ExitBlock = 2
)

// Tool names the hooks care about.
const (
	ToolBash         = "Bash"
	ToolWrite        = "Write"
	ToolEdit         = "Edit"
	ToolMultiEdit    = "MultiEdit"
	ToolNotebookEdit = "NotebookEdit"
)

var fileMutationTools = map[string]bool{
	ToolWrite:        true,
	ToolEdit:         true,
	ToolMultiEdit:    true,
	ToolNotebookEdit: true,
}

// IsFileMutation reports whether toolName writes or edits a file.
func IsFileMutation(toolName string) bool {
	return fileMutationTools[toolName]
}

// HookInput represents the JSON input from Claude Code to hooks
type HookInput struct {
	SessionID     string                 `json:"session_id"`
	HookEventName string                 `json:"hook_event_name,omitempty"`
	ToolName      string                 `json:"tool_name"`
	ToolInput     map[string]interface{} `json:"tool_input"`
	Cwd           string                 `json:"cwd,omitempty"`
}

// HookOutput represents the JSON output from hooks to Claude Code
type HookOutput struct {
	SystemMessage string `json:"systemMessage,omitempty"`
}

// FileInput is the part of a Write/Edit/NotebookEdit tool input we read.
type FileInput struct {
	FilePath     string `mapstructure:"file_path"`
	NotebookPath string `mapstructure:"notebook_path"`
}

// Path returns the target file, preferring file_path.
func (f FileInput) Path() string {
	if f.FilePath != "" {
		return f.FilePath
	}
	return f.NotebookPath
}

// CommandInput is the part of a Bash tool input we read.
type CommandInput struct {
	Command     string `mapstructure:"command"`
	Description string `mapstructure:"description"`
}

// ReadInput decodes one JSON request from r. The payload is never truncated.
// Empty input yields an empty HookInput.
func ReadInput(r io.Reader) (*HookInput, error) {
	var input HookInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return &HookInput{}, nil
		}
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &input, nil
}

// DecodeToolInput decodes tool_input into out, a pointer to a struct with
// mapstructure tags. Unknown keys are ignored; mistyped known keys fail.
func (h *HookInput) DecodeToolInput(out interface{}) error {
	if h.ToolInput == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(h.ToolInput); err != nil {
		return fmt.Errorf("invalid tool_input for %s: %w", h.ToolName, err)
	}
	return nil
}

// GetFilePath extracts the target file from tool input, returns empty string if not present
func (h *HookInput) GetFilePath() string {
	var in FileInput
	if err := h.DecodeToolInput(&in); err != nil {
		return ""
	}
	return in.Path()
}

// GetCommand extracts command from tool input (for Bash), returns empty string if not present
func (h *HookInput) GetCommand() string {
	var in CommandInput
	if err := h.DecodeToolInput(&in); err != nil {
		return ""
	}
	return in.Command
}

// WriteOutput writes JSON response to w
func WriteOutput(w io.Writer, output *HookOutput) error {
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// WriteEmpty writes an empty JSON object {} to w
func WriteEmpty(w io.Writer) error {
	_, err := io.WriteString(w, "{}")
	return err
}

// WriteMessage writes a system message (informational, not blocking)
func WriteMessage(w io.Writer, message string) error {
	return WriteOutput(w, &HookOutput{SystemMessage: message})
}

// WriteReport writes explanation text to the error channel. Nothing is
// written for an empty report.
func WriteReport(w io.Writer, report string) error {
	if report == "" {
		return nil
	}
	_, err := io.WriteString(w, report)
	return err
}
