// Package config handles loading and accessing hookguard configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hookguard/internal/validation"
)

// ConfigDirName is the project directory holding hook state
const ConfigDirName = ".claude"

// ConfigFileName is the name of the config file
const ConfigFileName = "hookguard.json"

// Defaults for project-relative paths.
const (
	DefaultRulesFile   = ".claude/hookguard-rules.yaml"
	DefaultLogFile     = ".claude/logs/hookguard.log"
	DefaultJournalPath = ".claude/hookguard.db"
)

// Log levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// DefaultFormatterTimeout bounds each formatter invocation.
const DefaultFormatterTimeout = 10 * time.Second

// Config represents the hookguard configuration
type Config struct {
	ProtectFiles     bool             `json:"protect_files"`
	ValidateCommands bool             `json:"validate_commands"`
	FormatFiles      bool             `json:"format_files"`
	RulesFile        string           `json:"rules_file"`
	Logging          *LoggingConfig   `json:"logging,omitempty"`
	Journal          *JournalConfig   `json:"journal,omitempty"`
	Formatter        *FormatterConfig `json:"formatter,omitempty"`
}

// LoggingConfig controls the hook log file.
type LoggingConfig struct {
	Enabled bool   `json:"enabled"`
	Level   string `json:"level"`
	File    string `json:"file"`
}

// JournalConfig controls the SQLite decision journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// FormatterConfig controls the post-edit formatter.
type FormatterConfig struct {
	TimeoutSeconds   int      `json:"timeout_seconds"`
	Dirs             []string `json:"dirs"`
	RespectGitignore bool     `json:"respect_gitignore"`
	// Tools maps a file extension to the commands run on it, in order.
	// The file path is appended to each command. A tools map in the config
	// file replaces the defaults as a whole.
	Tools map[string][][]string `json:"tools"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ProtectFiles:     true,
		ValidateCommands: true,
		FormatFiles:      true,
		RulesFile:        DefaultRulesFile,
		Logging: &LoggingConfig{
			Enabled: false,
			Level:   LevelInfo,
			File:    DefaultLogFile,
		},
		Journal: &JournalConfig{
			Enabled: false,
			Path:    DefaultJournalPath,
		},
		Formatter: &FormatterConfig{
			TimeoutSeconds:   int(DefaultFormatterTimeout / time.Second),
			Dirs:             []string{"/src/", "/tests/"},
			RespectGitignore: true,
			Tools: map[string][][]string{
				".py": {
					{"black"},
					{"ruff", "check", "--fix"},
				},
			},
		},
	}
}

// Path returns the config file location for workDir.
func Path(workDir string) string {
	return filepath.Join(workDir, ConfigDirName, ConfigFileName)
}

// Exists reports whether workDir has a config file.
func Exists(workDir string) bool {
	_, err := os.Stat(Path(workDir))
	return err == nil
}

// Load reads the config file from the given working directory.
// Returns default config if file doesn't exist.
func Load(workDir string) (*Config, error) {
	if workDir == "" {
		workDir = validation.GetWorkDir()
	}

	data, err := os.ReadFile(Path(workDir))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	config := DefaultConfig()

	// A configured tools map replaces the default one instead of merging
	// into it, so listing only ".go" stops formatting ".py".
	var raw struct {
		Formatter *struct {
			Tools json.RawMessage `json:"tools"`
		} `json:"formatter"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Formatter != nil && raw.Formatter.Tools != nil {
		config.Formatter.Tools = nil
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes the config to disk
func (c *Config) Save(workDir string) error {
	if workDir == "" {
		workDir = validation.GetWorkDir()
	}

	configDir := filepath.Join(workDir, ConfigDirName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(workDir), data, 0600)
}

// ResolvePath maps a configured, project-relative path into workDir.
// An empty p resolves to "" without error; a path that escapes workDir is
// rejected with validation.ErrPathEscape.
func ResolvePath(workDir, p string) (string, error) {
	if p == "" {
		return "", nil
	}
	resolved := validation.SafeJoin(workDir, p)
	if resolved == "" {
		return "", fmt.Errorf("%w: %s", validation.ErrPathEscape, p)
	}
	return resolved, nil
}

// RulesPath returns the absolute rules file location, or "" when no rules
// file is configured.
func (c *Config) RulesPath(workDir string) (string, error) {
	return ResolvePath(workDir, c.RulesFile)
}

// LoggingEnabled returns true if the hook log file is enabled
func (c *Config) LoggingEnabled() bool {
	return c.Logging != nil && c.Logging.Enabled
}

// GetLogLevel returns the configured log level
func (c *Config) GetLogLevel() string {
	if c.Logging != nil && c.Logging.Level != "" {
		return c.Logging.Level
	}
	return LevelInfo
}

// GetLogFile returns the absolute log file location
func (c *Config) GetLogFile(workDir string) (string, error) {
	if c.Logging != nil && c.Logging.File != "" {
		return ResolvePath(workDir, c.Logging.File)
	}
	return ResolvePath(workDir, DefaultLogFile)
}

// JournalEnabled returns true if decisions should be journaled
func (c *Config) JournalEnabled() bool {
	return c.Journal != nil && c.Journal.Enabled
}

// GetJournalPath returns the absolute journal database location
func (c *Config) GetJournalPath(workDir string) (string, error) {
	if c.Journal != nil && c.Journal.Path != "" {
		return ResolvePath(workDir, c.Journal.Path)
	}
	return ResolvePath(workDir, DefaultJournalPath)
}

// GetFormatterTimeout returns the per-tool formatter timeout
func (c *Config) GetFormatterTimeout() time.Duration {
	if c.Formatter != nil && c.Formatter.TimeoutSeconds > 0 {
		return time.Duration(c.Formatter.TimeoutSeconds) * time.Second
	}
	return DefaultFormatterTimeout
}

// GetFormatterDirs returns the path markers a file must contain to be formatted
func (c *Config) GetFormatterDirs() []string {
	if c.Formatter != nil && c.Formatter.Dirs != nil {
		return c.Formatter.Dirs
	}
	return DefaultConfig().Formatter.Dirs
}

// GetFormatterTools returns the formatter commands per extension
func (c *Config) GetFormatterTools() map[string][][]string {
	if c.Formatter != nil && c.Formatter.Tools != nil {
		return c.Formatter.Tools
	}
	return DefaultConfig().Formatter.Tools
}

// ShouldRespectGitignore returns whether gitignored files are skipped by the formatter
func (c *Config) ShouldRespectGitignore() bool {
	if c.Formatter != nil {
		return c.Formatter.RespectGitignore
	}
	return true
}

// SetLogLevel updates the log level, falling back to info for unknown values
func (c *Config) SetLogLevel(level string) {
	if c.Logging == nil {
		c.Logging = &LoggingConfig{File: DefaultLogFile}
	}
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		c.Logging.Level = level
	default:
		c.Logging.Level = LevelInfo
	}
}
