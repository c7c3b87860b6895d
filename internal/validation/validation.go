// Package validation provides security-focused input validation.
// Prevents path traversal, null byte injection, and other attacks.
package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Validation errors
var (
	ErrEmptyPath        = errors.New("path is empty")
	ErrNullByte         = errors.New("path contains null byte")
	ErrPathEscape       = errors.New("path escapes working directory")
	ErrInvalidWorkDir   = errors.New("invalid working directory")
	ErrSessionIDEmpty   = errors.New("session ID is empty")
	ErrSessionIDTooLong = errors.New("session ID too long")
	ErrSessionIDInvalid = errors.New("session ID contains invalid characters")
)

// MaxSessionIDLength is the maximum allowed session ID length
const MaxSessionIDLength = 128

// DefaultSessionID replaces session IDs that fail validation.
const DefaultSessionID = "default"

// Environment variables consulted by GetWorkDir, in order.
var workDirEnv = []string{"CLAUDE_PROJECT_DIR", "CLAUDE_WORKING_DIRECTORY"}

// ProjectPath resolves path against workDir and returns both the absolute
// path and its slash-separated form relative to workDir. Paths outside the
// project are rejected with ErrPathEscape.
func ProjectPath(path, workDir string) (abs, rel string, err error) {
	if path == "" {
		return "", "", ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return "", "", ErrNullByte
	}

	absWorkDir, err := filepath.Abs(workDir)
	if err != nil || workDir == "" {
		return "", "", ErrInvalidWorkDir
	}

	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Join(absWorkDir, path)
	}

	r, err := filepath.Rel(absWorkDir, abs)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", "", ErrPathEscape
	}

	return abs, filepath.ToSlash(r), nil
}

// ValidateWorkDir checks if a working directory is valid.
func ValidateWorkDir(workDir string) error {
	if workDir == "" || strings.ContainsRune(workDir, 0) || !filepath.IsAbs(workDir) {
		return ErrInvalidWorkDir
	}

	info, err := os.Stat(workDir)
	if err != nil || !info.IsDir() {
		return ErrInvalidWorkDir
	}

	return nil
}

// ValidateSessionID checks if a session ID is safe to store and display.
func ValidateSessionID(id string) error {
	if id == "" {
		return ErrSessionIDEmpty
	}

	if len(id) > MaxSessionIDLength {
		return ErrSessionIDTooLong
	}

	// Only allow alphanumeric, dash, underscore
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return ErrSessionIDInvalid
		}
	}

	return nil
}

// SessionIDOrDefault returns id when it is valid and DefaultSessionID otherwise.
func SessionIDOrDefault(id string) string {
	if ValidateSessionID(id) != nil {
		return DefaultSessionID
	}
	return id
}

// SafeJoin safely joins paths, ensuring result stays within base.
// Absolute components are treated as relative to base.
// Returns empty string if the result would escape base.
func SafeJoin(base string, paths ...string) string {
	if base == "" {
		return ""
	}

	result := filepath.Clean(base)
	for _, p := range paths {
		if strings.ContainsRune(p, 0) {
			return ""
		}
		result = filepath.Join(result, p)
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return ""
	}

	absResult, err := filepath.Abs(result)
	if err != nil {
		return ""
	}

	rel, err := filepath.Rel(absBase, absResult)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	return absResult
}

// GetWorkDir returns the project directory from the hook environment or the
// current directory.
func GetWorkDir() string {
	for _, name := range workDirEnv {
		if dir := os.Getenv(name); dir != "" {
			return dir
		}
	}
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return ""
}
