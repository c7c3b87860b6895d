// Package rules loads project rule overrides for the gates.
//
// A rule file is YAML and extends the built-in tables unless it sets
// replace: true:
//
//	replace: false
//	protect: ["infra/terraform.tfstate"]
//	allow: ["docs/"]
//	commands:
//	  - pattern: 'terraform\s+destroy'
//	    message: "Destructive: terraform destroy"
//	    block: true
//	safe_commands: ["terraform plan"]
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"hookguard/internal/gates"
)

// File is a parsed rule file.
type File struct {
	Replace      bool             `yaml:"replace"`
	Protect      []string         `yaml:"protect"`
	Allow        []string         `yaml:"allow"`
	Commands     []gates.RuleSpec `yaml:"commands"`
	SafeCommands []string         `yaml:"safe_commands"`
}

// Load reads a rule file. A missing file or empty path yields an empty File,
// which leaves the built-in tables untouched.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes rule file content. Unknown keys are rejected so that a
// misspelled section does not silently disable a rule.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// PathRules merges the file with the built-in path tables.
func (f *File) PathRules() gates.PathRules {
	if f.Replace {
		return gates.PathRules{Protect: f.Protect, Allow: f.Allow}
	}
	r := gates.DefaultPathRules()
	r.Protect = append(r.Protect, f.Protect...)
	r.Allow = append(r.Allow, f.Allow...)
	return r
}

// PathGate builds the Path Gate for this file.
func (f *File) PathGate() *gates.PathGate {
	return gates.NewPathGate(f.PathRules())
}

// RuleSpecs merges the file's command rules after the built-in ones.
func (f *File) RuleSpecs() []gates.RuleSpec {
	if f.Replace {
		return f.Commands
	}
	return append(gates.DefaultRuleSpecs(), f.Commands...)
}

// SafeCommandList merges the file's safe commands with the built-in ones.
func (f *File) SafeCommandList() []string {
	if f.Replace {
		return f.SafeCommands
	}
	return append(gates.DefaultSafeCommands(), f.SafeCommands...)
}

// CommandGate compiles the Command Gate for this file.
func (f *File) CommandGate() (*gates.CommandGate, error) {
	compiled, err := gates.CompileRules(f.RuleSpecs())
	if err != nil {
		return nil, err
	}
	return gates.NewCommandGate(compiled, f.SafeCommandList()), nil
}

// Example returns a commented rule file suitable for a new project.
func Example() []byte {
	return []byte(`# hookguard rule overrides. Entries extend the built-in tables;
# set "replace: true" to use only the entries below.
replace: false

# Literal substrings; a path containing one is read-only for the agent.
protect: []

# Literal substrings that override protect (checked first).
allow: []

# Regular expressions searched anywhere in a Bash command.
# block: true stops the command, block: false only warns.
commands: []
#  - pattern: 'terraform\s+destroy'
#    message: "Destructive: terraform destroy"
#    block: true

# Trimmed commands starting with one of these skip every rule.
safe_commands: []
`)
}
