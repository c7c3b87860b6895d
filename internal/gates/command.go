package gates

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// CommandRule is a compiled Command Gate rule.
type CommandRule struct {
	Pattern *regexp.Regexp
	Message string
	Block   bool
}

// RuleSpec is the uncompiled form of a CommandRule, as written in rule files.
type RuleSpec struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
	Block   bool   `yaml:"block"`
}

// CompileRules compiles specs in order. The error names the offending rule.
func CompileRules(specs []RuleSpec) ([]CommandRule, error) {
	rules := make([]CommandRule, 0, len(specs))
	for i, spec := range specs {
		if spec.Pattern == "" {
			return nil, fmt.Errorf("rule %d: empty pattern", i)
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, spec.Pattern, err)
		}
		message := spec.Message
		if message == "" {
			message = "Command matches " + spec.Pattern
		}
		rules = append(rules, CommandRule{Pattern: re, Message: message, Block: spec.Block})
	}
	return rules, nil
}

// CommandGate checks shell commands against danger and style rules.
type CommandGate struct {
	rules []CommandRule
	safe  []string
}

// NewCommandGate builds a gate. safe holds exact prefixes that bypass every
// rule when the trimmed command starts with one of them.
func NewCommandGate(rules []CommandRule, safe []string) *CommandGate {
	return &CommandGate{
		rules: slices.Clone(rules),
		safe:  compactPatterns(safe),
	}
}

// Classify evaluates command and returns a fresh verdict.
//
// Rules use search semantics against the raw command and are independent of
// each other: every firing rule contributes its message, in table order, and
// the verdict blocks if any firing rule blocks.
func (g *CommandGate) Classify(command string) Verdict {
	if command == "" {
		return Verdict{}
	}

	trimmed := strings.TrimSpace(command)
	for _, prefix := range g.safe {
		if strings.HasPrefix(trimmed, prefix) {
			return Verdict{}
		}
	}

	var v Verdict
	for _, rule := range g.rules {
		if !rule.Pattern.MatchString(command) {
			continue
		}
		v.Messages = append(v.Messages, rule.Message)
		if rule.Block {
			v.Blocked = true
		}
	}
	return v
}

// Check is Classify behind a fault boundary. A panic inside the gate becomes
// a non-blocking verdict carrying a warning.
func (g *CommandGate) Check(command string) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = faultVerdict("command", r)
		}
	}()
	return g.Classify(command)
}

// Rules returns a copy of the rule table.
func (g *CommandGate) Rules() []CommandRule {
	return slices.Clone(g.rules)
}

// SafeCommands returns a copy of the exemption list.
func (g *CommandGate) SafeCommands() []string {
	return slices.Clone(g.safe)
}
