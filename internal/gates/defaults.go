package gates

import "slices"

var defaultProtect = []string{
	".git/",
	".gitignore",
	"pyproject.toml",
	"uv.lock",
	".env",
	".env.local",
	".env.secret",
	"secrets",
	"credentials",
	"API_KEY",
	".claude/hooks/",        // hooks must not rewrite themselves
	".claude/settings.json", // nor the settings that enable them
	"CLAUDE.md",
}

var defaultAllow = []string{
	".claude/skills/",
	".claude/README.md",
	".claude/docs/",
}

var defaultCommandSpecs = []RuleSpec{
	{
		Pattern: `pip\s+(install|uninstall|add)`,
		Message: "Use 'uv add' or 'uv sync' instead of pip",
		Block:   true,
	},
	{
		Pattern: `python\s+-m\s+pip`,
		Message: "Use 'uv add' instead of 'python -m pip'",
		Block:   true,
	},
	{
		Pattern: `python3?\s+-m\s+pip`,
		Message: "Use 'uv add' instead of 'pip'",
		Block:   true,
	},
	{
		Pattern: `(sudo\s+)?rm\s+-rf\s+/`,
		Message: "Dangerous: Cannot delete system root",
		Block:   true,
	},
	{
		Pattern: `(sudo\s+)?chmod\s+-R\s+777`,
		Message: "Insecure: chmod 777 exposes files to everyone",
		Block:   false,
	},
	{
		Pattern: `git\s+push\s+--force`,
		Message: "Dangerous: Use '--force-with-lease' instead of '--force'",
		Block:   false,
	},
	{
		Pattern: `git\s+reset\s+--hard`,
		Message: "Destructive: Hard reset loses uncommitted work",
		Block:   false,
	},
}

var defaultSafeCommands = []string{
	"uv pip list",   // read-only
	"uv pip freeze", // read-only
}

// Compiled once at startup; the tables above are literals and must compile.
var defaultCommandRules = mustCompile(defaultCommandSpecs)

func mustCompile(specs []RuleSpec) []CommandRule {
	rules, err := CompileRules(specs)
	if err != nil {
		panic(err)
	}
	return rules
}

// DefaultPathRules returns a copy of the built-in protect and allow lists.
func DefaultPathRules() PathRules {
	return PathRules{
		Protect: slices.Clone(defaultProtect),
		Allow:   slices.Clone(defaultAllow),
	}
}

// DefaultRuleSpecs returns a copy of the built-in command rules.
func DefaultRuleSpecs() []RuleSpec {
	return slices.Clone(defaultCommandSpecs)
}

// DefaultCommandRules returns the built-in command rules, compiled.
func DefaultCommandRules() []CommandRule {
	return slices.Clone(defaultCommandRules)
}

// DefaultSafeCommands returns a copy of the built-in exemption list.
func DefaultSafeCommands() []string {
	return slices.Clone(defaultSafeCommands)
}

// DefaultPathGate returns a Path Gate over the built-in tables.
func DefaultPathGate() *PathGate {
	return NewPathGate(DefaultPathRules())
}

// DefaultCommandGate returns a Command Gate over the built-in tables.
func DefaultCommandGate() *CommandGate {
	return NewCommandGate(defaultCommandRules, defaultSafeCommands)
}
