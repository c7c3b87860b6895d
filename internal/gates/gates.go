// Package gates implements the decision gates that run before a tool call.
//
// The Path Gate decides whether a file may be written or edited. The Command
// Gate checks a shell command against danger and style rules. Both are pure
// classifiers over rule tables that are built once and never mutated, so a
// gate value can be shared across goroutines.
package gates

import "fmt"

// GateAction represents the action to take
type GateAction string

const (
	ActionAllow GateAction = "allow"
	ActionWarn  GateAction = "warn"
	ActionBlock GateAction = "block"
)

// Verdict is the result of a single gate evaluation.
type Verdict struct {
	Blocked  bool
	Messages []string
}

// Action collapses the verdict into allow, warn or block.
func (v Verdict) Action() GateAction {
	switch {
	case v.Blocked:
		return ActionBlock
	case len(v.Messages) > 0:
		return ActionWarn
	default:
		return ActionAllow
	}
}

// faultVerdict maps a recovered panic to allow-with-warning.
func faultVerdict(gate string, r interface{}) Verdict {
	return Verdict{
		Messages: []string{fmt.Sprintf("%s check failed, allowing: %v", gate, r)},
	}
}
