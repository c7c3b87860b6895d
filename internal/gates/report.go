package gates

import "strings"

// Report line prefixes.
const (
	WarningPrefix = "⚠ "
	BlockedLine   = "❌ Command blocked (unsafe)"
	ProtectedIcon = "🔒"
)

// ReportLines renders a Command Gate verdict for the error channel.
//
// One line per message in order, then the command for reference, then a
// terminal line when the verdict blocks. A verdict without messages renders
// nothing. Rendering never changes the decision.
func ReportLines(command string, v Verdict) []string {
	if len(v.Messages) == 0 {
		return nil
	}

	lines := make([]string, 0, len(v.Messages)+2)
	for _, msg := range v.Messages {
		lines = append(lines, WarningPrefix+msg)
	}
	lines = append(lines, "  Command: "+command)
	if v.Blocked {
		lines = append(lines, BlockedLine)
	}
	return lines
}

// PathReportLines renders the explanation for a protected path.
func PathReportLines(path string) []string {
	return []string{
		ProtectedIcon + " Protected file (read-only): " + path,
		"   To modify, edit directly with your editor or ask explicitly.",
	}
}

// FormatReport joins report lines into a single newline-terminated block.
func FormatReport(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
