package topquadrant

import "strings"

// The launcher scripts let log4j and SLF4J write to the same stream as the
// turtle payload. Diagnostic lines are recognized by these shapes rather
// than parsed: filtering is best effort and never fails.
var (
	diagnosticPrefixes = []string{
		"INFO ",
		"WARN ",
		"WARNING ",
		"WARNING:",
		"ERROR ",
		"ERROR:",
		"DEBUG ",
		"TRACE ",
		"SLF4J:",
		"log4j:",
	}
	diagnosticMarkers = []string{
		" INFO ",
		" WARN ",
		" ERROR ",
		" DEBUG ",
		" TRACE ",
	}
)

// SplitDiagnostics separates engine output into the graph payload and the
// diagnostic lines interleaved with it. Line order within each part is
// preserved.
func SplitDiagnostics(raw string) (data string, diagnostics []string) {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if isDiagnosticLine(line) {
			diagnostics = append(diagnostics, strings.TrimRight(line, "\r"))
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), diagnostics
}

func isDiagnosticLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, p := range diagnosticPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	for _, m := range diagnosticMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
