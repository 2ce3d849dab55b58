package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line in their current order:
//
//	unit: ERROR CST4001 1:4-9: message
//
// Notes follow on indented lines when includeNotes is set.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		if d.Unit != "" {
			sb.WriteString(d.Unit)
			sb.WriteString(": ")
		}
		fmt.Fprintf(&sb, "%s %s", d.Severity, d.Code.ID())
		if !d.Primary.Empty() {
			fmt.Fprintf(&sb, " %s", d.Primary)
		}
		fmt.Fprintf(&sb, ": %s\n", d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note: %s\n", n.Msg)
		}
	}
	return sb.String()
}
