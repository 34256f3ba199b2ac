package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for terminal output.
const (
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
)

var (
	// SuccessStyle is for the generation summary.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// WarningStyle is for diagnostics.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// ErrorStyle is for fatal errors.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// SubtleStyle is for status lines such as the watch notice.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

const (
	iconSuccess = "✔"
	iconWarning = "⚠"
)

// formatBlock renders lines as an icon-led block; continuation lines are
// aligned under the first line's text.
func formatBlock(icon string, lines []string) string {
	lead := "  " + icon + " - "
	pad := strings.Repeat(" ", lipgloss.Width(lead))

	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(lead)
		} else {
			b.WriteString("\n")
			b.WriteString(pad)
		}
		b.WriteString(line)
	}
	return b.String()
}
