// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	// Need to truncate - leave room for ellipsis
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	// Truncate rune by rune
	result := ""
	for _, r := range s {
		test := result + string(r)
		if lipgloss.Width(test) > maxWidth-3 {
			break
		}
		result = test
	}

	return result + "..."
}

// TruncatePath shortens a file path to fit maxWidth, preferring to drop
// leading directories over trailing characters so the file name stays
// visible: "internal/ui/diffviewer/renderer.go" -> ".../diffviewer/renderer.go".
func TruncatePath(path string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(path) <= maxWidth {
		return path
	}

	parts := strings.Split(path, "/")
	for len(parts) > 1 {
		parts = parts[1:]
		candidate := ".../" + strings.Join(parts, "/")
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return TruncateString(parts[0], maxWidth)
}
