package diffviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"stagewise/internal/ui/styles"
)

// statusIndicator returns the one-character change marker for a file entry.
func statusIndicator(f FileEntry) (string, lipgloss.Style) {
	switch {
	case f.Binary:
		return "B", lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	case f.Untracked:
		return "?", lipgloss.NewStyle().Foreground(styles.FileUntrackedColor)
	case f.Staged && !f.Unstaged:
		return "●", styles.FileStagedStyle
	case f.Staged && f.Unstaged:
		return "◐", lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	default:
		return "M", lipgloss.NewStyle().Foreground(styles.DiffHunkHeaderColor)
	}
}

// formatStats formats the "+N -N" display for a file list row.
func formatStats(additions, deletions int, binary bool) string {
	if binary {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("bin")
	}

	var parts []string
	if additions > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.DiffAddedColor).Render(fmt.Sprintf("+%d", additions)))
	}
	if deletions > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.DiffRemovedColor).Render(fmt.Sprintf("-%d", deletions)))
	}
	return strings.Join(parts, " ")
}

// renderFileRow renders one file list row at exactly the given width.
func renderFileRow(f FileEntry, selected, focused bool, width int) string {
	if width < 1 {
		return ""
	}

	indicator, indicatorStyle := statusIndicator(f)
	stats := formatStats(f.Additions, f.Deletions, f.Binary)
	statsWidth := lipgloss.Width(stats)

	// "indicator name stats", name truncated from the left so the filename
	// stays visible for deep paths.
	nameMax := max(width-2-statsWidth, 1)
	if statsWidth > 0 {
		nameMax--
	}
	name := styles.TruncatePath(f.Path, nameMax)
	padding := max(nameMax-lipgloss.Width(name), 0)

	if selected && focused {
		bg := styles.SelectionBackgroundColor
		space := lipgloss.NewStyle().Background(bg)
		nameStyle := lipgloss.NewStyle().Foreground(styles.FileSelectedColor).Background(bg).Bold(true)

		var sb strings.Builder
		sb.WriteString(indicatorStyle.Background(bg).Render(indicator))
		sb.WriteString(space.Render(" "))
		sb.WriteString(nameStyle.Render(name))
		sb.WriteString(space.Render(strings.Repeat(" ", padding)))
		if stats != "" {
			sb.WriteString(space.Render(" "))
			sb.WriteString(renderStatsWithBackground(f, bg))
		}
		return sb.String()
	}

	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	if selected {
		nameStyle = lipgloss.NewStyle().Foreground(styles.FileSelectedColor).Bold(true)
	}

	var sb strings.Builder
	sb.WriteString(indicatorStyle.Render(indicator))
	sb.WriteString(" ")
	sb.WriteString(nameStyle.Render(name))
	sb.WriteString(strings.Repeat(" ", padding))
	if stats != "" {
		sb.WriteString(" ")
		sb.WriteString(stats)
	}
	return sb.String()
}

// renderStatsWithBackground re-renders stats with the selection background
// so the highlight covers the whole row.
func renderStatsWithBackground(f FileEntry, bg lipgloss.AdaptiveColor) string {
	if f.Binary {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Background(bg).Render("bin")
	}

	addStyle := lipgloss.NewStyle().Foreground(styles.DiffAddedColor).Background(bg)
	delStyle := lipgloss.NewStyle().Foreground(styles.DiffRemovedColor).Background(bg)
	space := lipgloss.NewStyle().Background(bg)

	var parts []string
	if f.Additions > 0 {
		parts = append(parts, addStyle.Render(fmt.Sprintf("+%d", f.Additions)))
	}
	if f.Deletions > 0 {
		parts = append(parts, delStyle.Render(fmt.Sprintf("-%d", f.Deletions)))
	}
	return strings.Join(parts, space.Render(" "))
}

// renderFileList renders the file list pane content: the visible window of
// rows, padded to the full height.
func renderFileList(files []FileEntry, selected, scrollTop, width, height int, focused bool) []string {
	if height < 1 || width < 1 {
		return nil
	}
	if len(files) == 0 {
		return centeredRows(width, height, "No changes")
	}

	rows := make([]string, 0, height)
	end := min(scrollTop+height, len(files))
	for i := scrollTop; i < end; i++ {
		rows = append(rows, renderFileRow(files[i], i == selected, focused, width))
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return rows
}

// truncateMiddle shortens s to width, keeping the tail visible.
func truncateMiddle(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
