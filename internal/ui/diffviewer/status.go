package diffviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"stagewise/internal/session"
	"stagewise/internal/ui/styles"
)

// statusBarState collects the pieces shown in the bottom status bar.
type statusBarState struct {
	Branch      string
	Path        string
	Mode        session.ViewMode
	AreaStaged  bool
	Selected    int
	CurrentHunk int // 1-based; 0 when no hunks
	TotalHunks  int
	Search      session.SearchState
	Loading     bool
	Message     string // Transient info message
	Err         error
}

// renderStatusBar renders the one-line status bar at the given width.
func renderStatusBar(s statusBarState, width int) string {
	if width < 1 {
		return ""
	}

	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	accent := lipgloss.NewStyle().Foreground(styles.BorderFocusColor)
	errStyle := lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Bold(true)
	stagedStyle := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)

	var parts []string
	if s.Branch != "" {
		parts = append(parts, accent.Render(" "+s.Branch))
	}
	if s.AreaStaged {
		parts = append(parts, stagedStyle.Render("STAGED"))
	}
	if s.Path != "" {
		parts = append(parts, muted.Render(styles.TruncatePath(s.Path, width/3)))
	}
	parts = append(parts, muted.Render(strings.ToUpper(string(s.Mode))))

	if s.TotalHunks > 0 {
		if s.TotalHunks == 1 {
			parts = append(parts, muted.Render("1 hunk"))
		} else {
			parts = append(parts, muted.Render(fmt.Sprintf("hunk %d/%d", s.CurrentHunk, s.TotalHunks)))
		}
	}
	if s.Selected > 0 {
		parts = append(parts, accent.Render(fmt.Sprintf("%d selected", s.Selected)))
	}
	if s.Search.Query != "" {
		if len(s.Search.Matches) == 0 {
			parts = append(parts, muted.Render(fmt.Sprintf("/%s no matches", s.Search.Query)))
		} else {
			parts = append(parts, muted.Render(fmt.Sprintf("/%s %d/%d", s.Search.Query, s.Search.Current+1, len(s.Search.Matches))))
		}
	}
	if s.Loading {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.SpinnerColor).Render("⏳"))
	}

	switch {
	case s.Err != nil:
		parts = append(parts, errStyle.Render(truncateMiddle(s.Err.Error(), width/2)))
	case s.Message != "":
		parts = append(parts, muted.Render(s.Message))
	}

	bar := strings.Join(parts, muted.Render("  "))
	if lipgloss.Width(bar) > width {
		bar = ansi.Truncate(bar, width, "")
	}
	return styles.StatusBarStyle.Width(width).Render(bar)
}
