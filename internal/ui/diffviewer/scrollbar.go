package diffviewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stagewise/internal/ui/styles"
)

const (
	scrollbarThumbChar = "█"
	scrollbarTrackChar = "░"
)

// scrollbarConfig configures scrollbar rendering for the diff pane.
type scrollbarConfig struct {
	TotalLines     int
	ViewportHeight int
	ScrollOffset   int
}

// thumbBounds returns the start row and height of the scroll thumb.
// Thumb height is proportional to the visible/total ratio with a minimum of
// one row; position is proportional within the remaining track.
func thumbBounds(cfg scrollbarConfig) (start, height int) {
	if cfg.TotalLines <= 0 || cfg.ViewportHeight <= 0 {
		return 0, 0
	}
	if cfg.TotalLines <= cfg.ViewportHeight {
		return 0, cfg.ViewportHeight
	}

	height = max(1, cfg.ViewportHeight*cfg.ViewportHeight/cfg.TotalLines)

	maxOffset := cfg.TotalLines - cfg.ViewportHeight
	track := cfg.ViewportHeight - height
	if maxOffset <= 0 || track <= 0 {
		return 0, height
	}

	start = track * cfg.ScrollOffset / maxOffset
	start = max(0, min(start, cfg.ViewportHeight-height))
	return start, height
}

// renderScrollbar renders a one-column scrollbar, height rows joined by
// newlines. Content that fits the viewport yields a blank column so the
// pane width stays stable.
func renderScrollbar(cfg scrollbarConfig) string {
	if cfg.ViewportHeight <= 0 || cfg.TotalLines <= 0 {
		return ""
	}

	if cfg.TotalLines <= cfg.ViewportHeight {
		lines := make([]string, cfg.ViewportHeight)
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	thumbStart, thumbHeight := thumbBounds(cfg)

	trackStyle := lipgloss.NewStyle().Foreground(styles.ScrollbarTrackColor)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.ScrollbarThumbColor)

	lines := make([]string, cfg.ViewportHeight)
	for row := range cfg.ViewportHeight {
		if row >= thumbStart && row < thumbStart+thumbHeight {
			lines[row] = thumbStyle.Render(scrollbarThumbChar)
		} else {
			lines[row] = trackStyle.Render(scrollbarTrackChar)
		}
	}

	return strings.Join(lines, "\n")
}
