// Package overlay composites a foreground block onto an already rendered
// frame. Unlike lipgloss.Place, the rows around the block keep the frame's
// content, so the help overlay floats over the file list and diff panes
// instead of blanking them.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Place centers fg over bg within a width x height frame. Both strings may
// carry ANSI styling; splicing is width-aware so escape sequences on either
// side survive intact. A fg larger than the frame is clamped to its top-left
// rows.
func Place(width, height int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < height {
		bgLines = append(bgLines, strings.Repeat(" ", width))
	}

	x := (width - lipgloss.Width(fg)) / 2
	y := (height - len(fgLines)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = spliceRow(bgLines[row], fgLine, x)
	}

	return strings.Join(bgLines, "\n")
}

// spliceRow lays fgLine over bgLine starting at column x, keeping the
// background visible on both sides.
func spliceRow(bgLine, fgLine string, x int) string {
	left := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	end := x + ansi.StringWidth(fgLine)
	var right string
	if end < ansi.StringWidth(bgLine) {
		right = ansi.TruncateLeft(bgLine, end, "")
	}

	return left + fgLine + right
}
