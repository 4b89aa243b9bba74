package diffviewer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"stagewise/internal/diff"
	"stagewise/internal/git"
	"stagewise/internal/session"
	"stagewise/internal/ui/styles"
)

// lineNumberWidth is the width of one line number column in the gutter.
const lineNumberWidth = 4

// blameColWidth is the width of the blame author column when blame is on.
const blameColWidth = 12

// matchSpan is one search hit within a line, pre-resolved against the
// current match cursor.
type matchSpan struct {
	start, end int
	current    bool
}

// renderContext carries everything a single frame of the diff pane needs.
type renderContext struct {
	snap            session.Snapshot
	wordDiff        diff.FileWordDiff
	matches         map[diff.LineID][]matchSpan
	cursorRow       int // Row index of the keyboard cursor; -1 to hide
	showLineNumbers bool
	showBlame       bool
	blame           map[int]git.BlameLine
	tabWidth        int
}

// buildMatchIndex groups search matches by line, marking the current one.
func buildMatchIndex(search session.SearchState) map[diff.LineID][]matchSpan {
	if len(search.Matches) == 0 {
		return nil
	}
	index := make(map[diff.LineID][]matchSpan)
	for i, m := range search.Matches {
		index[m.LineID] = append(index[m.LineID], matchSpan{
			start:   m.Start,
			end:     m.End,
			current: i == search.Current,
		})
	}
	return index
}

// renderDiffRows renders the viewport's visible rows for the given mode,
// padding with blank rows to exactly vp.height entries.
func renderDiffRows(rc renderContext, vp viewport, width int, mode session.ViewMode) []string {
	file := rc.snap.File

	switch {
	case file == nil:
		msg := "No file selected"
		if rc.snap.Loading {
			msg = "Loading diff..."
		}
		return centeredRows(width, vp.height, msg)
	case file.IsBinary:
		return centeredRows(width, vp.height, "Binary file - cannot display diff")
	case len(file.Hunks) == 0:
		return centeredRows(width, vp.height, "No changes to display")
	}

	var rows []string
	if mode == session.ViewModeSplit {
		rows = renderSplitRows(rc, vp, width)
	} else {
		rows = renderUnifiedRows(rc, vp, width)
	}

	for len(rows) < vp.height {
		rows = append(rows, "")
	}
	return rows
}

// centeredRows renders a muted placeholder message centered in the pane.
func centeredRows(width, height int, msg string) []string {
	if height < 1 || width < 1 {
		return nil
	}
	block := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(msg)
	return strings.Split(block, "\n")
}

// renderUnifiedRows renders rows [vp.offset, vp.visibleEnd()) of the
// flattened unified line sequence.
func renderUnifiedRows(rc renderContext, vp viewport, width int) []string {
	file := rc.snap.File
	rows := make([]string, 0, vp.height)

	for row := vp.offset; row < vp.visibleEnd(); row++ {
		line, ok := file.LineAtFlattenedIndex(row)
		if !ok {
			break
		}
		rows = append(rows, rc.renderUnifiedLine(line, row == rc.cursorRow, width))
	}
	return rows
}

func (rc renderContext) renderUnifiedLine(line diff.Line, isCursor bool, width int) string {
	if line.Type == diff.LineHunkHeader {
		header := line.Content
		if lipgloss.Width(header) > width {
			header = ansi.Truncate(header, width, "...")
		}
		return styles.DiffHunkHeaderStyle.Render(header)
	}

	selected := rc.snap.IsSelected(line.ID)

	var sb strings.Builder
	sb.WriteString(rc.renderMarker(selected, isCursor))

	if rc.showBlame {
		sb.WriteString(rc.renderBlameCol(line))
	}

	gutterW := 1 // marker
	if rc.showBlame {
		gutterW += blameColWidth
	}
	if rc.showLineNumbers {
		sb.WriteString(rc.renderLineNumbers(line, selected))
		gutterW += 2*lineNumberWidth + 3 // "NNNN NNNN │ "
	}

	prefix, baseStyle, wordStyle := lineStyles(line.Type)

	var segments []diff.Segment
	if line.Stageable() {
		segments = rc.wordDiff.SegmentsForLine(line.ID.Hunk, line.ID.Pos, line.Type)
	}

	contentWidth := max(width-gutterW-1, 1) // -1 for the +/- prefix
	body := rc.renderContent(line, segments, baseStyle, wordStyle, selected)
	full := applyLineBackground(baseStyle, selected).Render(prefix) + body
	if lipgloss.Width(full) > contentWidth+1 {
		full = ansi.Truncate(full, contentWidth+1, "")
	}

	sb.WriteString(full)
	return sb.String()
}

// renderMarker renders the one-column selection/cursor indicator.
func (rc renderContext) renderMarker(selected, isCursor bool) string {
	switch {
	case selected:
		return styles.SelectionIndicatorStyle.Background(styles.SelectionBackgroundColor).Render("▌")
	case isCursor:
		return styles.LineNumberSelectedStyle.Render("›")
	default:
		return " "
	}
}

// renderBlameCol renders the blame author column for lines present in the
// old file. Lines without blame data (additions) get blank padding.
func (rc renderContext) renderBlameCol(line diff.Line) string {
	blank := strings.Repeat(" ", blameColWidth)
	if line.OldLineNum == 0 || rc.blame == nil {
		return blank
	}
	bl, ok := rc.blame[line.OldLineNum]
	if !ok {
		return blank
	}
	author := bl.Author
	if lipgloss.Width(author) > blameColWidth-1 {
		author = ansi.Truncate(author, blameColWidth-1, "…")
	}
	return lipgloss.NewStyle().Foreground(styles.TextMutedColor).
		Render(author + strings.Repeat(" ", blameColWidth-lipgloss.Width(author)))
}

// renderLineNumbers renders the "OLD NEW │ " gutter columns.
func (rc renderContext) renderLineNumbers(line diff.Line, selected bool) string {
	old := "    "
	if line.OldLineNum > 0 {
		old = fmt.Sprintf("%*d", lineNumberWidth, line.OldLineNum)
	}
	new_ := "    "
	if line.NewLineNum > 0 {
		new_ = fmt.Sprintf("%*d", lineNumberWidth, line.NewLineNum)
	}

	style := styles.LineNumberStyle
	if selected {
		style = styles.LineNumberSelectedStyle
	}
	return style.Render(old+" "+new_) + styles.LineNumberStyle.Render(" │ ")
}

// lineStyles returns the prefix character and the base/word-emphasis styles
// for a line type.
func lineStyles(t diff.LineType) (prefix string, base, word lipgloss.Style) {
	switch t {
	case diff.LineAddition:
		return "+", styles.DiffAddedStyle, styles.DiffWordAddedStyle
	case diff.LineDeletion:
		return "-", styles.DiffRemovedStyle, styles.DiffWordRemovedStyle
	default:
		return " ", styles.DiffContextStyle, styles.DiffContextStyle
	}
}

// applyLineBackground layers the selection background onto a base style.
func applyLineBackground(base lipgloss.Style, selected bool) lipgloss.Style {
	if selected {
		return base.Background(styles.SelectionBackgroundColor)
	}
	return base
}

// renderContent renders a line's content with word-diff segments, search
// match highlights, and the selection background layered in priority order:
// search match background wins over word-diff background, which wins over
// the selection background.
func (rc renderContext) renderContent(line diff.Line, segments []diff.Segment, base, word lipgloss.Style, selected bool) string {
	content := line.Content
	spans := rc.matches[line.ID]

	if len(segments) == 0 && len(spans) == 0 {
		return applyLineBackground(base, selected).Render(rc.expandTabs(content))
	}

	// Cut the content at every segment and span boundary, then style each
	// slice independently.
	cuts := map[int]struct{}{0: {}, len(content): {}}
	offset := 0
	segAt := make([]diff.SegmentType, len(content)+1)
	for i := range segAt {
		segAt[i] = diff.SegmentUnchanged
	}
	for _, seg := range segments {
		cuts[offset] = struct{}{}
		for i := offset; i < offset+len(seg.Text) && i < len(segAt); i++ {
			segAt[i] = seg.Type
		}
		offset += len(seg.Text)
		cuts[offset] = struct{}{}
	}
	for _, sp := range spans {
		cuts[sp.start] = struct{}{}
		cuts[sp.end] = struct{}{}
	}

	points := make([]int, 0, len(cuts))
	for p := range cuts {
		if p >= 0 && p <= len(content) {
			points = append(points, p)
		}
	}
	sort.Ints(points)

	var sb strings.Builder
	for i := 0; i+1 < len(points); i++ {
		lo, hi := points[i], points[i+1]
		if lo >= hi {
			continue
		}
		text := rc.expandTabs(content[lo:hi])

		style := base
		if len(segments) > 0 && lo < len(segAt) && segAt[lo] != diff.SegmentUnchanged {
			style = word
		}
		if selected {
			style = style.Background(styles.SelectionBackgroundColor)
		}
		if sp, ok := spanAt(spans, lo); ok {
			if sp.current {
				style = style.Background(styles.SearchMatchCurrentColor).Bold(true)
			} else {
				style = style.Background(styles.SearchMatchColor)
			}
		}
		sb.WriteString(style.Render(text))
	}
	return sb.String()
}

// spanAt returns the match span containing byte offset pos, if any.
func spanAt(spans []matchSpan, pos int) (matchSpan, bool) {
	for _, sp := range spans {
		if pos >= sp.start && pos < sp.end {
			return sp, true
		}
	}
	return matchSpan{}, false
}

func (rc renderContext) expandTabs(s string) string {
	if rc.tabWidth <= 0 || !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", rc.tabWidth))
}

// renderSplitRows renders rows [vp.offset, vp.visibleEnd()) of the
// side-by-side pair sequence. Hunks entirely outside the window are skipped
// without materializing their pairs.
func renderSplitRows(rc renderContext, vp viewport, width int) []string {
	file := rc.snap.File
	rows := make([]string, 0, vp.height)

	sideWidth := (width - 1) / 2
	contentWidth := max(sideWidth-sideBySideGutterWidth, 1)

	rowBase := 0
	for hi := range file.Hunks {
		hunk := file.Hunks[hi]
		count := len(diff.PairLines(hunk))
		if rowBase+count <= vp.offset {
			rowBase += count
			continue
		}
		if rowBase >= vp.visibleEnd() {
			break
		}

		pairs := diff.PairLines(hunk)
		for pi, pair := range pairs {
			row := rowBase + pi
			if row < vp.offset {
				continue
			}
			if row >= vp.visibleEnd() {
				break
			}
			rows = append(rows, rc.renderSplitRow(pair, row == rc.cursorRow, sideWidth, contentWidth))
		}
		rowBase += count
	}
	return rows
}

func (rc renderContext) renderSplitRow(pair diff.LinePair, isCursor bool, sideWidth, contentWidth int) string {
	separator := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(sideBySideSeparator)

	if pair.IsHunkHeader() {
		header := pair.Left.Content
		if lipgloss.Width(header) > sideWidth {
			header = ansi.Truncate(header, sideWidth, "...")
		}
		left := styles.DiffHunkHeaderStyle.Render(header)
		left += strings.Repeat(" ", max(sideWidth-lipgloss.Width(left), 0))
		return left + separator + strings.Repeat(" ", sideWidth)
	}

	left := rc.renderSplitSide(pair.Left, isCursor, contentWidth)
	right := rc.renderSplitSide(pair.Right, isCursor, contentWidth)
	return left + separator + right
}

// renderSplitSide renders one column of a side-by-side row at exactly
// gutter+content width. A nil line renders as blank padding.
func (rc renderContext) renderSplitSide(line *diff.Line, isCursor bool, contentWidth int) string {
	if line == nil {
		return strings.Repeat(" ", sideBySideGutterWidth+contentWidth)
	}

	lineNum := line.NewLineNum
	if line.Type == diff.LineDeletion {
		lineNum = line.OldLineNum
	}
	gutter := "     "
	if lineNum > 0 {
		gutter = fmt.Sprintf("%*d ", lineNumberWidth, lineNum)
	}
	gutterStyle := styles.LineNumberStyle
	if isCursor {
		gutterStyle = styles.LineNumberSelectedStyle
	}

	_, base, word := lineStyles(line.Type)
	selected := rc.snap.IsSelected(line.ID)

	var segments []diff.Segment
	if line.Stageable() {
		segments = rc.wordDiff.SegmentsForLine(line.ID.Hunk, line.ID.Pos, line.Type)
	}

	content := rc.renderContent(*line, segments, base, word, selected)
	if w := lipgloss.Width(content); w > contentWidth {
		content = ansi.Truncate(content, contentWidth, "")
	}
	if pad := contentWidth - lipgloss.Width(content); pad > 0 {
		content += applyLineBackground(base, selected).Render(strings.Repeat(" ", pad))
	}

	return gutterStyle.Render(gutter) + content
}

// hunkRowPositions returns the row index of every hunk header in the given
// view mode. Used for hunk navigation and the status bar indicator.
func hunkRowPositions(file *diff.FileDiff, mode session.ViewMode) []int {
	if file == nil || len(file.Hunks) == 0 {
		return nil
	}
	positions := make([]int, 0, len(file.Hunks))
	row := 0
	for i := range file.Hunks {
		positions = append(positions, row)
		if mode == session.ViewModeSplit {
			row += len(diff.PairLines(file.Hunks[i]))
		} else {
			row += len(file.Hunks[i].Lines)
		}
	}
	return positions
}

// rowOfLine returns the display row of a line in the given view mode, or
// -1 when the line is not part of the diff.
func rowOfLine(file *diff.FileDiff, id diff.LineID, mode session.ViewMode) int {
	if file == nil {
		return -1
	}
	if mode != session.ViewModeSplit {
		return file.FlattenedIndex(id)
	}

	row := 0
	for hi := range file.Hunks {
		if hi < id.Hunk {
			row += len(diff.PairLines(file.Hunks[hi]))
			continue
		}
		for pi, pair := range diff.PairLines(file.Hunks[hi]) {
			if (pair.Left != nil && pair.Left.ID == id) || (pair.Right != nil && pair.Right.ID == id) {
				return row + pi
			}
		}
		return -1
	}
	return -1
}

// totalRows returns the number of display rows for the file in the given
// view mode.
func totalRows(file *diff.FileDiff, mode session.ViewMode) int {
	if file == nil {
		return 0
	}
	if mode == session.ViewModeSplit {
		return diff.PairCount(file)
	}
	return file.TotalLines()
}
