package diffviewer

// viewport tracks the scroll window over the diff pane's row sequence. It
// holds no content: row materialization happens in the renderer over the
// current window only, which keeps large diffs cheap to scroll.
type viewport struct {
	offset int // First visible row index
	height int // Visible rows
	total  int // Total rows in the current view mode
}

// setTotal updates the row count, re-clamping the offset.
func (v *viewport) setTotal(total int) {
	v.total = max(total, 0)
	v.clamp()
}

// setHeight updates the visible row count, re-clamping the offset.
func (v *viewport) setHeight(height int) {
	v.height = max(height, 0)
	v.clamp()
}

func (v *viewport) scrollUp(n int) {
	v.offset -= n
	v.clamp()
}

func (v *viewport) scrollDown(n int) {
	v.offset += n
	v.clamp()
}

func (v *viewport) pageUp()       { v.scrollUp(v.height) }
func (v *viewport) pageDown()     { v.scrollDown(v.height) }
func (v *viewport) halfPageUp()   { v.scrollUp(v.height / 2) }
func (v *viewport) halfPageDown() { v.scrollDown(v.height / 2) }

func (v *viewport) gotoTop() {
	v.offset = 0
}

func (v *viewport) gotoBottom() {
	v.offset = v.maxOffset()
}

// scrollTo puts the given row at the top of the viewport.
func (v *viewport) scrollTo(row int) {
	v.offset = row
	v.clamp()
}

// ensureVisible scrolls the minimum amount needed to bring row into view.
// Reports whether scrolling occurred.
func (v *viewport) ensureVisible(row int) bool {
	if row < 0 || row >= v.total {
		return false
	}
	old := v.offset
	if row < v.offset {
		v.offset = row
	}
	if row >= v.offset+v.height {
		v.offset = row - v.height + 1
	}
	v.clamp()
	return v.offset != old
}

// visibleEnd returns the exclusive end of the visible row range.
func (v *viewport) visibleEnd() int {
	return min(v.offset+v.height, v.total)
}

func (v *viewport) atTop() bool {
	return v.offset == 0
}

func (v *viewport) atBottom() bool {
	return v.offset >= v.maxOffset()
}

// scrollPercent returns the scroll position in [0, 1]; 0 when the content
// fits without scrolling.
func (v *viewport) scrollPercent() float64 {
	maxOff := v.maxOffset()
	if maxOff <= 0 {
		return 0
	}
	return float64(v.offset) / float64(maxOff)
}

func (v *viewport) clamp() {
	if v.offset < 0 {
		v.offset = 0
	}
	if maxOff := v.maxOffset(); v.offset > maxOff {
		v.offset = maxOff
	}
}

func (v *viewport) maxOffset() int {
	if v.total <= v.height {
		return 0
	}
	return v.total - v.height
}
