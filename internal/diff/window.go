package diff

import "math"

// VirtualizationThreshold is the line count above which only a window of
// lines is materialized for rendering. Smaller diffs are rendered whole to
// avoid windowing overhead.
const VirtualizationThreshold = 1000

// Range is a half-open interval [Lo, Hi) over the flattened line sequence.
type Range struct {
	Lo int
	Hi int
}

// Len returns the number of lines in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Contains reports whether idx falls within the range.
func (r Range) Contains(idx int) bool {
	return idx >= r.Lo && idx < r.Hi
}

// VisibleRange computes the window of line indices that must be
// materialized for a viewport, with overscan rows above and below the
// visible rows. All units are abstract: scrollOffset and viewportHeight are
// in the same unit as lineHeight (terminal callers pass lineHeight 1 with
// row offsets).
//
// The window is anchored on the first visible row: overscan extends up to
// overscan rows above it and overscan rows below the last visible row,
// clamped independently to [0, totalLines]. Clamping at the top does not
// push extra rows into the bottom. O(1), safe to call on every scroll or
// resize event.
func VisibleRange(totalLines int, scrollOffset, viewportHeight, lineHeight float64, overscan int) Range {
	if totalLines <= 0 || lineHeight <= 0 {
		return Range{}
	}

	firstRow := int(math.Floor(scrollOffset / lineHeight))
	visibleRows := int(math.Ceil(viewportHeight / lineHeight))

	lo := max(0, firstRow-overscan)
	hi := min(totalLines, firstRow+visibleRows+overscan)
	if hi < lo {
		hi = lo
	}
	return Range{Lo: lo, Hi: hi}
}

// WindowFor applies the virtualization activation threshold: diffs at or
// below VirtualizationThreshold lines are fully visible, larger diffs get
// the computed window.
func WindowFor(totalLines int, scrollOffset, viewportHeight, lineHeight float64, overscan int) Range {
	if totalLines <= VirtualizationThreshold {
		return Range{Lo: 0, Hi: max(totalLines, 0)}
	}
	return VisibleRange(totalLines, scrollOffset, viewportHeight, lineHeight, overscan)
}
