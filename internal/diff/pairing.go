package diff

// LinePair is one row in the side-by-side view: an old-file line on the
// left, a new-file line on the right, either of which may be absent.
// This is a derived view; the hunk's own line order stays authoritative.
type LinePair struct {
	Left  *Line // Line from old file (nil for addition-only row)
	Right *Line // Line from new file (nil for deletion-only row)
}

// IsContext returns true if both sides carry the same unchanged line.
func (p LinePair) IsContext() bool {
	return p.Left != nil && p.Right != nil &&
		p.Left.Type == LineContext && p.Right.Type == LineContext
}

// IsDeletion returns true if only the left side has content.
func (p LinePair) IsDeletion() bool {
	return p.Left != nil && p.Right == nil && p.Left.Type == LineDeletion
}

// IsAddition returns true if only the right side has content.
func (p LinePair) IsAddition() bool {
	return p.Left == nil && p.Right != nil && p.Right.Type == LineAddition
}

// IsModification returns true if a deletion is paired with an addition.
func (p LinePair) IsModification() bool {
	return p.Left != nil && p.Right != nil &&
		p.Left.Type == LineDeletion && p.Right.Type == LineAddition
}

// IsHunkHeader returns true if this pair carries a hunk header row.
// Headers appear on the left side only.
func (p LinePair) IsHunkHeader() bool {
	return p.Left != nil && p.Left.Type == LineHunkHeader
}

// PairLines converts a hunk's line sequence into aligned pairs for
// side-by-side display:
//   - Context lines flush any pending deletion/addition runs and appear on
//     both sides.
//   - Runs of deletions and additions accumulate and are flushed slot by
//     slot, padding the shorter run with nil.
//
// Pairing is purely positional (slot i of the deletion run against slot i
// of the addition run), not content-aware: a hunk with unequal run lengths
// can visually align unrelated lines. That heuristic matches how most diff
// tools lay out side-by-side rows and is kept as-is.
//
// Every original line appears in exactly one pair slot; nothing is dropped
// or duplicated.
func PairLines(hunk Hunk) []LinePair {
	if len(hunk.Lines) == 0 {
		return nil
	}

	var pairs []LinePair
	var deletions, additions []int
	lines := hunk.Lines

	flush := func() {
		n := max(len(deletions), len(additions))
		for i := 0; i < n; i++ {
			var pair LinePair
			if i < len(deletions) {
				pair.Left = &lines[deletions[i]]
			}
			if i < len(additions) {
				pair.Right = &lines[additions[i]]
			}
			pairs = append(pairs, pair)
		}
		deletions = deletions[:0]
		additions = additions[:0]
	}

	for i := range lines {
		switch lines[i].Type {
		case LineHunkHeader:
			flush()
			pairs = append(pairs, LinePair{Left: &lines[i]})
		case LineContext:
			flush()
			pairs = append(pairs, LinePair{Left: &lines[i], Right: &lines[i]})
		case LineDeletion:
			deletions = append(deletions, i)
		case LineAddition:
			additions = append(additions, i)
		}
	}
	flush()

	return pairs
}

// PairCount returns the number of side-by-side rows PairLines would emit
// for the whole file, without materializing them. Used for viewport sizing.
func PairCount(f *FileDiff) int {
	total := 0
	for _, h := range f.Hunks {
		var del, add int
		flush := func() {
			total += max(del, add)
			del, add = 0, 0
		}
		for _, l := range h.Lines {
			switch l.Type {
			case LineHunkHeader, LineContext:
				flush()
				total++
			case LineDeletion:
				del++
			case LineAddition:
				add++
			}
		}
		flush()
	}
	return total
}
