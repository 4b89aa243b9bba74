package diff

import "sort"

// Selection tracks the set of selected line identifiers within a single
// FileDiff. Only additions and deletions are selectable; attempts to select
// context or hunk-header lines are no-ops. A Selection is scoped to the
// currently displayed diff and is cleared whenever the diff changes.
type Selection struct {
	selected map[LineID]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{selected: make(map[LineID]struct{})}
}

// Toggle flips membership of the given line. Returns true if the selection
// changed (false for non-stageable lines).
func (s *Selection) Toggle(line Line) bool {
	if !line.Stageable() {
		return false
	}
	if _, ok := s.selected[line.ID]; ok {
		delete(s.selected, line.ID)
	} else {
		s.selected[line.ID] = struct{}{}
	}
	return true
}

// SelectRange replaces the selection with exactly the stageable lines in the
// closed interval [min(from,to), max(from,to)] over the hunk's line
// positions. Context lines inside the range are spanned but never selected.
// This backs drag selection.
func (s *Selection) SelectRange(hunk Hunk, from, to int) {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = max(lo, 0)
	hi = min(hi, len(hunk.Lines)-1)

	s.selected = make(map[LineID]struct{})
	for i := lo; i <= hi; i++ {
		if hunk.Lines[i].Stageable() {
			s.selected[hunk.Lines[i].ID] = struct{}{}
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.selected = make(map[LineID]struct{})
}

// Has reports whether the given line is selected.
func (s *Selection) Has(id LineID) bool {
	_, ok := s.selected[id]
	return ok
}

// Count returns the number of selected lines.
func (s *Selection) Count() int {
	return len(s.selected)
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.selected) == 0
}

// IDs returns the selected line identifiers in document order
// (hunk index, then position).
func (s *Selection) IDs() []LineID {
	ids := make([]LineID, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Hunk != ids[j].Hunk {
			return ids[i].Hunk < ids[j].Hunk
		}
		return ids[i].Pos < ids[j].Pos
	})
	return ids
}

// CanStage reports whether the selection can be staged: it must be
// non-empty and the displayed diff must show unstaged changes. Whether the
// displayed area is staged is supplied externally by the orchestrator.
func (s *Selection) CanStage(areaStaged bool) bool {
	return len(s.selected) > 0 && !areaStaged
}

// CanUnstage is the staged-side analogue of CanStage.
func (s *Selection) CanUnstage(areaStaged bool) bool {
	return len(s.selected) > 0 && areaStaged
}
