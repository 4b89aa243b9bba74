package session

import (
	"stagewise/internal/diff"
)

// ViewMode selects how the diff pane lays out its lines.
type ViewMode string

const (
	ViewModeUnified ViewMode = "unified"
	ViewModeSplit   ViewMode = "split"
)

// Valid reports whether the mode is one of the known layouts.
func (m ViewMode) Valid() bool {
	return m == ViewModeUnified || m == ViewModeSplit
}

// SearchState carries the active query and its resolved matches.
type SearchState struct {
	Query   string
	Matches []diff.MatchLocation
	// Current indexes into Matches; -1 when there are no matches.
	Current int
}

// CurrentMatch returns the match the cursor sits on, if any.
func (s SearchState) CurrentMatch() (diff.MatchLocation, bool) {
	if s.Current < 0 || s.Current >= len(s.Matches) {
		return diff.MatchLocation{}, false
	}
	return s.Matches[s.Current], true
}

// Snapshot is the read-only view of a session handed to the presentation
// layer. Everything reachable from it is either a copy or treated as
// immutable: the FileDiff is never mutated after load, Selected is a copy of
// the selection set, and Matches is the memoized (shared, immutable) slice.
type Snapshot struct {
	// File is the currently displayed diff. Nil until the first successful
	// load; it stays populated while a newer load is in flight.
	File   *diff.FileDiff
	DiffID string

	ViewMode   ViewMode
	AreaStaged bool

	// Visible is the window over the flattened line sequence that the
	// renderer must materialize.
	Visible diff.Range

	Selected map[diff.LineID]bool
	Search   SearchState

	// Loading is true while at least one LoadDiff is outstanding.
	Loading bool

	// Err holds the failure that triggered an error event; nil on
	// regular state-change events.
	Err error
}

// IsSelected reports whether the given line is part of the selection.
func (s Snapshot) IsSelected(id diff.LineID) bool {
	return s.Selected[id]
}
