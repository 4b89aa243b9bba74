// Package diff contains the diff data model and the pure engines that turn
// parsed unified diffs into navigable, searchable, stageable view state.
package diff

import "fmt"

// LineType represents the type of a diff line.
type LineType int

const (
	LineContext    LineType = iota // ' ' prefix - unchanged line
	LineAddition                   // '+' prefix - added line
	LineDeletion                   // '-' prefix - deleted line
	LineHunkHeader                 // '@@ ... @@' - hunk marker
)

// String returns a human-readable name for the line type.
func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineAddition:
		return "addition"
	case LineDeletion:
		return "deletion"
	case LineHunkHeader:
		return "hunk-header"
	default:
		return "unknown"
	}
}

// LineID identifies a line within a FileDiff. It is positional (hunk index
// plus position within the hunk), never content-derived, so duplicate line
// content stays distinguishable. IDs are stable for the lifetime of one
// FileDiff and are reassigned on reload.
type LineID struct {
	Hunk int // Index of the hunk within the file
	Pos  int // Index of the line within the hunk
}

// String formats the ID for logging and cache keys.
func (id LineID) String() string {
	return fmt.Sprintf("%d:%d", id.Hunk, id.Pos)
}

// Line represents a single line in a diff hunk.
type Line struct {
	ID                 LineID
	Type               LineType // Addition, Deletion, Context, or HunkHeader
	OldLineNum         int      // Line number in old file (0 if addition)
	NewLineNum         int      // Line number in new file (0 if deletion)
	Content            string   // Line content without +/- prefix
	HasTrailingNewline bool     // False only for the final line of a file without EOF newline
}

// Stageable reports whether the line can participate in line staging.
// Only additions and deletions are eligible.
func (l Line) Stageable() bool {
	return l.Type == LineAddition || l.Type == LineDeletion
}

// Hunk represents a contiguous section of changes in a diff.
// The line order is the authoritative display order; only the pairer
// derives a reordered (non-authoritative) view from it.
type Hunk struct {
	OldStart int    // Starting line number in old file
	OldCount int    // Number of lines from old file
	NewStart int    // Starting line number in new file
	NewCount int    // Number of lines from new file
	Header   string // The @@ line text
	Lines    []Line
}

// FileDiff represents a single file's changes in a diff.
// A FileDiff is immutable for the duration of a view session; changed diff
// options produce a fresh FileDiff, not a mutation.
type FileDiff struct {
	Path        string // Path in new version (or old path for deletions)
	OldPath     string // Path in old version (differs from Path for renames)
	Additions   int    // Count of added lines
	Deletions   int    // Count of deleted lines
	IsBinary    bool   // True if file is binary (hunks are empty)
	IsRenamed   bool   // True if file was renamed
	IsNew       bool   // True if new file
	IsDeleted   bool   // True if deleted file
	IsUntracked bool   // True if untracked file (not yet in the index)
	Similarity  int    // Rename similarity percentage (0-100)
	Hunks       []Hunk
}

// TotalLines returns the number of lines across all hunks, including hunk
// header lines. This is the length of the flattened unified line sequence.
func (f *FileDiff) TotalLines() int {
	total := 0
	for _, h := range f.Hunks {
		total += len(h.Lines)
	}
	return total
}

// LineAt resolves a LineID to its line. Returns false for IDs that do not
// address a line in this FileDiff.
func (f *FileDiff) LineAt(id LineID) (Line, bool) {
	if id.Hunk < 0 || id.Hunk >= len(f.Hunks) {
		return Line{}, false
	}
	h := f.Hunks[id.Hunk]
	if id.Pos < 0 || id.Pos >= len(h.Lines) {
		return Line{}, false
	}
	return h.Lines[id.Pos], true
}

// FlattenedIndex returns the position of the given line in the flattened
// unified line sequence, or -1 if the ID is not addressable.
func (f *FileDiff) FlattenedIndex(id LineID) int {
	if id.Hunk < 0 || id.Hunk >= len(f.Hunks) {
		return -1
	}
	h := f.Hunks[id.Hunk]
	if id.Pos < 0 || id.Pos >= len(h.Lines) {
		return -1
	}
	idx := 0
	for i := 0; i < id.Hunk; i++ {
		idx += len(f.Hunks[i].Lines)
	}
	return idx + id.Pos
}

// LineAtFlattenedIndex is the inverse of FlattenedIndex: it maps a position
// in the flattened unified sequence back to a line. Returns false when the
// index is out of range.
func (f *FileDiff) LineAtFlattenedIndex(idx int) (Line, bool) {
	if idx < 0 {
		return Line{}, false
	}
	for _, h := range f.Hunks {
		if idx < len(h.Lines) {
			return h.Lines[idx], true
		}
		idx -= len(h.Lines)
	}
	return Line{}, false
}

// assignLineIDs stamps positional IDs onto every line. Called by the parser
// after hunk construction so IDs always reflect final positions.
func assignLineIDs(f *FileDiff) {
	for hi := range f.Hunks {
		for li := range f.Hunks[hi].Lines {
			f.Hunks[hi].Lines[li].ID = LineID{Hunk: hi, Pos: li}
		}
	}
}
