// Package diffviewer provides the TUI component for viewing and staging
// git diffs: a file list pane beside a diff pane with unified and
// side-by-side layouts, search, selection, and hunk navigation.
package diffviewer

import (
	"stagewise/internal/git"
	"stagewise/internal/session"
)

// focusPane identifies which pane receives keyboard input.
type focusPane int

const (
	focusFileList focusPane = iota
	focusDiff
)

// Side-by-side layout constants.
const (
	sideBySideSeparator   = "│"
	sideBySideMinColWidth = 40 // Minimum content width per column
	sideBySideGutterWidth = 5  // "NNNN " line number gutter
)

// minSideBySideWidth is the narrowest diff pane that can hold two readable
// columns. Below it the viewer renders unified regardless of preference.
const minSideBySideWidth = sideBySideGutterWidth + sideBySideMinColWidth + 1 +
	sideBySideGutterWidth + sideBySideMinColWidth

// FileEntry is one row of the file list: a changed path with its
// per-area state and line stats.
type FileEntry struct {
	Path      string
	Staged    bool
	Unstaged  bool
	Untracked bool
	Additions int
	Deletions int
	Binary    bool
}

// FilesLoadedMsg carries the refreshed changed-file list.
type FilesLoadedMsg struct {
	Files  []FileEntry
	Branch string
	Err    error
}

// DiffLoadedMsg reports completion of a diff load for one path. Superseded
// loads are filtered out before this message is produced.
type DiffLoadedMsg struct {
	Path string
	Err  error
}

// StageResultMsg reports completion of a stage or unstage operation.
type StageResultMsg struct {
	Err error
}

// BlameLoadedMsg carries per-line blame annotations for one path.
type BlameLoadedMsg struct {
	Path  string
	Lines []git.BlameLine
	Err   error
}

// ViewModeConstrainedMsg is produced when the user asks for side-by-side
// but the diff pane is too narrow. The preference is remembered and applied
// once the terminal grows.
type ViewModeConstrainedMsg struct {
	RequestedMode session.ViewMode
	MinWidth      int
	CurrentWidth  int
}

// WorkingTreeChangedMsg is sent by the filesystem watcher when tracked
// files change; the viewer refreshes the file list and the current diff.
type WorkingTreeChangedMsg struct{}
