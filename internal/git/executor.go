// Package git wraps the external git process: it produces unified diff text
// for the diff engine and applies stage/unstage requests against the index.
package git

import (
	"context"
	"time"

	"stagewise/internal/diff"
)

// DiffOptions controls how diffs are generated.
type DiffOptions struct {
	IgnoreWhitespace bool // -w
	IgnoreBlankLines bool // --ignore-blank-lines
	ContextLines     int  // -U<n>; 0 means git's default of 3
}

// RefPair names the two sides of a diff. Empty values select the implicit
// side: with both empty the diff is worktree vs index; with only Old set it
// is worktree vs that ref; with both set it is Old vs New.
type RefPair struct {
	Old string
	New string
}

// BlameLine holds the annotation for one line of a blamed file.
type BlameLine struct {
	CommitHash string    // Full 40-char SHA
	Author     string    // Author name
	Time       time.Time // Author timestamp
	LineNum    int       // 1-based line number in the current file
	Content    string    // Line content
}

// StatusEntry describes one changed path in the working tree or index.
type StatusEntry struct {
	Path      string
	Staged    bool // Change is in the index
	Unstaged  bool // Change is in the worktree
	Untracked bool
}

// Executor is the external Git collaborator consumed by the view model.
// All blocking operations take a context; cancelling it kills the
// underlying git process.
type Executor interface {
	// GetDiff returns raw unified diff output for one path between refs.
	GetDiff(ctx context.Context, path string, refs RefPair, opts DiffOptions) (string, error)
	// GetStagedDiff returns the diff of the index against HEAD for one path.
	GetStagedDiff(ctx context.Context, path string, opts DiffOptions) (string, error)
	// GetWorkingDirDiff returns the diff of all uncommitted changes vs the index.
	GetWorkingDirDiff(ctx context.Context, opts DiffOptions) (string, error)

	// StageLines applies the given lines of the file's current diff to the index.
	StageLines(ctx context.Context, file *diff.FileDiff, ids []diff.LineID) error
	// UnstageLines removes the given lines of the file's staged diff from the index.
	UnstageLines(ctx context.Context, file *diff.FileDiff, ids []diff.LineID) error
	// StageHunk stages every line of one hunk.
	StageHunk(ctx context.Context, file *diff.FileDiff, hunkIndex int) error
	// UnstageHunk unstages every line of one hunk.
	UnstageHunk(ctx context.Context, file *diff.FileDiff, hunkIndex int) error
	// StageFile stages a whole path (required for untracked files, which
	// have no index entry to patch).
	StageFile(ctx context.Context, path string) error

	// GetBlame returns per-line annotations for the file at HEAD.
	GetBlame(ctx context.Context, path string) ([]BlameLine, error)

	// Status returns the changed paths of the repository.
	Status(ctx context.Context) ([]StatusEntry, error)
	// GetUntrackedFiles returns paths not yet known to the index.
	GetUntrackedFiles(ctx context.Context) ([]string, error)
	// GetFileContent reads a file from the working directory, used to
	// display untracked files that have no diff.
	GetFileContent(path string) (string, error)

	IsGitRepo() bool
	GetRepoRoot() (string, error)
	GetCurrentBranch() (string, error)
}
