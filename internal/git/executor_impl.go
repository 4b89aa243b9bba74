package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"stagewise/internal/diff"
	"stagewise/internal/log"
)

// Git-specific errors surfaced to the view model.
var (
	// ErrDiffUnavailable indicates the path/ref combination cannot be diffed.
	ErrDiffUnavailable = errors.New("diff unavailable for path and refs")

	// ErrStagingConflict indicates the index or worktree changed underneath
	// a stage/unstage operation and the patch no longer applies.
	ErrStagingConflict = errors.New("staging conflict: patch does not apply")

	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")
)

// Compile-time check that RealExecutor implements Executor.
var _ Executor = (*RealExecutor)(nil)

// RealExecutor implements Executor by executing actual git commands.
type RealExecutor struct {
	workDir string
}

// NewRealExecutor creates a new RealExecutor rooted at workDir.
func NewRealExecutor(workDir string) *RealExecutor {
	return &RealExecutor{workDir: workDir}
}

// runGitOutput executes a git command and returns stdout and any error.
func (e *RealExecutor) runGitOutput(ctx context.Context, args ...string) (string, error) {
	return e.runGitInput(ctx, "", args...)
}

// runGitInput executes a git command with the given stdin and returns stdout.
func (e *RealExecutor) runGitInput(ctx context.Context, stdin string, args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		log.Debug(log.CatGit, "git command failed", "args", strings.Join(args, " "), "stderr", stderrStr)
		if stderrStr != "" {
			return "", parseGitError(stderrStr, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	// Bad ref or path: fatal: ambiguous argument / unknown revision /
	// path does not exist at the requested ref
	if strings.Contains(stderrLower, "unknown revision") ||
		strings.Contains(stderrLower, "ambiguous argument") ||
		strings.Contains(stderrLower, "bad revision") ||
		strings.Contains(stderrLower, "does not exist") ||
		strings.Contains(stderrLower, "exists on disk, but not in") {
		return fmt.Errorf("%w: %s", ErrDiffUnavailable, stderr)
	}

	// Stage/unstage patch rejected by the index
	if strings.Contains(stderrLower, "patch does not apply") ||
		strings.Contains(stderrLower, "patch failed") ||
		strings.Contains(stderrLower, "does not match index") {
		return fmt.Errorf("%w: %s", ErrStagingConflict, stderr)
	}

	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// diffArgs builds the option flags shared by all diff invocations.
func diffArgs(opts DiffOptions) []string {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if opts.IgnoreWhitespace {
		args = append(args, "-w")
	}
	if opts.IgnoreBlankLines {
		args = append(args, "--ignore-blank-lines")
	}
	if opts.ContextLines > 0 {
		args = append(args, "-U"+strconv.Itoa(opts.ContextLines))
	}
	return args
}

// GetDiff returns raw unified diff output for one path between refs.
func (e *RealExecutor) GetDiff(ctx context.Context, path string, refs RefPair, opts DiffOptions) (string, error) {
	args := diffArgs(opts)
	switch {
	case refs.Old != "" && refs.New != "":
		args = append(args, refs.Old, refs.New)
	case refs.Old != "":
		args = append(args, refs.Old)
	}
	args = append(args, "--")
	if path != "" {
		args = append(args, path)
	}
	return e.runGitOutput(ctx, args...)
}

// GetStagedDiff returns the diff of the index against HEAD for one path.
func (e *RealExecutor) GetStagedDiff(ctx context.Context, path string, opts DiffOptions) (string, error) {
	args := append(diffArgs(opts), "--cached", "--")
	if path != "" {
		args = append(args, path)
	}
	return e.runGitOutput(ctx, args...)
}

// GetWorkingDirDiff returns the diff of all uncommitted changes vs the index.
func (e *RealExecutor) GetWorkingDirDiff(ctx context.Context, opts DiffOptions) (string, error) {
	return e.runGitOutput(ctx, append(diffArgs(opts), "--")...)
}

// StageLines applies the selected lines of the file's diff to the index.
// A minimal patch is built from the selection and piped to git apply.
func (e *RealExecutor) StageLines(ctx context.Context, file *diff.FileDiff, ids []diff.LineID) error {
	return e.applyLines(ctx, file, ids, false)
}

// UnstageLines removes the selected lines of the file's staged diff from
// the index by applying the patch in reverse.
func (e *RealExecutor) UnstageLines(ctx context.Context, file *diff.FileDiff, ids []diff.LineID) error {
	return e.applyLines(ctx, file, ids, true)
}

func (e *RealExecutor) applyLines(ctx context.Context, file *diff.FileDiff, ids []diff.LineID, reverse bool) error {
	patch, err := BuildPatch(file, idSet(ids), reverse)
	if err != nil {
		return err
	}
	if patch == "" {
		return nil
	}
	args := []string{"apply", "--cached", "--unidiff-zero", "--whitespace=nowarn"}
	if reverse {
		args = append(args, "--reverse")
	}
	args = append(args, "-")

	_, err = e.runGitInput(ctx, patch, args...)
	if err != nil {
		log.ErrorErr(log.CatGit, "apply failed", err, "path", file.Path, "lines", len(ids), "reverse", reverse)
	}
	return err
}

// StageHunk stages every line of one hunk.
func (e *RealExecutor) StageHunk(ctx context.Context, file *diff.FileDiff, hunkIndex int) error {
	return e.applyLines(ctx, file, hunkLineIDs(file, hunkIndex), false)
}

// UnstageHunk unstages every line of one hunk.
func (e *RealExecutor) UnstageHunk(ctx context.Context, file *diff.FileDiff, hunkIndex int) error {
	return e.applyLines(ctx, file, hunkLineIDs(file, hunkIndex), true)
}

// StageFile stages a whole path with git add.
func (e *RealExecutor) StageFile(ctx context.Context, path string) error {
	_, err := e.runGitOutput(ctx, "add", "--", path)
	return err
}

func hunkLineIDs(file *diff.FileDiff, hunkIndex int) []diff.LineID {
	if hunkIndex < 0 || hunkIndex >= len(file.Hunks) {
		return nil
	}
	var ids []diff.LineID
	for _, line := range file.Hunks[hunkIndex].Lines {
		if line.Stageable() {
			ids = append(ids, line.ID)
		}
	}
	return ids
}

func idSet(ids []diff.LineID) map[diff.LineID]struct{} {
	set := make(map[diff.LineID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Status returns the changed paths of the repository from porcelain status.
func (e *RealExecutor) Status(ctx context.Context) ([]StatusEntry, error) {
	out, err := e.runGitOutput(ctx, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return nil, err
	}

	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		index, worktree := line[0], line[1]
		path := strings.TrimSpace(line[3:])
		// Rename entries look like "R  old -> new"; show the new path.
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}

		entry := StatusEntry{Path: path}
		if index == '?' && worktree == '?' {
			entry.Untracked = true
			entry.Unstaged = true
		} else {
			entry.Staged = index != ' '
			entry.Unstaged = worktree != ' '
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetUntrackedFiles returns paths not yet known to the index.
func (e *RealExecutor) GetUntrackedFiles(ctx context.Context) ([]string, error) {
	out, err := e.runGitOutput(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// GetFileContent reads a file from the working directory.
func (e *RealExecutor) GetFileContent(path string) (string, error) {
	full := path
	if e.workDir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(e.workDir, path)
	}
	data, err := os.ReadFile(full) //nolint:gosec // G304: path comes from git status output
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// IsGitRepo checks if the working directory is inside a git repository.
func (e *RealExecutor) IsGitRepo() bool {
	_, err := e.runGitOutput(context.Background(), "rev-parse", "--git-dir")
	return err == nil
}

// GetRepoRoot returns the absolute path of the repository's top level.
func (e *RealExecutor) GetRepoRoot() (string, error) {
	out, err := e.runGitOutput(context.Background(), "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GetCurrentBranch returns the short name of the checked-out branch, or the
// short HEAD hash when detached.
func (e *RealExecutor) GetCurrentBranch() (string, error) {
	out, err := e.runGitOutput(context.Background(), "branch", "--show-current")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch != "" {
		return branch, nil
	}
	out, err = e.runGitOutput(context.Background(), "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
