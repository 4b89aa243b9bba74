package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stagewise/internal/diff"
)

// initTestRepo creates a throwaway git repository with a deterministic
// identity so commits and blame work without global config.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	gitIn(t, dir, "init", "-b", "main")
	gitIn(t, dir, "config", "user.email", "test@example.com")
	gitIn(t, dir, "config", "user.name", "Test")
	gitIn(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func gitIn(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func commitFile(t *testing.T, dir, name, content, msg string) {
	t.Helper()
	writeFile(t, dir, name, content)
	gitIn(t, dir, "add", name)
	gitIn(t, dir, "commit", "-m", msg)
}

func TestNewRealExecutor(t *testing.T) {
	executor := NewRealExecutor("/some/path")
	require.NotNil(t, executor)
	require.Equal(t, "/some/path", executor.workDir)
}

func TestParseGitError(t *testing.T) {
	base := errors.New("exit status 128")

	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{"unknown revision", "fatal: ambiguous argument 'nope': unknown revision or path not in the working tree.", ErrDiffUnavailable},
		{"bad revision", "fatal: bad revision 'HEAD~99'", ErrDiffUnavailable},
		{"path not at ref", "fatal: path 'x.go' does not exist in 'HEAD'", ErrDiffUnavailable},
		{"patch does not apply", "error: patch does not apply", ErrStagingConflict},
		{"patch failed", "error: patch failed: main.go:12", ErrStagingConflict},
		{"index mismatch", "error: main.go: does not match index", ErrStagingConflict},
		{"not a repo", "fatal: not a git repository (or any of the parent directories): .git", ErrNotGitRepo},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := parseGitError(tc.stderr, base)
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("unrecognized stderr keeps original error", func(t *testing.T) {
		err := parseGitError("fatal: something novel", base)
		require.ErrorIs(t, err, base)
		require.NotErrorIs(t, err, ErrDiffUnavailable)
		require.NotErrorIs(t, err, ErrStagingConflict)
	})
}

func TestRealExecutor_IsGitRepo(t *testing.T) {
	t.Run("in repo", func(t *testing.T) {
		dir := initTestRepo(t)
		require.True(t, NewRealExecutor(dir).IsGitRepo())
	})

	t.Run("not a repo", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}
		require.False(t, NewRealExecutor(t.TempDir()).IsGitRepo())
	})
}

func TestRealExecutor_GetRepoRoot(t *testing.T) {
	dir := initTestRepo(t)
	root, err := NewRealExecutor(dir).GetRepoRoot()
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(root))

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Equal(t, resolved, root)
}

func TestRealExecutor_GetCurrentBranch(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n", "initial")

	branch, err := NewRealExecutor(dir).GetCurrentBranch()
	require.NoError(t, err)
	require.Equal(t, "main", branch)

	t.Run("detached head falls back to short hash", func(t *testing.T) {
		gitIn(t, dir, "checkout", "--detach", "HEAD")
		branch, err := NewRealExecutor(dir).GetCurrentBranch()
		require.NoError(t, err)
		require.NotEmpty(t, branch)
		require.NotEqual(t, "main", branch)
	})
}

func TestRealExecutor_GetDiff_BadRef(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n", "initial")

	_, err := NewRealExecutor(dir).GetDiff(context.Background(), "", RefPair{Old: "no-such-ref"}, DiffOptions{})
	require.ErrorIs(t, err, ErrDiffUnavailable)
}

func TestRealExecutor_GetWorkingDirDiff(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n\nfunc main() {}\n", "initial")
	writeFile(t, dir, "main.go", "package main\n\nfunc main() { run() }\n")

	out, err := NewRealExecutor(dir).GetWorkingDirDiff(context.Background(), DiffOptions{})
	require.NoError(t, err)
	require.Contains(t, out, "-func main() {}")
	require.Contains(t, out, "+func main() { run() }")

	files, err := diff.Parse(out)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "main.go", files[0].Path)
}

func TestRealExecutor_StageLines_Partial(t *testing.T) {
	dir := initTestRepo(t)
	executor := NewRealExecutor(dir)
	ctx := context.Background()

	commitFile(t, dir, "list.txt", "alpha\n", "initial")
	writeFile(t, dir, "list.txt", "alpha\nbeta\ngamma\n")

	out, err := executor.GetWorkingDirDiff(ctx, DiffOptions{})
	require.NoError(t, err)
	files, err := diff.Parse(out)
	require.NoError(t, err)
	require.Len(t, files, 1)
	fd := &files[0]
	require.Len(t, fd.Hunks, 1)

	// Stage only the "beta" addition.
	var betaID diff.LineID
	for _, line := range fd.Hunks[0].Lines {
		if line.Type == diff.LineAddition && line.Content == "beta" {
			betaID = line.ID
		}
	}
	require.NoError(t, executor.StageLines(ctx, fd, []diff.LineID{betaID}))

	staged, err := executor.GetStagedDiff(ctx, "", DiffOptions{})
	require.NoError(t, err)
	require.Contains(t, staged, "+beta")
	require.NotContains(t, staged, "+gamma")

	// The worktree still differs from the index by the unstaged line.
	remaining, err := executor.GetWorkingDirDiff(ctx, DiffOptions{})
	require.NoError(t, err)
	require.Contains(t, remaining, "+gamma")
	require.NotContains(t, remaining, "+beta")
}

func TestRealExecutor_StageAndUnstageHunk(t *testing.T) {
	dir := initTestRepo(t)
	executor := NewRealExecutor(dir)
	ctx := context.Background()

	// Two changes far enough apart to produce separate hunks.
	var orig, modified strings.Builder
	for i := 1; i <= 15; i++ {
		orig.WriteString("line\n")
		switch i {
		case 2:
			modified.WriteString("changed top\n")
		case 13:
			modified.WriteString("changed bottom\n")
		default:
			modified.WriteString("line\n")
		}
	}
	commitFile(t, dir, "body.txt", orig.String(), "initial")
	writeFile(t, dir, "body.txt", modified.String())

	out, err := executor.GetWorkingDirDiff(ctx, DiffOptions{})
	require.NoError(t, err)
	files, err := diff.Parse(out)
	require.NoError(t, err)
	require.Len(t, files, 1)
	fd := &files[0]
	require.Len(t, fd.Hunks, 2)

	require.NoError(t, executor.StageHunk(ctx, fd, 0))

	staged, err := executor.GetStagedDiff(ctx, "", DiffOptions{})
	require.NoError(t, err)
	require.Contains(t, staged, "+changed top")
	require.NotContains(t, staged, "+changed bottom")

	// Unstage it again from the staged diff's own coordinates.
	stagedFiles, err := diff.Parse(staged)
	require.NoError(t, err)
	require.Len(t, stagedFiles, 1)
	require.NoError(t, executor.UnstageHunk(ctx, &stagedFiles[0], 0))

	staged, err = executor.GetStagedDiff(ctx, "", DiffOptions{})
	require.NoError(t, err)
	require.Empty(t, strings.TrimSpace(staged))
}

func TestRealExecutor_StageLines_Conflict(t *testing.T) {
	dir := initTestRepo(t)
	executor := NewRealExecutor(dir)
	ctx := context.Background()

	commitFile(t, dir, "note.txt", "alpha\n", "initial")
	writeFile(t, dir, "note.txt", "alpha\nbeta\n")

	out, err := executor.GetWorkingDirDiff(ctx, DiffOptions{})
	require.NoError(t, err)
	files, err := diff.Parse(out)
	require.NoError(t, err)
	fd := &files[0]

	var allIDs []diff.LineID
	for _, line := range fd.Hunks[0].Lines {
		if line.Stageable() {
			allIDs = append(allIDs, line.ID)
		}
	}

	// Stage everything, then replay the now-stale patch.
	require.NoError(t, executor.StageLines(ctx, fd, allIDs))
	err = executor.StageLines(ctx, fd, allIDs)
	require.ErrorIs(t, err, ErrStagingConflict)
}

func TestRealExecutor_StageLines_EmptySelection(t *testing.T) {
	dir := initTestRepo(t)
	executor := NewRealExecutor(dir)

	commitFile(t, dir, "note.txt", "alpha\n", "initial")
	fd := &diff.FileDiff{Path: "note.txt"}

	require.NoError(t, executor.StageLines(context.Background(), fd, nil))
}

func TestRealExecutor_StageFile_Untracked(t *testing.T) {
	dir := initTestRepo(t)
	executor := NewRealExecutor(dir)
	ctx := context.Background()

	commitFile(t, dir, "main.go", "package main\n", "initial")
	writeFile(t, dir, "extra.txt", "hello\n")

	untracked, err := executor.GetUntrackedFiles(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"extra.txt"}, untracked)

	require.NoError(t, executor.StageFile(ctx, "extra.txt"))

	untracked, err = executor.GetUntrackedFiles(ctx)
	require.NoError(t, err)
	require.Empty(t, untracked)

	staged, err := executor.GetStagedDiff(ctx, "", DiffOptions{})
	require.NoError(t, err)
	require.Contains(t, staged, "+hello")
}

func TestRealExecutor_Status(t *testing.T) {
	dir := initTestRepo(t)
	executor := NewRealExecutor(dir)
	ctx := context.Background()

	commitFile(t, dir, "a.txt", "a\n", "initial")
	writeFile(t, dir, "a.txt", "A\n")     // modified, unstaged
	writeFile(t, dir, "b.txt", "b\n")     // untracked
	writeFile(t, dir, "c.txt", "c\n")     // staged new file
	gitIn(t, dir, "add", "c.txt")

	entries, err := executor.Status(ctx)
	require.NoError(t, err)

	byPath := make(map[string]StatusEntry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	require.True(t, byPath["a.txt"].Unstaged)
	require.False(t, byPath["a.txt"].Staged)
	require.True(t, byPath["b.txt"].Untracked)
	require.True(t, byPath["c.txt"].Staged)
	require.False(t, byPath["c.txt"].Untracked)
}

func TestRealExecutor_GetFileContent(t *testing.T) {
	dir := initTestRepo(t)
	writeFile(t, dir, "data.txt", "contents\n")

	content, err := NewRealExecutor(dir).GetFileContent("data.txt")
	require.NoError(t, err)
	require.Equal(t, "contents\n", content)

	_, err = NewRealExecutor(dir).GetFileContent("missing.txt")
	require.Error(t, err)
}

func TestRealExecutor_GetBlame(t *testing.T) {
	dir := initTestRepo(t)
	executor := NewRealExecutor(dir)

	commitFile(t, dir, "main.go", "package main\n\nfunc main() {}\n", "initial")

	lines, err := executor.GetBlame(context.Background(), "main.go")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, "Test", lines[0].Author)
	require.Equal(t, "package main", lines[0].Content)
	require.Equal(t, 1, lines[0].LineNum)
	require.Equal(t, 3, lines[2].LineNum)
	require.False(t, lines[0].Time.IsZero())
}

func TestDiffArgs(t *testing.T) {
	require.Equal(t,
		[]string{"diff", "--no-color", "--no-ext-diff"},
		diffArgs(DiffOptions{}))

	require.Equal(t,
		[]string{"diff", "--no-color", "--no-ext-diff", "-w", "--ignore-blank-lines", "-U8"},
		diffArgs(DiffOptions{IgnoreWhitespace: true, IgnoreBlankLines: true, ContextLines: 8}))
}
