package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stagewise/internal/diff"
	"stagewise/internal/git"
	"stagewise/internal/pubsub"
)

const sampleDiff = `diff --git a/app.go b/app.go
index 1111111..2222222 100644
--- a/app.go
+++ b/app.go
@@ -1,4 +1,4 @@
 package app
-old one
-old two
+new one
+new two
 func main() {}
`

// fakeExecutor is a programmable git.Executor for orchestration tests.
type fakeExecutor struct {
	mu sync.Mutex

	diffOutput string
	diffErr    error
	onGetDiff  func(path string) (string, error)

	stageErr      error
	stagedLines   [][]diff.LineID
	unstagedLines [][]diff.LineID
	stagedHunks   []int
	unstagedHunks []int
	stagedFiles   []string

	fileContent map[string]string
}

func (f *fakeExecutor) GetDiff(_ context.Context, path string, _ git.RefPair, _ git.DiffOptions) (string, error) {
	f.mu.Lock()
	hook := f.onGetDiff
	out, err := f.diffOutput, f.diffErr
	f.mu.Unlock()
	if hook != nil {
		return hook(path)
	}
	return out, err
}

func (f *fakeExecutor) GetStagedDiff(ctx context.Context, path string, opts git.DiffOptions) (string, error) {
	return f.GetDiff(ctx, path, git.RefPair{}, opts)
}

func (f *fakeExecutor) GetWorkingDirDiff(context.Context, git.DiffOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.diffOutput, f.diffErr
}

func (f *fakeExecutor) StageLines(_ context.Context, _ *diff.FileDiff, ids []diff.LineID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stageErr != nil {
		return f.stageErr
	}
	f.stagedLines = append(f.stagedLines, ids)
	return nil
}

func (f *fakeExecutor) UnstageLines(_ context.Context, _ *diff.FileDiff, ids []diff.LineID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stageErr != nil {
		return f.stageErr
	}
	f.unstagedLines = append(f.unstagedLines, ids)
	return nil
}

func (f *fakeExecutor) StageHunk(_ context.Context, _ *diff.FileDiff, hunkIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stageErr != nil {
		return f.stageErr
	}
	f.stagedHunks = append(f.stagedHunks, hunkIndex)
	return nil
}

func (f *fakeExecutor) UnstageHunk(_ context.Context, _ *diff.FileDiff, hunkIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stageErr != nil {
		return f.stageErr
	}
	f.unstagedHunks = append(f.unstagedHunks, hunkIndex)
	return nil
}

func (f *fakeExecutor) StageFile(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stageErr != nil {
		return f.stageErr
	}
	f.stagedFiles = append(f.stagedFiles, path)
	return nil
}

func (f *fakeExecutor) GetBlame(context.Context, string) ([]git.BlameLine, error) {
	return nil, nil
}

func (f *fakeExecutor) Status(context.Context) ([]git.StatusEntry, error) {
	return nil, nil
}

func (f *fakeExecutor) GetUntrackedFiles(context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeExecutor) GetFileContent(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if content, ok := f.fileContent[path]; ok {
		return content, nil
	}
	return "", errors.New("no such file")
}

func (f *fakeExecutor) IsGitRepo() bool { return true }

func (f *fakeExecutor) GetRepoRoot() (string, error) { return "/repo", nil }

func (f *fakeExecutor) GetCurrentBranch() (string, error) { return "main", nil }

func loadSample(t *testing.T, vm *ViewModel) *diff.FileDiff {
	t.Helper()
	fd, err := vm.LoadDiff(context.Background(), "app.go", git.RefPair{}, git.DiffOptions{})
	require.NoError(t, err)
	require.NotNil(t, fd)
	return fd
}

func newSampleVM(t *testing.T) (*ViewModel, *fakeExecutor) {
	t.Helper()
	fake := &fakeExecutor{diffOutput: sampleDiff}
	vm := New(fake, Config{})
	t.Cleanup(vm.Close)
	return vm, fake
}

func TestLoadDiff_InstallsParsedDiff(t *testing.T) {
	vm, _ := newSampleVM(t)
	fd := loadSample(t, vm)

	require.Equal(t, "app.go", fd.Path)
	require.Len(t, fd.Hunks, 1)

	snap := vm.Snapshot()
	require.Same(t, fd, snap.File)
	require.NotEmpty(t, snap.DiffID)
	require.False(t, snap.Loading)
	require.Empty(t, snap.Selected)
	require.Equal(t, ViewModeUnified, snap.ViewMode)
}

func TestLoadDiff_EmptyOutput(t *testing.T) {
	fake := &fakeExecutor{diffOutput: ""}
	vm := New(fake, Config{})
	defer vm.Close()

	fd, err := vm.LoadDiff(context.Background(), "clean.go", git.RefPair{}, git.DiffOptions{})
	require.NoError(t, err)
	require.Equal(t, "clean.go", fd.Path)
	require.Empty(t, fd.Hunks)
}

func TestLoadDiff_ErrorKeepsPreviousDiff(t *testing.T) {
	vm, fake := newSampleVM(t)
	fd := loadSample(t, vm)

	fake.mu.Lock()
	fake.diffErr = git.ErrDiffUnavailable
	fake.mu.Unlock()

	_, err := vm.LoadDiff(context.Background(), "gone.go", git.RefPair{}, git.DiffOptions{})
	require.ErrorIs(t, err, git.ErrDiffUnavailable)

	snap := vm.Snapshot()
	require.Same(t, fd, snap.File)
}

func TestLoadDiff_LastRequestWins(t *testing.T) {
	vm, fake := newSampleVM(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	fake.mu.Lock()
	fake.onGetDiff = func(path string) (string, error) {
		if path == "slow.go" {
			close(entered)
			<-release
		}
		return sampleDiff, nil
	}
	fake.mu.Unlock()

	staleErr := make(chan error, 1)
	go func() {
		_, err := vm.LoadDiff(context.Background(), "slow.go", git.RefPair{}, git.DiffOptions{})
		staleErr <- err
	}()

	<-entered
	require.True(t, vm.Snapshot().Loading)

	fd, err := vm.LoadDiff(context.Background(), "app.go", git.RefPair{}, git.DiffOptions{})
	require.NoError(t, err)
	winnerID := vm.Snapshot().DiffID

	close(release)
	select {
	case err := <-staleErr:
		require.ErrorIs(t, err, ErrStale)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded load never returned")
	}

	snap := vm.Snapshot()
	require.Same(t, fd, snap.File)
	require.Equal(t, winnerID, snap.DiffID)
	require.False(t, snap.Loading)
}

func TestLoadDiff_NewIdentityPerLoad(t *testing.T) {
	vm, _ := newSampleVM(t)

	loadSample(t, vm)
	first := vm.Snapshot().DiffID
	loadSample(t, vm)
	second := vm.Snapshot().DiffID

	require.NotEqual(t, first, second)
}

func TestLoadUntracked(t *testing.T) {
	fake := &fakeExecutor{fileContent: map[string]string{"new.go": "package new\n"}}
	vm := New(fake, Config{})
	defer vm.Close()

	fd, err := vm.LoadUntracked(context.Background(), "new.go")
	require.NoError(t, err)
	require.Equal(t, "new.go", fd.Path)
	require.True(t, fd.IsUntracked)
	require.Len(t, fd.Hunks, 1)
	for _, line := range fd.Hunks[0].Lines[1:] {
		require.Equal(t, diff.LineAddition, line.Type)
	}
}

func TestReload_ReplaysLastLoad(t *testing.T) {
	vm, _ := newSampleVM(t)

	require.NoError(t, vm.Reload(context.Background()), "reload before any load is a no-op")
	require.Nil(t, vm.Snapshot().File)

	loadSample(t, vm)
	first := vm.Snapshot().DiffID

	require.NoError(t, vm.Reload(context.Background()))
	snap := vm.Snapshot()
	require.NotNil(t, snap.File)
	require.NotEqual(t, first, snap.DiffID)
}

func TestSetViewMode(t *testing.T) {
	vm, _ := newSampleVM(t)

	require.NoError(t, vm.SetViewMode(ViewModeSplit))
	require.Equal(t, ViewModeSplit, vm.Snapshot().ViewMode)

	require.Error(t, vm.SetViewMode(ViewMode("diagonal")))
	require.Equal(t, ViewModeSplit, vm.Snapshot().ViewMode)
}

func TestSearch_QueryAndNavigation(t *testing.T) {
	vm, _ := newSampleVM(t)
	loadSample(t, vm)

	vm.SetSearchQuery("OLD")
	snap := vm.Snapshot()
	require.Len(t, snap.Search.Matches, 2)
	require.Equal(t, 0, snap.Search.Current)

	vm.NavigateMatch(1)
	require.Equal(t, 1, vm.Snapshot().Search.Current)
	vm.NavigateMatch(1)
	require.Equal(t, 0, vm.Snapshot().Search.Current, "wraps past the last match")
	vm.NavigateMatch(-1)
	require.Equal(t, 1, vm.Snapshot().Search.Current, "wraps backwards")

	vm.SetSearchQuery("nowhere")
	snap = vm.Snapshot()
	require.Empty(t, snap.Search.Matches)
	require.Equal(t, -1, snap.Search.Current)

	vm.NavigateMatch(1)
	require.Equal(t, -1, vm.Snapshot().Search.Current, "navigation without matches is a no-op")
}

func TestSearch_ReindexedOnReload(t *testing.T) {
	vm, _ := newSampleVM(t)
	loadSample(t, vm)

	vm.SetSearchQuery("new")
	require.Len(t, vm.Snapshot().Search.Matches, 2)
	vm.NavigateMatch(1)

	loadSample(t, vm)
	snap := vm.Snapshot()
	require.Equal(t, "new", snap.Search.Query, "query survives a reload")
	require.Len(t, snap.Search.Matches, 2)
	require.Equal(t, 0, snap.Search.Current, "cursor resets on new diff")
}

func TestToggleLineSelection(t *testing.T) {
	vm, _ := newSampleVM(t)
	fd := loadSample(t, vm)

	deletion := fd.Hunks[0].Lines[2]
	require.Equal(t, diff.LineDeletion, deletion.Type)

	vm.ToggleLineSelection(deletion.ID)
	require.True(t, vm.Snapshot().IsSelected(deletion.ID))

	vm.ToggleLineSelection(deletion.ID)
	require.False(t, vm.Snapshot().IsSelected(deletion.ID))

	ctxLine := fd.Hunks[0].Lines[1]
	require.Equal(t, diff.LineContext, ctxLine.Type)
	vm.ToggleLineSelection(ctxLine.ID)
	require.Empty(t, vm.Snapshot().Selected)

	vm.ToggleLineSelection(diff.LineID{Hunk: 9, Pos: 9})
	require.Empty(t, vm.Snapshot().Selected)
}

func TestDragSelect(t *testing.T) {
	vm, _ := newSampleVM(t)
	loadSample(t, vm)

	// Positions 2..5 are the two deletions and two additions; 1 and 6 are
	// context, 0 is the hunk header.
	vm.DragSelect(0, 1, 6)
	snap := vm.Snapshot()
	require.Len(t, snap.Selected, 4)
	require.False(t, snap.IsSelected(diff.LineID{Hunk: 0, Pos: 1}), "context spanned but not selected")

	vm.DragSelect(0, 3, 2)
	require.Len(t, vm.Snapshot().Selected, 2, "reversed range replaces selection")

	vm.DragSelect(5, 0, 3)
	require.Len(t, vm.Snapshot().Selected, 2, "out-of-range hunk is a no-op")
}

func TestStageSelection(t *testing.T) {
	vm, fake := newSampleVM(t)
	fd := loadSample(t, vm)

	require.NoError(t, vm.StageSelection(context.Background()), "empty selection is a no-op")
	require.Empty(t, fake.stagedLines)

	vm.ToggleLineSelection(fd.Hunks[0].Lines[2].ID)
	vm.ToggleLineSelection(fd.Hunks[0].Lines[4].ID)
	require.True(t, vm.CanStageSelection())

	require.NoError(t, vm.StageSelection(context.Background()))
	require.Len(t, fake.stagedLines, 1)
	require.Equal(t, []diff.LineID{{Hunk: 0, Pos: 2}, {Hunk: 0, Pos: 4}}, fake.stagedLines[0])
	require.Empty(t, vm.Snapshot().Selected, "selection cleared on success")
}

func TestStageSelection_FailureKeepsSelection(t *testing.T) {
	vm, fake := newSampleVM(t)
	fd := loadSample(t, vm)

	vm.ToggleLineSelection(fd.Hunks[0].Lines[2].ID)
	fake.mu.Lock()
	fake.stageErr = git.ErrStagingConflict
	fake.mu.Unlock()

	err := vm.StageSelection(context.Background())
	require.ErrorIs(t, err, git.ErrStagingConflict)

	snap := vm.Snapshot()
	require.Same(t, fd, snap.File)
	require.True(t, snap.IsSelected(fd.Hunks[0].Lines[2].ID), "selection kept for retry")
}

func TestUnstageSelection_RequiresStagedArea(t *testing.T) {
	vm, fake := newSampleVM(t)
	fd := loadSample(t, vm)

	vm.ToggleLineSelection(fd.Hunks[0].Lines[2].ID)
	require.False(t, vm.CanUnstageSelection())
	require.NoError(t, vm.UnstageSelection(context.Background()))
	require.Empty(t, fake.unstagedLines)

	vm.SetStagedView(true)
	require.Empty(t, vm.Snapshot().Selected, "selection does not carry across areas")

	fd = loadSample(t, vm)
	vm.ToggleLineSelection(fd.Hunks[0].Lines[2].ID)
	require.True(t, vm.CanUnstageSelection())
	require.NoError(t, vm.UnstageSelection(context.Background()))
	require.Len(t, fake.unstagedLines, 1)
}

func TestStageHunk(t *testing.T) {
	vm, fake := newSampleVM(t)
	loadSample(t, vm)

	require.NoError(t, vm.StageHunk(context.Background(), 0))
	require.Equal(t, []int{0}, fake.stagedHunks)

	require.NoError(t, vm.StageHunk(context.Background(), 7), "out-of-range hunk is a no-op")
	require.Len(t, fake.stagedHunks, 1)
}

func TestUnstageHunk(t *testing.T) {
	vm, fake := newSampleVM(t)
	loadSample(t, vm)

	require.NoError(t, vm.UnstageHunk(context.Background(), 0))
	require.Equal(t, []int{0}, fake.unstagedHunks)
}

func TestStageFile(t *testing.T) {
	vm, fake := newSampleVM(t)

	require.NoError(t, vm.StageFile(context.Background(), "new.go"))
	require.Equal(t, []string{"new.go"}, fake.stagedFiles)
}

func TestWordDiff(t *testing.T) {
	vm, _ := newSampleVM(t)

	require.Empty(t, vm.WordDiff(context.Background()).HunkDiffs, "no diff loaded")

	loadSample(t, vm)
	wd := vm.WordDiff(context.Background())
	require.Contains(t, wd.HunkDiffs, 0)

	segs := wd.SegmentsForLine(0, 2, diff.LineDeletion)
	require.NotEmpty(t, segs)

	// Served read-through from the memo cache: the same underlying result,
	// not a recompute.
	again := vm.WordDiff(context.Background())
	require.Equal(t, wd, again)
	require.Equal(t, fmt.Sprintf("%p", wd.HunkDiffs), fmt.Sprintf("%p", again.HunkDiffs))
}

func TestSnapshot_VisibleRange(t *testing.T) {
	vm, _ := newSampleVM(t)
	fd := loadSample(t, vm)

	vm.SetViewport(0, 40)
	snap := vm.Snapshot()
	require.Equal(t, diff.Range{Lo: 0, Hi: fd.TotalLines()}, snap.Visible,
		"small diffs are fully visible")
}

func TestEvents(t *testing.T) {
	vm, fake := newSampleVM(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := vm.Subscribe(ctx)

	loadSample(t, vm)
	ev := waitForEvent(t, events)
	require.Equal(t, pubsub.UpdatedEvent, ev.Type)
	require.NotNil(t, ev.Payload.File)
	require.NoError(t, ev.Payload.Err)

	fake.mu.Lock()
	fake.diffErr = git.ErrDiffUnavailable
	fake.mu.Unlock()
	_, err := vm.LoadDiff(context.Background(), "gone.go", git.RefPair{}, git.DiffOptions{})
	require.Error(t, err)

	ev = waitForEvent(t, events)
	require.Equal(t, pubsub.ErrorEvent, ev.Type)
	require.ErrorIs(t, ev.Payload.Err, git.ErrDiffUnavailable)
	require.NotNil(t, ev.Payload.File, "previous diff still present on failure")
}

func waitForEvent(t *testing.T, events <-chan pubsub.Event[Snapshot]) pubsub.Event[Snapshot] {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return pubsub.Event[Snapshot]{}
	}
}
