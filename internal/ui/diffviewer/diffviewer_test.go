package diffviewer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"stagewise/internal/diff"
	"stagewise/internal/git"
	"stagewise/internal/pubsub"
	"stagewise/internal/session"
)

// fakeExecutor is a programmable git.Executor for model tests.
type fakeExecutor struct {
	mu sync.Mutex

	diffOutput string
	stageErr   error

	stagedLines [][]diff.LineID
	stagedHunks []int
	stagedFiles []string
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{diffOutput: sampleDiff}
}

func (f *fakeExecutor) GetDiff(context.Context, string, git.RefPair, git.DiffOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.diffOutput, nil
}

func (f *fakeExecutor) GetStagedDiff(context.Context, string, git.DiffOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.diffOutput, nil
}

func (f *fakeExecutor) GetWorkingDirDiff(context.Context, git.DiffOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.diffOutput, nil
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

func (f *fakeExecutor) UnstageLines(context.Context, *diff.FileDiff, []diff.LineID) error {
	return nil
}

func (f *fakeExecutor) StageHunk(_ context.Context, _ *diff.FileDiff, hunkIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stagedHunks = append(f.stagedHunks, hunkIndex)
	return nil
}

func (f *fakeExecutor) UnstageHunk(context.Context, *diff.FileDiff, int) error { return nil }

func (f *fakeExecutor) StageFile(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stagedFiles = append(f.stagedFiles, path)
	return nil
}

func (f *fakeExecutor) GetBlame(context.Context, string) ([]git.BlameLine, error) {
	return nil, nil
}

func (f *fakeExecutor) Status(context.Context) ([]git.StatusEntry, error) {
	return []git.StatusEntry{{Path: "app.go", Unstaged: true}}, nil
}

func (f *fakeExecutor) GetUntrackedFiles(context.Context) ([]string, error) { return nil, nil }

func (f *fakeExecutor) GetFileContent(string) (string, error) { return "", nil }

func (f *fakeExecutor) IsGitRepo() bool { return true }

func (f *fakeExecutor) GetRepoRoot() (string, error) { return "/repo", nil }

func (f *fakeExecutor) GetCurrentBranch() (string, error) { return "main", nil }

// apply runs one message through Update and returns the concrete model.
func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	require.True(t, ok)
	return model, cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel builds a model with the sample diff installed and a terminal
// size applied, focused on the diff pane.
func loadedModel(t *testing.T, width, height int) (Model, *fakeExecutor) {
	t.Helper()

	exec := newFakeExecutor()
	m := New(exec)
	t.Cleanup(m.Close)

	m, _ = apply(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	m, _ = apply(t, m, FilesLoadedMsg{
		Files:  []FileEntry{{Path: "app.go", Unstaged: true, Additions: 3, Deletions: 2}},
		Branch: "main",
	})

	_, err := m.vm.LoadDiff(context.Background(), "app.go", git.RefPair{}, git.DiffOptions{})
	require.NoError(t, err)

	m, _ = apply(t, m, pubsub.Event[session.Snapshot]{
		Type:    pubsub.UpdatedEvent,
		Payload: m.vm.Snapshot(),
	})
	require.NotNil(t, m.snap.File)

	m, _ = apply(t, m, runeKey("l")) // Focus the diff pane
	require.Equal(t, focusDiff, m.focus)
	return m, exec
}

func TestNew_Defaults(t *testing.T) {
	m := New(newFakeExecutor())
	defer m.Close()

	require.Equal(t, focusFileList, m.focus)
	require.Equal(t, session.ViewModeUnified, m.preferredMode)
	require.Equal(t, -1, m.rangeAnchor)
	require.NotNil(t, m.vm)
	require.Empty(t, m.View(), "no size yet renders nothing")
}

func TestUpdate_FilesLoadedTriggersDiffLoad(t *testing.T) {
	m := New(newFakeExecutor())
	defer m.Close()

	m, cmd := apply(t, m, FilesLoadedMsg{
		Files:  []FileEntry{{Path: "app.go", Unstaged: true}},
		Branch: "main",
	})

	require.Len(t, m.files, 1)
	require.Equal(t, "main", m.branch)
	require.NotNil(t, cmd, "loading the selected file's diff")
}

func TestUpdate_SnapshotEventKeepsListening(t *testing.T) {
	m := New(newFakeExecutor())
	defer m.Close()

	m, cmd := apply(t, m, pubsub.Event[session.Snapshot]{
		Type:    pubsub.UpdatedEvent,
		Payload: session.Snapshot{ViewMode: session.ViewModeUnified},
	})

	require.NotNil(t, cmd, "listener must be re-armed after each event")
	require.Equal(t, session.ViewModeUnified, m.snap.ViewMode)
}

func TestCursorMovement(t *testing.T) {
	m, _ := loadedModel(t, 120, 40)

	require.Equal(t, 0, m.cursorRow)

	m, _ = apply(t, m, runeKey("j"))
	require.Equal(t, 1, m.cursorRow)

	m, _ = apply(t, m, runeKey("k"))
	require.Equal(t, 0, m.cursorRow)

	m, _ = apply(t, m, runeKey("k"))
	require.Equal(t, 0, m.cursorRow, "cursor clamps at the top")

	m, _ = apply(t, m, runeKey("G"))
	require.Equal(t, m.maxRow(), m.cursorRow)

	m, _ = apply(t, m, runeKey("g"))
	require.Equal(t, 0, m.cursorRow)
}

func TestHunkNavigation(t *testing.T) {
	m, _ := loadedModel(t, 120, 40)

	positions := hunkRowPositions(m.snap.File, session.ViewModeUnified)
	require.Len(t, positions, 2)

	m, _ = apply(t, m, runeKey("]"))
	require.Equal(t, positions[1], m.cursorRow)

	m, _ = apply(t, m, runeKey("["))
	require.Equal(t, positions[0], m.cursorRow)
}

func TestToggleSelectAndStage(t *testing.T) {
	m, exec := loadedModel(t, 120, 40)

	// Move onto "-old one" and select it.
	m, _ = apply(t, m, runeKey("j"))
	m, _ = apply(t, m, runeKey("j"))
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeySpace})

	snap := m.vm.Snapshot()
	require.Len(t, snap.Selected, 1)
	require.True(t, snap.IsSelected(diff.LineID{Hunk: 0, Pos: 2}))

	_, cmd := apply(t, m, runeKey("s"))
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(StageResultMsg)
	require.True(t, ok)
	require.NoError(t, result.Err)

	exec.mu.Lock()
	defer exec.mu.Unlock()
	require.Len(t, exec.stagedLines, 1)
	require.Equal(t, []diff.LineID{{Hunk: 0, Pos: 2}}, exec.stagedLines[0])
}

func TestStageHunkKey(t *testing.T) {
	m, exec := loadedModel(t, 120, 40)

	m, _ = apply(t, m, runeKey("]")) // Second hunk
	_, cmd := apply(t, m, runeKey("S"))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, StageResultMsg{}, msg)

	exec.mu.Lock()
	defer exec.mu.Unlock()
	require.Equal(t, []int{1}, exec.stagedHunks)
}

func TestStageResultReloads(t *testing.T) {
	m, _ := loadedModel(t, 120, 40)

	m, cmd := apply(t, m, StageResultMsg{})
	require.NotNil(t, cmd, "successful staging refreshes the diff and file list")
	require.Equal(t, "index updated", m.statusMsg)
}

// refreshSnap delivers the session's current snapshot to the model the way
// the pubsub listener would.
func refreshSnap(t *testing.T, m Model) Model {
	t.Helper()

	m, _ = apply(t, m, pubsub.Event[session.Snapshot]{
		Type:    pubsub.UpdatedEvent,
		Payload: m.vm.Snapshot(),
	})
	return m
}

func TestEscapePriority(t *testing.T) {
	m, _ := loadedModel(t, 120, 40)

	m.vm.SetSearchQuery("old")
	m, _ = apply(t, m, runeKey("j"))
	m, _ = apply(t, m, runeKey("j"))
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = refreshSnap(t, m)

	// First escape clears the search, second clears the selection.
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	require.Empty(t, m.vm.Snapshot().Search.Query)
	require.NotEmpty(t, m.vm.Snapshot().Selected)

	m = refreshSnap(t, m)
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	require.Empty(t, m.vm.Snapshot().Selected)
}

func TestToggleViewMode_WideTerminal(t *testing.T) {
	m, _ := loadedModel(t, 200, 40)

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Nil(t, cmd)
	require.Equal(t, session.ViewModeSplit, m.preferredMode)
	require.Equal(t, session.ViewModeSplit, m.vm.Snapshot().ViewMode)
}

func TestToggleViewMode_Constrained(t *testing.T) {
	m, _ := loadedModel(t, 80, 40)

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	require.Equal(t, session.ViewModeSplit, m.preferredMode, "preference is remembered")
	require.Equal(t, session.ViewModeUnified, m.vm.Snapshot().ViewMode)

	msg := cmd()
	constrained, ok := msg.(ViewModeConstrainedMsg)
	require.True(t, ok)
	require.Equal(t, session.ViewModeSplit, constrained.RequestedMode)
	require.Equal(t, minSideBySideWidth, constrained.MinWidth)

	// Growing the terminal applies the remembered preference.
	m, _ = apply(t, m, constrained)
	require.Contains(t, m.statusMsg, "too narrow")

	_, _ = apply(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	require.Equal(t, session.ViewModeSplit, m.vm.Snapshot().ViewMode)
}

func TestSearchInput(t *testing.T) {
	m, _ := loadedModel(t, 120, 40)

	m, cmd := apply(t, m, runeKey("/"))
	require.True(t, m.searching)
	require.NotNil(t, cmd)

	m, _ = apply(t, m, runeKey("o"))
	m, _ = apply(t, m, runeKey("l"))
	m, _ = apply(t, m, runeKey("d"))
	require.Equal(t, "old", m.vm.Snapshot().Search.Query)
	require.NotEmpty(t, m.vm.Snapshot().Search.Matches)

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.searching)

	before := m.vm.Snapshot().Search.Current
	m, _ = apply(t, m, runeKey("n"))
	require.NotEqual(t, before, m.vm.Snapshot().Search.Current)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := loadedModel(t, 120, 40)

	m, _ = apply(t, m, runeKey("?"))
	require.True(t, m.showHelp)
	require.Contains(t, m.View(), "Diff Viewer Help")

	m, _ = apply(t, m, runeKey("?"))
	require.False(t, m.showHelp)
}

func TestMouseWheelScrollsDiff(t *testing.T) {
	m, _ := loadedModel(t, 120, 10)

	wheel := tea.MouseMsg{Button: tea.MouseButtonWheelDown, X: 100, Y: 5}
	m, _ = apply(t, m, wheel)
	require.Equal(t, scrollLines, m.vp.offset)

	m, _ = apply(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelUp, X: 100, Y: 5})
	require.Equal(t, 0, m.vp.offset)
}

func TestView_RendersPanesAndStatus(t *testing.T) {
	m, _ := loadedModel(t, 120, 40)

	view := m.View()
	require.Contains(t, view, "app.go")
	require.Contains(t, view, "@@ -1,4 +1,4 @@")
	require.Contains(t, view, "main")
	require.Contains(t, view, "UNIFIED")
}

func TestProgram_EndToEnd(t *testing.T) {
	m := New(newFakeExecutor())

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "app.go")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runeKey("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
