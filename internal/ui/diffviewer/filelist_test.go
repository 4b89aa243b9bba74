package diffviewer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stagewise/internal/session"
)

func TestStatusIndicator(t *testing.T) {
	tests := []struct {
		name  string
		entry FileEntry
		want  string
	}{
		{"binary", FileEntry{Binary: true}, "B"},
		{"untracked", FileEntry{Untracked: true}, "?"},
		{"fully staged", FileEntry{Staged: true}, "●"},
		{"partially staged", FileEntry{Staged: true, Unstaged: true}, "◐"},
		{"modified", FileEntry{Unstaged: true}, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := statusIndicator(tt.entry)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatStats(t *testing.T) {
	require.Contains(t, formatStats(3, 1, false), "+3")
	require.Contains(t, formatStats(3, 1, false), "-1")
	require.Equal(t, "", formatStats(0, 0, false))
	require.Contains(t, formatStats(5, 0, true), "bin")
	require.NotContains(t, formatStats(0, 2, false), "+")
}

func TestRenderFileRow_ContainsNameAndStats(t *testing.T) {
	entry := FileEntry{Path: "internal/app/main.go", Additions: 4, Deletions: 2, Unstaged: true}

	row := renderFileRow(entry, false, false, 40)
	require.Contains(t, row, "main.go")
	require.Contains(t, row, "+4")
	require.Contains(t, row, "-2")
	require.Contains(t, row, "M")
}

func TestRenderFileRow_TruncatesDeepPaths(t *testing.T) {
	entry := FileEntry{Path: "a/very/deeply/nested/directory/structure/file.go"}

	row := renderFileRow(entry, false, false, 20)
	require.Contains(t, row, "file.go", "the filename survives truncation")
}

func TestRenderFileList_WindowAndPadding(t *testing.T) {
	files := make([]FileEntry, 10)
	for i := range files {
		files[i] = FileEntry{Path: string(rune('a'+i)) + ".go", Unstaged: true}
	}

	rows := renderFileList(files, 5, 3, 30, 4, true)
	require.Len(t, rows, 4)

	out := strings.Join(rows, "\n")
	require.Contains(t, out, "d.go")
	require.Contains(t, out, "g.go")
	require.NotContains(t, out, "a.go", "rows above the window are skipped")
	require.NotContains(t, out, "h.go", "rows below the window are skipped")
}

func TestRenderFileList_Empty(t *testing.T) {
	rows := renderFileList(nil, 0, 0, 30, 5, false)
	require.Len(t, rows, 5)
	require.Contains(t, strings.Join(rows, "\n"), "No changes")
}

func TestRenderStatusBar(t *testing.T) {
	bar := renderStatusBar(statusBarState{
		Branch:      "main",
		Path:        "app.go",
		Mode:        session.ViewModeUnified,
		Selected:    3,
		CurrentHunk: 2,
		TotalHunks:  5,
	}, 120)

	require.Contains(t, bar, "main")
	require.Contains(t, bar, "app.go")
	require.Contains(t, bar, "UNIFIED")
	require.Contains(t, bar, "hunk 2/5")
	require.Contains(t, bar, "3 selected")
}

func TestRenderStatusBar_StagedAndSearch(t *testing.T) {
	bar := renderStatusBar(statusBarState{
		Mode:       session.ViewModeSplit,
		AreaStaged: true,
		Search: session.SearchState{
			Query:   "foo",
			Current: -1,
		},
	}, 120)

	require.Contains(t, bar, "STAGED")
	require.Contains(t, bar, "SPLIT")
	require.Contains(t, bar, "/foo no matches")
}

func TestRenderStatusBar_ErrorWinsOverMessage(t *testing.T) {
	bar := renderStatusBar(statusBarState{
		Mode:    session.ViewModeUnified,
		Message: "index updated",
		Err:     errors.New("git exited with status 128"),
	}, 120)

	require.Contains(t, bar, "git exited")
	require.NotContains(t, bar, "index updated")
}

func TestTruncateMiddle(t *testing.T) {
	require.Equal(t, "short", truncateMiddle("short", 10))
	out := truncateMiddle("a long string that will not fit", 10)
	require.LessOrEqual(t, len([]rune(out)), 10)
	require.Contains(t, out, "…")
}
