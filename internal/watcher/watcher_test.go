package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) <-chan struct{} {
	t.Helper()
	w, err := New(Config{Root: root, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)
	return ch
}

func waitForSignal(t *testing.T, ch <-chan struct{}, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	ch := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	require.True(t, waitForSignal(t, ch, 2*time.Second), "expected a change signal")
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	ch := startWatcher(t, dir)

	// A burst of writes inside the debounce window collapses to one signal.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte{byte('a' + i)}, 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.True(t, waitForSignal(t, ch, 2*time.Second))
	require.False(t, waitForSignal(t, ch, 200*time.Millisecond), "burst should coalesce into a single signal")
}

func TestWatcher_IgnoresGitDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	ch := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "index.lock"), []byte("x"), 0o644))

	require.False(t, waitForSignal(t, ch, 300*time.Millisecond), "events under .git should not trigger a refresh")
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	ch := startWatcher(t, dir)

	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.True(t, waitForSignal(t, ch, 2*time.Second), "directory creation should signal")

	// Files inside the new directory are watched too.
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.go"), []byte("package pkg\n"), 0o644))
	require.True(t, waitForSignal(t, ch, 2*time.Second), "write in new subdirectory should signal")
}

func TestWatcher_StopClosesCleanly(t *testing.T) {
	dir := t.TempDir()
	w, err := New(DefaultConfig(dir))
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}
