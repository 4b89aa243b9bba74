// Package session owns the single active diff view: the displayed FileDiff,
// its selection, search, and viewport window. It mediates between the
// presentation layer and the git collaborator, serializing all structural
// mutations behind one mutex and discarding superseded load results.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"stagewise/internal/cachemanager"
	"stagewise/internal/diff"
	"stagewise/internal/git"
	"stagewise/internal/log"
	"stagewise/internal/pubsub"
)

// ErrStale is returned from LoadDiff when a newer load superseded the
// request before its result arrived. The stale result is discarded; the
// displayed diff is whatever the winning request installed.
var ErrStale = errors.New("diff load superseded by a newer request")

// DefaultOverscan is the number of extra rows materialized above and below
// the viewport when virtualization is active.
const DefaultOverscan = 10

type memoKey string

// Config seeds a new view model. Zero values fall back to unified mode and
// DefaultOverscan.
type Config struct {
	ViewMode ViewMode
	Overscan int
}

// ViewModel orchestrates one diff view session. All mutation entry points
// are serialized by an internal mutex; LoadDiff releases it while the git
// process runs so a newer load can supersede the outstanding one.
type ViewModel struct {
	mu sync.Mutex

	exec   git.Executor
	broker *pubsub.Broker[Snapshot]

	file       *diff.FileDiff
	diffID     string
	selection  *diff.Selection
	viewMode   ViewMode
	areaStaged bool

	search SearchState

	scrollOffset   int
	viewportHeight int
	overscan       int

	// Last successful load, replayed by Reload when the watcher fires.
	lastPath      string
	lastRefs      git.RefPair
	lastOpts      git.DiffOptions
	lastUntracked bool

	requestToken uint64
	inFlight     int

	// Derived artifacts are memoized per diff identity; a reload installs a
	// fresh identity so stale entries simply age out.
	wordDiffs *cachemanager.ReadThroughCache[memoKey, diff.FileWordDiff, *diff.FileDiff]
	searches  *cachemanager.ReadThroughCache[memoKey, []diff.MatchLocation, searchInput]
}

type searchInput struct {
	file  *diff.FileDiff
	query string
}

// New creates a view model backed by the given git executor.
func New(exec git.Executor, cfg Config) *ViewModel {
	mode := cfg.ViewMode
	if mode == "" {
		mode = ViewModeUnified
	}
	overscan := cfg.Overscan
	if overscan <= 0 {
		overscan = DefaultOverscan
	}

	return &ViewModel{
		exec:      exec,
		broker:    pubsub.NewBroker[Snapshot](),
		selection: diff.NewSelection(),
		viewMode:  mode,
		overscan:  overscan,
		search:    SearchState{Current: -1},
		wordDiffs: cachemanager.NewReadThroughCache(
			cachemanager.NewInMemoryCacheManager[memoKey, diff.FileWordDiff](
				"worddiff", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
			func(_ context.Context, file *diff.FileDiff) (diff.FileWordDiff, error) {
				return diff.ComputeFileWordDiff(*file), nil
			}, false),
		searches: cachemanager.NewReadThroughCache(
			cachemanager.NewInMemoryCacheManager[memoKey, []diff.MatchLocation](
				"search", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
			func(_ context.Context, in searchInput) ([]diff.MatchLocation, error) {
				return diff.FindMatches(in.file, in.query), nil
			}, false),
	}
}

// Subscribe returns a channel of state-change events. The channel closes
// when ctx is cancelled or the view model is closed.
func (m *ViewModel) Subscribe(ctx context.Context) <-chan pubsub.Event[Snapshot] {
	return m.broker.Subscribe(ctx)
}

// Listener returns a continuous listener suitable for driving a Bubble Tea
// update loop with snapshot events.
func (m *ViewModel) Listener(ctx context.Context) *pubsub.ContinuousListener[Snapshot] {
	return pubsub.NewContinuousListener(ctx, m.broker)
}

// Close shuts down the event broker.
func (m *ViewModel) Close() {
	m.broker.Close()
}

// LoadDiff fetches and installs the diff for one path. The previously
// displayed diff stays visible until the new one is installed. When several
// loads race, the last request wins: earlier results are discarded and their
// callers get ErrStale. Cancelling ctx kills the underlying git process but
// a superseded request is discarded regardless of whether it was cancelled.
func (m *ViewModel) LoadDiff(ctx context.Context, path string, refs git.RefPair, opts git.DiffOptions) (*diff.FileDiff, error) {
	m.mu.Lock()
	m.requestToken++
	token := m.requestToken
	m.inFlight++
	staged := m.areaStaged
	m.mu.Unlock()

	var raw string
	var err error
	if staged {
		raw, err = m.exec.GetStagedDiff(ctx, path, opts)
	} else {
		raw, err = m.exec.GetDiff(ctx, path, refs, opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--

	if token != m.requestToken {
		log.Debug(log.CatSession, "discarding superseded diff result", "path", path, "token", token)
		return nil, ErrStale
	}
	if err != nil {
		log.ErrorErr(log.CatSession, "diff load failed", err, "path", path)
		m.publishLocked(pubsub.ErrorEvent, err)
		return nil, err
	}

	fd, err := parseSingleFile(raw, path)
	if err != nil {
		log.ErrorErr(log.CatSession, "diff parse failed", err, "path", path)
		m.publishLocked(pubsub.ErrorEvent, err)
		return nil, err
	}

	m.installLocked(fd)
	m.lastPath, m.lastRefs, m.lastOpts, m.lastUntracked = path, refs, opts, false
	return m.file, nil
}

// LoadUntracked installs a synthetic all-additions diff for a file git does
// not know about yet. Follows the same last-request-wins discipline as
// LoadDiff.
func (m *ViewModel) LoadUntracked(ctx context.Context, path string) (*diff.FileDiff, error) {
	m.mu.Lock()
	m.requestToken++
	token := m.requestToken
	m.inFlight++
	m.mu.Unlock()

	content, err := m.exec.GetFileContent(path)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--

	if token != m.requestToken {
		return nil, ErrStale
	}
	if err != nil {
		log.ErrorErr(log.CatSession, "untracked file read failed", err, "path", path)
		m.publishLocked(pubsub.ErrorEvent, err)
		return nil, err
	}

	fd := diff.SyntheticAddition(path, content)
	m.installLocked(&fd)
	m.lastPath, m.lastRefs, m.lastOpts, m.lastUntracked = path, git.RefPair{}, git.DiffOptions{}, true
	return m.file, nil
}

// Reload re-runs the last successful load, if any. Used after staging
// operations and working-tree change notifications.
func (m *ViewModel) Reload(ctx context.Context) error {
	m.mu.Lock()
	path, refs, opts, untracked := m.lastPath, m.lastRefs, m.lastOpts, m.lastUntracked
	m.mu.Unlock()

	if path == "" {
		return nil
	}
	var err error
	if untracked {
		_, err = m.LoadUntracked(ctx, path)
	} else {
		_, err = m.LoadDiff(ctx, path, refs, opts)
	}
	if errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

// installLocked replaces the displayed diff. The selection is scoped to the
// old diff and is cleared; an active search query is re-indexed against the
// new content. Caller holds the mutex.
func (m *ViewModel) installLocked(fd *diff.FileDiff) {
	m.file = fd
	m.diffID = uuid.New().String()
	m.selection.Clear()

	m.search.Matches = m.findMatchesLocked(m.search.Query)
	if len(m.search.Matches) == 0 {
		m.search.Current = -1
	} else {
		m.search.Current = 0
	}

	log.Debug(log.CatSession, "diff installed",
		"path", fd.Path, "hunks", len(fd.Hunks), "lines", fd.TotalLines())
	m.publishLocked(pubsub.UpdatedEvent, nil)
}

// parseSingleFile extracts the FileDiff for path from raw git output. Empty
// output (no changes) yields an empty, non-nil diff so the view can render
// a clean state. git also prints nothing for a path that exists at neither
// ref; telling that apart from "no changes" would cost a second process
// call per load, so both render as an empty diff rather than an error.
func parseSingleFile(raw, path string) (*diff.FileDiff, error) {
	files, err := diff.Parse(raw)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].Path == path {
			return &files[i], nil
		}
	}
	if len(files) > 0 {
		return &files[0], nil
	}
	return &diff.FileDiff{Path: path}, nil
}

// SetViewMode switches between unified and split layout.
func (m *ViewModel) SetViewMode(mode ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown view mode %q", mode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.viewMode == mode {
		return nil
	}
	m.viewMode = mode
	m.publishLocked(pubsub.UpdatedEvent, nil)
	return nil
}

// SetStagedView switches the session between the unstaged and staged diff
// areas. The selection is scoped to one area and does not carry over; the
// caller is expected to follow with a LoadDiff for the new area.
func (m *ViewModel) SetStagedView(staged bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.areaStaged == staged {
		return
	}
	m.areaStaged = staged
	m.selection.Clear()
	m.publishLocked(pubsub.UpdatedEvent, nil)
}

// SetViewport records the scroll offset and viewport height, both in rows.
// Pure geometry: the next Snapshot reflects it, no event is published.
func (m *ViewModel) SetViewport(scrollOffset, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrollOffset = scrollOffset
	m.viewportHeight = height
}

// SetSearchQuery replaces the active query and re-indexes matches. The match
// cursor resets to the first match; an empty query clears the search.
func (m *ViewModel) SetSearchQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.search.Query = query
	m.search.Matches = m.findMatchesLocked(query)
	if len(m.search.Matches) == 0 {
		m.search.Current = -1
	} else {
		m.search.Current = 0
	}
	m.publishLocked(pubsub.UpdatedEvent, nil)
}

// NavigateMatch moves the match cursor by direction (+1 or -1) with
// wraparound. No-op when there are no matches.
func (m *ViewModel) NavigateMatch(direction int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.search.Matches) == 0 {
		return
	}
	m.search.Current = diff.AdvanceMatch(m.search.Current, direction, len(m.search.Matches))
	m.publishLocked(pubsub.UpdatedEvent, nil)
}

// ToggleLineSelection flips membership of one line in the selection.
// Context and hunk-header lines are not selectable; toggling them is a
// no-op.
func (m *ViewModel) ToggleLineSelection(id diff.LineID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return
	}
	line, ok := m.file.LineAt(id)
	if !ok {
		return
	}
	if m.selection.Toggle(line) {
		m.publishLocked(pubsub.UpdatedEvent, nil)
	}
}

// ClearSelection empties the selection.
func (m *ViewModel) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selection.Count() == 0 {
		return
	}
	m.selection.Clear()
	m.publishLocked(pubsub.UpdatedEvent, nil)
}

// DragSelect replaces the selection with the stageable lines in the closed
// position interval [from, to] of one hunk. Backs mouse drag selection.
func (m *ViewModel) DragSelect(hunkIndex, from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil || hunkIndex < 0 || hunkIndex >= len(m.file.Hunks) {
		return
	}
	m.selection.SelectRange(m.file.Hunks[hunkIndex], from, to)
	m.publishLocked(pubsub.UpdatedEvent, nil)
}

// CanStageSelection reports whether StageSelection would act.
func (m *ViewModel) CanStageSelection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file != nil && m.selection.CanStage(m.areaStaged)
}

// CanUnstageSelection reports whether UnstageSelection would act.
func (m *ViewModel) CanUnstageSelection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file != nil && m.selection.CanUnstage(m.areaStaged)
}

// StageSelection stages the selected lines. On success the selection is
// cleared; on failure the diff and selection are left untouched so the user
// can retry. The displayed diff is stale after a successful stage, so
// callers follow with Reload.
func (m *ViewModel) StageSelection(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil || !m.selection.CanStage(m.areaStaged) {
		return nil
	}
	ids := m.selection.IDs()
	if err := m.exec.StageLines(ctx, m.file, ids); err != nil {
		log.ErrorErr(log.CatSession, "stage selection failed", err, "path", m.file.Path, "lines", len(ids))
		m.publishLocked(pubsub.ErrorEvent, err)
		return err
	}

	log.Info(log.CatSession, "staged selection", "path", m.file.Path, "lines", len(ids))
	m.selection.Clear()
	m.publishLocked(pubsub.UpdatedEvent, nil)
	return nil
}

// UnstageSelection removes the selected lines from the index. Same success
// and failure semantics as StageSelection.
func (m *ViewModel) UnstageSelection(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil || !m.selection.CanUnstage(m.areaStaged) {
		return nil
	}
	ids := m.selection.IDs()
	if err := m.exec.UnstageLines(ctx, m.file, ids); err != nil {
		log.ErrorErr(log.CatSession, "unstage selection failed", err, "path", m.file.Path, "lines", len(ids))
		m.publishLocked(pubsub.ErrorEvent, err)
		return err
	}

	log.Info(log.CatSession, "unstaged selection", "path", m.file.Path, "lines", len(ids))
	m.selection.Clear()
	m.publishLocked(pubsub.UpdatedEvent, nil)
	return nil
}

// StageHunk stages every line of one hunk.
func (m *ViewModel) StageHunk(ctx context.Context, hunkIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil || hunkIndex < 0 || hunkIndex >= len(m.file.Hunks) {
		return nil
	}
	if err := m.exec.StageHunk(ctx, m.file, hunkIndex); err != nil {
		log.ErrorErr(log.CatSession, "stage hunk failed", err, "path", m.file.Path, "hunk", hunkIndex)
		m.publishLocked(pubsub.ErrorEvent, err)
		return err
	}

	log.Info(log.CatSession, "staged hunk", "path", m.file.Path, "hunk", hunkIndex)
	m.selection.Clear()
	m.publishLocked(pubsub.UpdatedEvent, nil)
	return nil
}

// UnstageHunk removes every line of one hunk from the index.
func (m *ViewModel) UnstageHunk(ctx context.Context, hunkIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil || hunkIndex < 0 || hunkIndex >= len(m.file.Hunks) {
		return nil
	}
	if err := m.exec.UnstageHunk(ctx, m.file, hunkIndex); err != nil {
		log.ErrorErr(log.CatSession, "unstage hunk failed", err, "path", m.file.Path, "hunk", hunkIndex)
		m.publishLocked(pubsub.ErrorEvent, err)
		return err
	}

	log.Info(log.CatSession, "unstaged hunk", "path", m.file.Path, "hunk", hunkIndex)
	m.selection.Clear()
	m.publishLocked(pubsub.UpdatedEvent, nil)
	return nil
}

// StageFile stages the whole path. Untracked files have no index entry to
// patch, so this is the only way to stage them.
func (m *ViewModel) StageFile(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.exec.StageFile(ctx, path); err != nil {
		log.ErrorErr(log.CatSession, "stage file failed", err, "path", path)
		m.publishLocked(pubsub.ErrorEvent, err)
		return err
	}

	log.Info(log.CatSession, "staged file", "path", path)
	m.selection.Clear()
	m.publishLocked(pubsub.UpdatedEvent, nil)
	return nil
}

// WordDiff returns the word-level highlighting for the current diff,
// memoized per diff identity. The computation is pure, so it runs outside
// the mutation mutex.
func (m *ViewModel) WordDiff(ctx context.Context) diff.FileWordDiff {
	m.mu.Lock()
	file := m.file
	id := m.diffID
	m.mu.Unlock()

	if file == nil {
		return diff.FileWordDiff{}
	}
	computed, _ := m.wordDiffs.Get(ctx, memoKey(id), file, cachemanager.DefaultExpiration)
	return computed
}

// findMatchesLocked resolves the query against the current diff, memoized
// per (diff identity, lowercased query). Caller holds the mutex.
func (m *ViewModel) findMatchesLocked(query string) []diff.MatchLocation {
	if m.file == nil || query == "" {
		return nil
	}
	key := memoKey(m.diffID + "\x00" + strings.ToLower(query))
	matches, _ := m.searches.Get(context.Background(), key,
		searchInput{file: m.file, query: query}, cachemanager.DefaultExpiration)
	return matches
}

// Snapshot returns the current read-only view state.
func (m *ViewModel) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(nil)
}

func (m *ViewModel) snapshotLocked(err error) Snapshot {
	selected := make(map[diff.LineID]bool, m.selection.Count())
	for _, id := range m.selection.IDs() {
		selected[id] = true
	}

	total := 0
	if m.file != nil {
		total = m.file.TotalLines()
	}

	return Snapshot{
		File:       m.file,
		DiffID:     m.diffID,
		ViewMode:   m.viewMode,
		AreaStaged: m.areaStaged,
		Visible:    diff.WindowFor(total, float64(m.scrollOffset), float64(m.viewportHeight), 1, m.overscan),
		Selected:   selected,
		Search:     m.search,
		Loading:    m.inFlight > 0,
		Err:        err,
	}
}

func (m *ViewModel) publishLocked(eventType pubsub.EventType, err error) {
	m.broker.Publish(eventType, m.snapshotLocked(err))
}
