package diffviewer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stagewise/internal/config"
	"stagewise/internal/diff"
	"stagewise/internal/git"
	"stagewise/internal/keys"
	"stagewise/internal/log"
	"stagewise/internal/pubsub"
	"stagewise/internal/session"
	"stagewise/internal/ui/styles"
)

const scrollLines = 3

// Model is the top-level diff viewer: a file list pane beside a diff pane
// with a one-line status bar underneath. It owns the session view model and
// consumes its snapshot events through a pubsub listener.
type Model struct {
	vm   *session.ViewModel
	exec git.Executor
	keys keys.KeyMap

	width  int
	height int
	focus  focusPane

	files         []FileEntry
	selectedFile  int
	fileScrollTop int

	snap session.Snapshot
	vp   viewport

	// scrollPositions remembers the diff scroll offset per path so switching
	// files round-trips back to where the user was.
	scrollPositions map[string]int

	cursorRow   int
	rangeAnchor int // Flattened row of the range-select anchor; -1 when off

	// preferredMode is what the user asked for; it can differ from the
	// snapshot's mode while the pane is too narrow for side-by-side.
	preferredMode session.ViewMode

	searchInput textinput.Model
	searching   bool

	showHelp bool
	help     helpModel

	showBlame bool
	blame     map[int]git.BlameLine
	blamePath string

	opts   git.DiffOptions
	branch string

	showLineNumbers bool
	showStatusBar   bool
	showScrollbar   bool
	wordDiffOn      bool
	tabWidth        int
	configPath      string

	dragging     bool
	dragStartRow int

	statusMsg string
	err       error

	ctx      context.Context
	cancel   context.CancelFunc
	listener *pubsub.ContinuousListener[session.Snapshot]
}

// New creates the diff viewer around a git executor with default settings.
func New(exec git.Executor) Model {
	return NewWithConfig(exec, config.Defaults(), "")
}

// NewWithConfig creates the diff viewer with user configuration applied.
// configPath, when set, is where toggled settings (view mode, whitespace,
// context lines) are persisted.
func NewWithConfig(exec git.Executor, cfg config.Config, configPath string) Model {
	mode := session.ViewMode(cfg.UI.ViewMode)
	if !mode.Valid() {
		mode = session.ViewModeUnified
	}

	ctx, cancel := context.WithCancel(context.Background())
	vm := session.New(exec, session.Config{
		ViewMode: mode,
		Overscan: cfg.Virtualization.Overscan,
	})

	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "search"
	input.CharLimit = 128

	km := keys.DefaultKeyMap()

	return Model{
		vm:              vm,
		exec:            exec,
		keys:            km,
		snap:            vm.Snapshot(),
		scrollPositions: make(map[string]int),
		cursorRow:       0,
		rangeAnchor:     -1,
		preferredMode:   mode,
		searchInput:     input,
		help:            newHelp(km),
		opts: git.DiffOptions{
			ContextLines:     cfg.Diff.ContextLines,
			IgnoreWhitespace: cfg.Diff.IgnoreWhitespace,
			IgnoreBlankLines: cfg.Diff.IgnoreBlankLines,
		},
		showLineNumbers: cfg.UI.ShowLineNumbers,
		showStatusBar:   cfg.UI.ShowStatusBar,
		showScrollbar:   cfg.UI.ShowScrollbar,
		wordDiffOn:      cfg.Diff.WordDiff,
		tabWidth:        cfg.UI.TabWidth,
		configPath:      configPath,
		ctx:             ctx,
		cancel:          cancel,
		listener:        vm.Listener(ctx),
	}
}

// Init starts the listener and the initial file list load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadFilesCmd(), m.listener.Listen())
}

// Update handles messages for the diff viewer.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.refreshViewport()
		m.applyModeConstraint()
		return m, nil

	case pubsub.Event[session.Snapshot]:
		m.snap = msg.Payload
		if msg.Type == pubsub.ErrorEvent {
			m.err = msg.Payload.Err
		}
		m.refreshViewport()
		return m, m.listener.Listen()

	case FilesLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.files = msg.Files
		m.branch = msg.Branch
		m.err = nil
		if m.selectedFile >= len(m.files) {
			m.selectedFile = max(0, len(m.files)-1)
		}
		m.clampFileScroll()
		if len(m.files) > 0 {
			return m, m.loadDiffCmd(m.files[m.selectedFile])
		}
		return m, nil

	case DiffLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.statusMsg = ""
		m.cursorRow = 0
		m.rangeAnchor = -1
		if offset, ok := m.scrollPositions[msg.Path]; ok {
			m.vp.scrollTo(offset)
		} else {
			m.vp.gotoTop()
		}
		m.syncViewport()
		if m.showBlame && m.blamePath != msg.Path {
			return m, m.blameCmd(msg.Path)
		}
		return m, nil

	case StageResultMsg:
		if msg.Err != nil {
			m.err = msg.Err
			if errors.Is(msg.Err, git.ErrStagingConflict) {
				m.statusMsg = "staging conflict: refresh and retry"
			}
			return m, nil
		}
		m.err = nil
		m.statusMsg = "index updated"
		return m, tea.Batch(m.reloadCmd(), m.loadFilesCmd())

	case BlameLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.showBlame = false
			return m, nil
		}
		m.blamePath = msg.Path
		m.blame = make(map[int]git.BlameLine, len(msg.Lines))
		for _, bl := range msg.Lines {
			m.blame[bl.LineNum] = bl
		}
		return m, nil

	case ViewModeConstrainedMsg:
		m.statusMsg = fmt.Sprintf("terminal too narrow for side-by-side (need %d cols)", msg.MinWidth)
		return m, nil

	case WorkingTreeChangedMsg:
		return m, tea.Batch(m.reloadCmd(), m.loadFilesCmd())
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		m.vm.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		return m.handleEscape()

	case key.Matches(msg, m.keys.FocusLeft):
		m.focus = focusFileList
		return m, nil

	case key.Matches(msg, m.keys.FocusRight):
		m.focus = focusDiff
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.moveUp()

	case key.Matches(msg, m.keys.Down):
		return m.moveDown()

	case key.Matches(msg, m.keys.PageUp):
		m.vp.pageUp()
		m.cursorRow = max(0, m.cursorRow-m.vp.height)
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.vp.pageDown()
		m.cursorRow = min(m.maxRow(), m.cursorRow+m.vp.height)
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.vp.halfPageUp()
		m.cursorRow = max(0, m.cursorRow-m.vp.height/2)
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.vp.halfPageDown()
		m.cursorRow = min(m.maxRow(), m.cursorRow+m.vp.height/2)
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.vp.gotoTop()
		m.cursorRow = 0
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.vp.gotoBottom()
		m.cursorRow = m.maxRow()
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.NextHunk):
		m.jumpHunk(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevHunk):
		m.jumpHunk(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextFile):
		return m.selectFile(m.selectedFile + 1)

	case key.Matches(msg, m.keys.PrevFile):
		return m.selectFile(m.selectedFile - 1)

	case key.Matches(msg, m.keys.ToggleSelect):
		m.toggleCursorLine()
		return m, nil

	case key.Matches(msg, m.keys.RangeSelect):
		m.rangeSelect()
		return m, nil

	case key.Matches(msg, m.keys.StageSelection):
		if m.vm.CanStageSelection() {
			return m, m.stageCmd(func(ctx context.Context) error { return m.vm.StageSelection(ctx) })
		}
		return m, nil

	case key.Matches(msg, m.keys.UnstageSelection):
		if m.vm.CanUnstageSelection() {
			return m, m.stageCmd(func(ctx context.Context) error { return m.vm.UnstageSelection(ctx) })
		}
		return m, nil

	case key.Matches(msg, m.keys.StageHunk):
		if hunk := m.currentHunkIndex(); hunk >= 0 && !m.snap.AreaStaged {
			return m, m.stageCmd(func(ctx context.Context) error { return m.vm.StageHunk(ctx, hunk) })
		}
		return m, nil

	case key.Matches(msg, m.keys.UnstageHunk):
		if hunk := m.currentHunkIndex(); hunk >= 0 && m.snap.AreaStaged {
			return m, m.stageCmd(func(ctx context.Context) error { return m.vm.UnstageHunk(ctx, hunk) })
		}
		return m, nil

	case key.Matches(msg, m.keys.StageFile):
		if entry, ok := m.selectedEntry(); ok {
			path := entry.Path
			return m, m.stageCmd(func(ctx context.Context) error { return m.vm.StageFile(ctx, path) })
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleViewMode):
		return m.toggleViewMode()

	case key.Matches(msg, m.keys.ToggleWhitespace):
		m.opts.IgnoreWhitespace = !m.opts.IgnoreWhitespace
		m.saveSetting(func(path string) error {
			return config.SaveIgnoreWhitespace(path, m.opts.IgnoreWhitespace)
		})
		if entry, ok := m.selectedEntry(); ok {
			return m, m.loadDiffCmd(entry)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleStagedView):
		m.vm.SetStagedView(!m.snap.AreaStaged)
		return m, m.reloadCmd()

	case key.Matches(msg, m.keys.ToggleBlame):
		return m.toggleBlame()

	case key.Matches(msg, m.keys.IncreaseContext):
		m.opts.ContextLines = m.effectiveContext() + 1
		m.saveSetting(func(path string) error {
			return config.SaveContextLines(path, m.opts.ContextLines)
		})
		if entry, ok := m.selectedEntry(); ok {
			return m, m.loadDiffCmd(entry)
		}
		return m, nil

	case key.Matches(msg, m.keys.DecreaseContext):
		m.opts.ContextLines = max(1, m.effectiveContext()-1)
		m.saveSetting(func(path string) error {
			return config.SaveContextLines(path, m.opts.ContextLines)
		})
		if entry, ok := m.selectedEntry(); ok {
			return m, m.loadDiffCmd(entry)
		}
		return m, nil

	case key.Matches(msg, m.keys.FocusSearch):
		m.searching = true
		m.searchInput.SetValue(m.snap.Search.Query)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextMatch):
		m.navigateMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.navigateMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.reloadCmd(), m.loadFilesCmd())
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.searching = false
		m.searchInput.Blur()
		m.vm.SetSearchQuery("")
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		m.scrollToCurrentMatch()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.vm.SetSearchQuery(m.searchInput.Value())
	return m, cmd
}

func (m Model) handleEscape() (tea.Model, tea.Cmd) {
	switch {
	case m.rangeAnchor >= 0:
		m.rangeAnchor = -1
	case m.snap.Search.Query != "":
		m.vm.SetSearchQuery("")
	case len(m.snap.Selected) > 0:
		m.vm.ClearSelection()
	}
	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.X < m.fileListWidth() {
			if msg.Button == tea.MouseButtonWheelUp {
				m.fileScrollTop = max(0, m.fileScrollTop-scrollLines)
			} else {
				m.fileScrollTop = min(max(0, len(m.files)-m.innerHeight()), m.fileScrollTop+scrollLines)
			}
			return m, nil
		}
		if msg.Button == tea.MouseButtonWheelUp {
			m.vp.scrollUp(scrollLines)
		} else {
			m.vp.scrollDown(scrollLines)
		}
		m.syncViewport()
		return m, nil

	case tea.MouseButtonLeft:
		return m.handleLeftMouse(msg)
	}

	return m, nil
}

func (m Model) handleLeftMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	inDiff := msg.X >= m.fileListWidth()
	row := msg.Y - 1 // Top border

	switch msg.Action {
	case tea.MouseActionPress:
		if !inDiff {
			idx := m.fileScrollTop + row
			if idx >= 0 && idx < len(m.files) {
				m.focus = focusFileList
				return m.selectFile(idx)
			}
			return m, nil
		}
		m.focus = focusDiff
		if m.snap.ViewMode != session.ViewModeUnified {
			return m, nil
		}
		target := m.vp.offset + row
		if target >= 0 && target <= m.maxRow() {
			m.cursorRow = target
			m.dragging = false
			m.dragStartRow = target
		}
		return m, nil

	case tea.MouseActionMotion:
		if !inDiff || m.snap.ViewMode != session.ViewModeUnified {
			return m, nil
		}
		target := m.vp.offset + row
		if target < 0 || target > m.maxRow() || target == m.dragStartRow {
			return m, nil
		}
		m.dragging = true
		m.cursorRow = target
		m.dragBetween(m.dragStartRow, target)
		return m, nil

	case tea.MouseActionRelease:
		if inDiff && !m.dragging && m.snap.ViewMode == session.ViewModeUnified {
			m.toggleCursorLine()
		}
		m.dragging = false
		return m, nil
	}

	return m, nil
}

// View renders the two panes and the status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	fileListW := m.fileListWidth()
	diffW := m.width - fileListW
	innerH := m.innerHeight()

	fileRows := renderFileList(m.files, m.selectedFile, m.fileScrollTop, fileListW-2, innerH, m.focus == focusFileList)
	filePane := styles.RenderPane(fileRows, "Files", fmt.Sprintf("%d", len(m.files)), fileListW, m.focus == focusFileList)

	diffPane := m.renderDiffPane(diffW, innerH)

	view := lipgloss.JoinHorizontal(lipgloss.Top, filePane, diffPane)
	if m.showStatusBar || m.searching {
		view += "\n" + m.renderStatusLine()
	}

	if m.showHelp {
		return m.help.Overlay(view)
	}
	return view
}

func (m Model) renderDiffPane(width, innerH int) string {
	contentWidth := max(1, width-3) // Borders plus scrollbar column

	rc := renderContext{
		snap:            m.snap,
		matches:         buildMatchIndex(m.snap.Search),
		cursorRow:       -1,
		showLineNumbers: m.showLineNumbers,
		showBlame:       m.showBlame,
		blame:           m.blame,
		tabWidth:        m.tabWidth,
	}
	if m.wordDiffOn {
		rc.wordDiff = m.vm.WordDiff(m.ctx)
	}
	if m.focus == focusDiff && m.snap.ViewMode == session.ViewModeUnified {
		rc.cursorRow = m.cursorRow
	}

	rows := renderDiffRows(rc, m.vp, contentWidth, m.snap.ViewMode)

	if m.showScrollbar {
		bar := strings.Split(renderScrollbar(scrollbarConfig{
			TotalLines:     m.vp.total,
			ViewportHeight: innerH,
			ScrollOffset:   m.vp.offset,
		}), "\n")
		for i := range rows {
			if i < len(bar) {
				rows[i] += bar[i]
			}
		}
	}

	title := "Diff"
	if entry, ok := m.selectedEntry(); ok {
		title = styles.TruncatePath(entry.Path, max(10, width/2))
	}
	hint := string(m.snap.ViewMode)
	if m.snap.AreaStaged {
		hint += ", staged"
	}
	return styles.RenderPane(rows, title, hint, width, m.focus == focusDiff)
}

func (m Model) renderStatusLine() string {
	if m.searching {
		return styles.StatusBarStyle.Width(m.width).Render(m.searchInput.View())
	}

	state := statusBarState{
		Branch:     m.branch,
		Mode:       m.snap.ViewMode,
		AreaStaged: m.snap.AreaStaged,
		Selected:   len(m.snap.Selected),
		Search:     m.snap.Search,
		Loading:    m.snap.Loading,
		Message:    m.statusMsg,
		Err:        m.err,
	}
	if entry, ok := m.selectedEntry(); ok {
		state.Path = entry.Path
	}
	if m.snap.File != nil {
		state.TotalHunks = len(m.snap.File.Hunks)
		state.CurrentHunk = m.currentHunkIndex() + 1
	}
	return renderStatusBar(state, m.width)
}

// Close releases the session and the listener subscription.
func (m *Model) Close() {
	m.cancel()
	m.vm.Close()
}

// --- Navigation helpers ---

func (m Model) moveUp() (tea.Model, tea.Cmd) {
	if m.focus == focusFileList {
		return m.selectFile(m.selectedFile - 1)
	}
	if m.snap.ViewMode == session.ViewModeUnified {
		m.cursorRow = max(0, m.cursorRow-1)
		m.vp.ensureVisible(m.cursorRow)
	} else {
		m.vp.scrollUp(1)
	}
	m.syncViewport()
	return m, nil
}

func (m Model) moveDown() (tea.Model, tea.Cmd) {
	if m.focus == focusFileList {
		return m.selectFile(m.selectedFile + 1)
	}
	if m.snap.ViewMode == session.ViewModeUnified {
		m.cursorRow = min(m.maxRow(), m.cursorRow+1)
		m.vp.ensureVisible(m.cursorRow)
	} else {
		m.vp.scrollDown(1)
	}
	m.syncViewport()
	return m, nil
}

func (m Model) selectFile(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.files) || idx == m.selectedFile {
		return m, nil
	}
	if entry, ok := m.selectedEntry(); ok {
		m.scrollPositions[entry.Path] = m.vp.offset
	}
	m.selectedFile = idx
	m.clampFileScroll()
	m.blame = nil
	m.blamePath = ""
	return m, m.loadDiffCmd(m.files[idx])
}

func (m *Model) clampFileScroll() {
	h := m.innerHeight()
	if h <= 0 {
		return
	}
	if m.selectedFile < m.fileScrollTop {
		m.fileScrollTop = m.selectedFile
	}
	if m.selectedFile >= m.fileScrollTop+h {
		m.fileScrollTop = m.selectedFile - h + 1
	}
}

func (m *Model) jumpHunk(direction int) {
	if m.snap.File == nil {
		return
	}
	positions := hunkRowPositions(m.snap.File, m.snap.ViewMode)
	if len(positions) == 0 {
		return
	}
	ref := m.referenceRow()

	if direction > 0 {
		idx := sort.SearchInts(positions, ref+1)
		if idx >= len(positions) {
			return
		}
		m.moveCursorTo(positions[idx])
		return
	}
	idx := sort.SearchInts(positions, ref) - 1
	if idx < 0 {
		return
	}
	m.moveCursorTo(positions[idx])
}

func (m *Model) moveCursorTo(row int) {
	m.cursorRow = row
	m.vp.scrollTo(row)
	m.syncViewport()
}

// referenceRow is the row hunk navigation and the status bar key off: the
// cursor in unified mode, the top of the window otherwise.
func (m Model) referenceRow() int {
	if m.snap.ViewMode == session.ViewModeUnified && m.focus == focusDiff {
		return m.cursorRow
	}
	return m.vp.offset
}

// currentHunkIndex returns the 0-based hunk containing the reference row,
// or -1 when there is no diff.
func (m Model) currentHunkIndex() int {
	if m.snap.File == nil || len(m.snap.File.Hunks) == 0 {
		return -1
	}
	positions := hunkRowPositions(m.snap.File, m.snap.ViewMode)
	ref := m.referenceRow()
	idx := sort.SearchInts(positions, ref+1) - 1
	return max(idx, 0)
}

func (m Model) maxRow() int {
	return max(0, m.vp.total-1)
}

// --- Selection helpers ---

func (m *Model) toggleCursorLine() {
	if m.snap.File == nil || m.snap.ViewMode != session.ViewModeUnified {
		return
	}
	line, ok := m.snap.File.LineAtFlattenedIndex(m.cursorRow)
	if !ok {
		return
	}
	m.vm.ToggleLineSelection(line.ID)
}

func (m *Model) rangeSelect() {
	if m.snap.File == nil || m.snap.ViewMode != session.ViewModeUnified {
		return
	}
	if m.rangeAnchor < 0 {
		m.rangeAnchor = m.cursorRow
		m.statusMsg = "range select: move and press v again"
		return
	}
	m.dragBetween(m.rangeAnchor, m.cursorRow)
	m.rangeAnchor = -1
	m.statusMsg = ""
}

// dragBetween selects the stageable lines between two flattened rows when
// both fall inside the same hunk.
func (m *Model) dragBetween(fromRow, toRow int) {
	if m.snap.File == nil {
		return
	}
	a, okA := m.snap.File.LineAtFlattenedIndex(fromRow)
	b, okB := m.snap.File.LineAtFlattenedIndex(toRow)
	if !okA || !okB {
		return
	}
	if a.ID.Hunk != b.ID.Hunk {
		m.statusMsg = "selection cannot span hunks"
		return
	}
	m.vm.DragSelect(a.ID.Hunk, min(a.ID.Pos, b.ID.Pos), max(a.ID.Pos, b.ID.Pos))
}

// --- View mode and blame ---

func (m Model) toggleViewMode() (tea.Model, tea.Cmd) {
	requested := session.ViewModeSplit
	if m.snap.ViewMode == session.ViewModeSplit {
		requested = session.ViewModeUnified
	}
	m.preferredMode = requested

	if requested == session.ViewModeSplit && m.diffInnerWidth() < minSideBySideWidth {
		msg := ViewModeConstrainedMsg{
			RequestedMode: requested,
			MinWidth:      minSideBySideWidth,
			CurrentWidth:  m.diffInnerWidth(),
		}
		return m, func() tea.Msg { return msg }
	}

	if err := m.vm.SetViewMode(requested); err != nil {
		m.err = err
		return m, nil
	}
	m.saveSetting(func(path string) error {
		return config.SaveViewMode(path, string(requested))
	})
	return m, nil
}

// saveSetting persists a toggled setting to the config file, best effort.
func (m Model) saveSetting(save func(path string) error) {
	if m.configPath == "" {
		return
	}
	if err := save(m.configPath); err != nil {
		log.Warn(log.CatConfig, "Failed to save setting", "error", err)
	}
}

// applyModeConstraint reconciles the active layout with the preference after
// a resize: split falls back to unified when the pane is too narrow and is
// restored once it fits again.
func (m *Model) applyModeConstraint() {
	fits := m.diffInnerWidth() >= minSideBySideWidth
	switch {
	case m.snap.ViewMode == session.ViewModeSplit && !fits:
		_ = m.vm.SetViewMode(session.ViewModeUnified)
	case m.preferredMode == session.ViewModeSplit && fits && m.snap.ViewMode == session.ViewModeUnified:
		_ = m.vm.SetViewMode(session.ViewModeSplit)
	}
}

func (m Model) toggleBlame() (tea.Model, tea.Cmd) {
	m.showBlame = !m.showBlame
	if !m.showBlame {
		return m, nil
	}
	entry, ok := m.selectedEntry()
	if !ok || entry.Untracked {
		m.showBlame = false
		return m, nil
	}
	if m.blamePath == entry.Path && m.blame != nil {
		return m, nil
	}
	return m, m.blameCmd(entry.Path)
}

// --- Search helpers ---

func (m *Model) navigateMatch(direction int) {
	m.vm.NavigateMatch(direction)
	m.snap = m.vm.Snapshot()
	m.scrollToCurrentMatch()
}

func (m *Model) scrollToCurrentMatch() {
	snap := m.vm.Snapshot()
	match, ok := snap.Search.CurrentMatch()
	if !ok || snap.File == nil {
		return
	}
	row := rowOfLine(snap.File, match.LineID, snap.ViewMode)
	if row < 0 {
		return
	}
	m.cursorRow = row
	m.vp.ensureVisible(row)
	m.syncViewport()
}

// --- Geometry ---

func (m Model) fileListWidth() int {
	w := m.width / 4
	return min(max(w, 24), 40)
}

func (m Model) diffInnerWidth() int {
	return max(1, m.width-m.fileListWidth()-3)
}

func (m Model) innerHeight() int {
	h := m.height - 2 // Pane borders
	if m.showStatusBar || m.searching {
		h--
	}
	return max(1, h)
}

func (m *Model) refreshViewport() {
	m.vp.setHeight(m.innerHeight())
	if m.snap.File != nil {
		m.vp.setTotal(totalRows(m.snap.File, m.snap.ViewMode))
	} else {
		m.vp.setTotal(0)
	}
	m.cursorRow = min(m.cursorRow, m.maxRow())
	m.syncViewport()
}

func (m *Model) syncViewport() {
	m.vm.SetViewport(m.vp.offset, m.vp.height)
}

func (m Model) selectedEntry() (FileEntry, bool) {
	if m.selectedFile < 0 || m.selectedFile >= len(m.files) {
		return FileEntry{}, false
	}
	return m.files[m.selectedFile], true
}

func (m Model) effectiveContext() int {
	if m.opts.ContextLines == 0 {
		return 3
	}
	return m.opts.ContextLines
}

// --- Commands ---

// loadFilesCmd refreshes the changed-file list from git status plus the
// working tree diff stats.
func (m Model) loadFilesCmd() tea.Cmd {
	exec := m.exec
	opts := m.opts
	ctx := m.ctx
	return func() tea.Msg {
		entries, err := exec.Status(ctx)
		if err != nil {
			return FilesLoadedMsg{Err: err}
		}

		stats := make(map[string]diff.FileDiff)
		if raw, err := exec.GetWorkingDirDiff(ctx, opts); err == nil {
			if parsed, err := diff.Parse(raw); err == nil {
				for _, fd := range parsed {
					stats[fd.Path] = fd
				}
			}
		}

		files := make([]FileEntry, 0, len(entries))
		for _, e := range entries {
			entry := FileEntry{
				Path:      e.Path,
				Staged:    e.Staged,
				Unstaged:  e.Unstaged,
				Untracked: e.Untracked,
			}
			if fd, ok := stats[e.Path]; ok {
				entry.Additions = fd.Additions
				entry.Deletions = fd.Deletions
				entry.Binary = fd.IsBinary
			}
			files = append(files, entry)
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

		branch, _ := exec.GetCurrentBranch()
		return FilesLoadedMsg{Files: files, Branch: branch}
	}
}

// loadDiffCmd loads the diff for one file entry into the session. Stale
// results are dropped silently; only the winning load produces a message.
func (m Model) loadDiffCmd(entry FileEntry) tea.Cmd {
	vm := m.vm
	opts := m.opts
	ctx := m.ctx
	return func() tea.Msg {
		var err error
		if entry.Untracked {
			_, err = vm.LoadUntracked(ctx, entry.Path)
		} else {
			_, err = vm.LoadDiff(ctx, entry.Path, git.RefPair{}, opts)
		}
		if errors.Is(err, session.ErrStale) {
			return nil
		}
		return DiffLoadedMsg{Path: entry.Path, Err: err}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	vm := m.vm
	ctx := m.ctx
	return func() tea.Msg {
		if err := vm.Reload(ctx); err != nil {
			return DiffLoadedMsg{Err: err}
		}
		return nil
	}
}

func (m Model) stageCmd(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return StageResultMsg{Err: op(ctx)}
	}
}

func (m Model) blameCmd(path string) tea.Cmd {
	exec := m.exec
	ctx := m.ctx
	return func() tea.Msg {
		lines, err := exec.GetBlame(ctx, path)
		return BlameLoadedMsg{Path: path, Lines: lines, Err: err}
	}
}
