// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the diff viewer.
type KeyMap struct {
	// Navigation
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Top          key.Binding
	Bottom       key.Binding
	NextHunk     key.Binding
	PrevHunk     key.Binding

	// Files
	NextFile   key.Binding
	PrevFile   key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding

	// Staging
	ToggleSelect     key.Binding
	RangeSelect      key.Binding
	StageSelection   key.Binding
	UnstageSelection key.Binding
	StageHunk        key.Binding
	UnstageHunk      key.Binding
	StageFile        key.Binding

	// View
	ToggleViewMode   key.Binding
	ToggleWhitespace key.Binding
	ToggleStagedView key.Binding
	ToggleBlame      key.Binding
	IncreaseContext  key.Binding
	DecreaseContext  key.Binding

	// Search
	FocusSearch key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding

	// General
	Refresh key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("pgdn", "page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		NextHunk: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next hunk"),
		),
		PrevHunk: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous hunk"),
		),

		// Files
		NextFile: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "previous file"),
		),
		FocusLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "focus file list"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "focus diff"),
		),

		// Staging
		ToggleSelect: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select line"),
		),
		RangeSelect: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "select range"),
		),
		StageSelection: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stage selection"),
		),
		UnstageSelection: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unstage selection"),
		),
		StageHunk: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stage hunk"),
		),
		UnstageHunk: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "unstage hunk"),
		),
		StageFile: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "stage file"),
		),

		// View
		ToggleViewMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "unified/split view"),
		),
		ToggleWhitespace: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle whitespace"),
		),
		ToggleStagedView: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "worktree/staged diff"),
		),
		ToggleBlame: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle blame"),
		),
		IncreaseContext: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more context"),
		),
		DecreaseContext: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "less context"),
		),

		// Search
		FocusSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous match"),
		),

		// General
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh diff"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection/search"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleSelect, k.StageSelection, k.UnstageSelection, k.FocusSearch, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.NextHunk, k.PrevHunk},  // Navigation
		{k.NextFile, k.PrevFile, k.FocusLeft, k.FocusRight},                            // Files
		{k.ToggleSelect, k.RangeSelect, k.StageSelection, k.UnstageSelection, k.StageHunk, k.UnstageHunk, k.StageFile}, // Staging
		{k.ToggleViewMode, k.ToggleWhitespace, k.ToggleStagedView, k.ToggleBlame, k.IncreaseContext, k.DecreaseContext}, // View
		{k.FocusSearch, k.NextMatch, k.PrevMatch},                                      // Search
		{k.Refresh, k.Help, k.Escape, k.Quit},                                          // General
	}
}
