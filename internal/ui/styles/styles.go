// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // File paths, secondary info
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholders

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused pane border

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Staged, success states
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Warnings
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors, conflicts

	// Selection (lines marked for staging)
	SelectionIndicatorColor  = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	SelectionBackgroundColor = lipgloss.AdaptiveColor{Light: "#D6E4FF", Dark: "#2C3A58"}

	// Search match highlighting
	SearchMatchColor        = lipgloss.AdaptiveColor{Light: "#FDF6B2", Dark: "#5C5229"}
	SearchMatchCurrentColor = lipgloss.AdaptiveColor{Light: "#FF9F43", Dark: "#B8860B"}

	// Diff line colors
	DiffAddedColor      = lipgloss.AdaptiveColor{Light: "#22863A", Dark: "#85E89D"}
	DiffAddedBgColor    = lipgloss.AdaptiveColor{Light: "#E6FFED", Dark: "#1C3323"}
	DiffRemovedColor    = lipgloss.AdaptiveColor{Light: "#B31D28", Dark: "#F97583"}
	DiffRemovedBgColor  = lipgloss.AdaptiveColor{Light: "#FFEEF0", Dark: "#3A1D23"}
	DiffContextColor    = lipgloss.AdaptiveColor{Light: "#444444", Dark: "#AAAAAA"}
	DiffHunkHeaderColor = lipgloss.AdaptiveColor{Light: "#6F42C1", Dark: "#B392F0"}

	// Intraline word-diff emphasis (stronger backgrounds than full lines)
	DiffWordAddedBgColor   = lipgloss.AdaptiveColor{Light: "#ACF2BD", Dark: "#2E5A38"}
	DiffWordRemovedBgColor = lipgloss.AdaptiveColor{Light: "#FDB8C0", Dark: "#63323B"}

	// Gutter line numbers
	LineNumberColor         = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#585858"}
	LineNumberSelectedColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Scrollbar
	ScrollbarThumbColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#585858"}
	ScrollbarTrackColor = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2D2D2D"}

	// File list
	FileSelectedColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"}
	FileStagedColor    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	FileUntrackedColor = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#777777"}

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}
)

// Styles built from the colors above. rebuildStyles regenerates them after
// ApplyTheme mutates the color variables.
var (
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedLineStyle       = lipgloss.NewStyle().Background(SelectionBackgroundColor)

	DiffAddedStyle      = lipgloss.NewStyle().Foreground(DiffAddedColor).Background(DiffAddedBgColor)
	DiffRemovedStyle    = lipgloss.NewStyle().Foreground(DiffRemovedColor).Background(DiffRemovedBgColor)
	DiffContextStyle    = lipgloss.NewStyle().Foreground(DiffContextColor)
	DiffHunkHeaderStyle = lipgloss.NewStyle().Foreground(DiffHunkHeaderColor).Bold(true)

	DiffWordAddedStyle   = lipgloss.NewStyle().Foreground(DiffAddedColor).Background(DiffWordAddedBgColor)
	DiffWordRemovedStyle = lipgloss.NewStyle().Foreground(DiffRemovedColor).Background(DiffWordRemovedBgColor)

	SearchMatchStyle        = lipgloss.NewStyle().Background(SearchMatchColor)
	SearchMatchCurrentStyle = lipgloss.NewStyle().Background(SearchMatchCurrentColor).Bold(true)

	LineNumberStyle         = lipgloss.NewStyle().Foreground(LineNumberColor)
	LineNumberSelectedStyle = lipgloss.NewStyle().Foreground(LineNumberSelectedColor).Bold(true)

	FileSelectedStyle  = lipgloss.NewStyle().Foreground(FileSelectedColor).Bold(true)
	FileStagedStyle    = lipgloss.NewStyle().Foreground(FileStagedColor)
	FileUntrackedStyle = lipgloss.NewStyle().Foreground(FileUntrackedColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)
