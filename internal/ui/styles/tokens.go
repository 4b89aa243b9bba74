// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextPlaceholder ColorToken = "text.placeholder"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Selection
	TokenSelectionIndicator ColorToken = "selection.indicator"
	TokenSelectionBg        ColorToken = "selection.bg"

	// Search
	TokenSearchMatch        ColorToken = "search.match"
	TokenSearchMatchCurrent ColorToken = "search.match.current"

	// Diff lines
	TokenDiffAdded      ColorToken = "diff.added"
	TokenDiffAddedBg    ColorToken = "diff.added.bg"
	TokenDiffRemoved    ColorToken = "diff.removed"
	TokenDiffRemovedBg  ColorToken = "diff.removed.bg"
	TokenDiffContext    ColorToken = "diff.context"
	TokenDiffHunkHeader ColorToken = "diff.hunk_header"

	// Intraline word diff
	TokenDiffWordAddedBg   ColorToken = "diff.word.added.bg"
	TokenDiffWordRemovedBg ColorToken = "diff.word.removed.bg"

	// Gutter
	TokenLineNumber         ColorToken = "gutter.line_number"
	TokenLineNumberSelected ColorToken = "gutter.line_number.selected"

	// Scrollbar
	TokenScrollbarThumb ColorToken = "scrollbar.thumb"
	TokenScrollbarTrack ColorToken = "scrollbar.track"

	// File list
	TokenFileSelected  ColorToken = "files.selected"
	TokenFileStaged    ColorToken = "files.staged"
	TokenFileUntracked ColorToken = "files.untracked"

	// Misc
	TokenSpinner ColorToken = "spinner"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		// Text hierarchy
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenTextPlaceholder,

		// Borders
		TokenBorderDefault,
		TokenBorderFocus,

		// Status indicators
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		// Selection
		TokenSelectionIndicator,
		TokenSelectionBg,

		// Search
		TokenSearchMatch,
		TokenSearchMatchCurrent,

		// Diff lines
		TokenDiffAdded,
		TokenDiffAddedBg,
		TokenDiffRemoved,
		TokenDiffRemovedBg,
		TokenDiffContext,
		TokenDiffHunkHeader,

		// Intraline word diff
		TokenDiffWordAddedBg,
		TokenDiffWordRemovedBg,

		// Gutter
		TokenLineNumber,
		TokenLineNumberSelected,

		// Scrollbar
		TokenScrollbarThumb,
		TokenScrollbarTrack,

		// File list
		TokenFileSelected,
		TokenFileStaged,
		TokenFileUntracked,

		// Misc
		TokenSpinner,
	}
}
