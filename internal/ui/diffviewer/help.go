package diffviewer

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"stagewise/internal/keys"
	"stagewise/internal/ui/overlay"
	"stagewise/internal/ui/styles"
)

// Help styles (package-level to avoid recreating each render).
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimaryColor).
			PaddingLeft(2)

	helpDividerStyle = lipgloss.NewStyle().
				Foreground(styles.BorderDefaultColor)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.TextPrimaryColor).
				MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.BorderFocusColor)

	helpContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	helpFooterStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// helpModel holds the help overlay state.
type helpModel struct {
	keys   keys.KeyMap
	width  int
	height int
}

func newHelp(km keys.KeyMap) helpModel {
	return helpModel{keys: km}
}

// SetSize updates the overlay dimensions.
func (h helpModel) SetSize(width, height int) helpModel {
	h.width = width
	h.height = height
	return h
}

// Overlay renders the help box on top of a background view.
func (h helpModel) Overlay(background string) string {
	helpBox := h.renderContent()

	if background == "" {
		return lipgloss.Place(
			h.width, h.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(h.width, h.height, helpBox, background)
}

// renderContent builds the help box content.
func (h helpModel) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	navCol := renderHelpSection("Navigation",
		h.keys.Up, h.keys.Down, h.keys.PageUp, h.keys.PageDown,
		h.keys.Top, h.keys.Bottom, h.keys.NextHunk, h.keys.PrevHunk,
		h.keys.NextFile, h.keys.PrevFile, h.keys.FocusLeft, h.keys.FocusRight,
	)

	stagingCol := renderHelpSection("Staging",
		h.keys.ToggleSelect, h.keys.RangeSelect,
		h.keys.StageSelection, h.keys.UnstageSelection,
		h.keys.StageHunk, h.keys.UnstageHunk, h.keys.StageFile,
	)

	viewCol := renderHelpSection("View",
		h.keys.ToggleViewMode, h.keys.ToggleWhitespace, h.keys.ToggleStagedView,
		h.keys.ToggleBlame, h.keys.IncreaseContext, h.keys.DecreaseContext,
	)

	var generalCol strings.Builder
	generalCol.WriteString(renderHelpSection("Search",
		h.keys.FocusSearch, h.keys.NextMatch, h.keys.PrevMatch,
	))
	generalCol.WriteString(renderHelpSection("General",
		h.keys.Refresh, h.keys.Help, h.keys.Quit,
	))

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(navCol),
		columnStyle.Render(stagingCol),
		columnStyle.Render(viewCol),
		generalCol.String(),
	)

	columnsWidth := lipgloss.Width(columns)
	boxWidth := columnsWidth + 4

	footer := helpFooterStyle.Render("Press ? or Esc to close")

	var body strings.Builder
	body.WriteString(columns)
	body.WriteString("\n")
	body.WriteString(footer)

	bodyContent := helpContentStyle.Render(body.String())
	divider := helpDividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(helpTitleStyle.Render("Diff Viewer Help"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(bodyContent)

	return helpBoxStyle.Width(boxWidth).Render(content.String())
}

// renderHelpSection renders a titled column of keybindings.
func renderHelpSection(title string, bindings ...key.Binding) string {
	var b strings.Builder
	b.WriteString(helpSectionStyle.Render(title))
	b.WriteString("\n")
	for _, binding := range bindings {
		help := binding.Help()
		b.WriteString(helpKeyStyle.Render(help.Key))
		b.WriteString(helpDescStyle.Render(help.Desc))
		b.WriteString("\n")
	}
	return b.String()
}
