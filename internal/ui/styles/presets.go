package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"catppuccin-latte": CatppuccinLattePreset,
	"dracula":          DraculaPreset,
	"nord":             NordPreset,
	"high-contrast":    HighContrastPreset,
}

// DefaultPreset is the stock color scheme.
// Color values match the dark values of the AdaptiveColor definitions in styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default stagewise theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CCCCCC",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#696969",
		TokenTextPlaceholder: "#777777",

		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenSelectionIndicator: "#FFFFFF",
		TokenSelectionBg:        "#2C3A58",

		TokenSearchMatch:        "#5C5229",
		TokenSearchMatchCurrent: "#B8860B",

		TokenDiffAdded:      "#85E89D",
		TokenDiffAddedBg:    "#1C3323",
		TokenDiffRemoved:    "#F97583",
		TokenDiffRemovedBg:  "#3A1D23",
		TokenDiffContext:    "#AAAAAA",
		TokenDiffHunkHeader: "#B392F0",

		TokenDiffWordAddedBg:   "#2E5A38",
		TokenDiffWordRemovedBg: "#63323B",

		TokenLineNumber:         "#585858",
		TokenLineNumberSelected: "#54A0FF",

		TokenScrollbarThumb: "#585858",
		TokenScrollbarTrack: "#2D2D2D",

		TokenFileSelected:  "#54A0FF",
		TokenFileStaged:    "#73F59F",
		TokenFileUntracked: "#777777",

		TokenSpinner: "#FFFFFF",
	},
}

// CatppuccinMochaPreset is a warm dark theme.
// https://github.com/catppuccin/catppuccin
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Warm, cozy dark theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CDD6F4",
		TokenTextSecondary:   "#BAC2DE",
		TokenTextMuted:       "#6C7086",
		TokenTextPlaceholder: "#585B70",

		TokenBorderDefault: "#45475A",
		TokenBorderFocus:   "#89B4FA",

		TokenStatusSuccess: "#A6E3A1",
		TokenStatusWarning: "#F9E2AF",
		TokenStatusError:   "#F38BA8",

		TokenSelectionIndicator: "#F5E0DC",
		TokenSelectionBg:        "#45475A",

		TokenSearchMatch:        "#585B70",
		TokenSearchMatchCurrent: "#FAB387",

		TokenDiffAdded:      "#A6E3A1",
		TokenDiffAddedBg:    "#2A3B33",
		TokenDiffRemoved:    "#F38BA8",
		TokenDiffRemovedBg:  "#40303C",
		TokenDiffContext:    "#A6ADC8",
		TokenDiffHunkHeader: "#CBA6F7",

		TokenDiffWordAddedBg:   "#3C5343",
		TokenDiffWordRemovedBg: "#59414E",

		TokenLineNumber:         "#585B70",
		TokenLineNumberSelected: "#89B4FA",

		TokenScrollbarThumb: "#585B70",
		TokenScrollbarTrack: "#313244",

		TokenFileSelected:  "#89B4FA",
		TokenFileStaged:    "#A6E3A1",
		TokenFileUntracked: "#7F849C",

		TokenSpinner: "#CBA6F7",
	},
}

// CatppuccinLattePreset is the light counterpart of mocha.
var CatppuccinLattePreset = Preset{
	Name:        "catppuccin-latte",
	Description: "Warm, cozy light theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#4C4F69",
		TokenTextSecondary:   "#5C5F77",
		TokenTextMuted:       "#9CA0B0",
		TokenTextPlaceholder: "#ACB0BE",

		TokenBorderDefault: "#BCC0CC",
		TokenBorderFocus:   "#1E66F5",

		TokenStatusSuccess: "#40A02B",
		TokenStatusWarning: "#DF8E1D",
		TokenStatusError:   "#D20F39",

		TokenSelectionIndicator: "#4C4F69",
		TokenSelectionBg:        "#CCD0DA",

		TokenSearchMatch:        "#F9E2AF",
		TokenSearchMatchCurrent: "#FE640B",

		TokenDiffAdded:      "#40A02B",
		TokenDiffAddedBg:    "#DDEFD6",
		TokenDiffRemoved:    "#D20F39",
		TokenDiffRemovedBg:  "#F6D5DA",
		TokenDiffContext:    "#5C5F77",
		TokenDiffHunkHeader: "#8839EF",

		TokenDiffWordAddedBg:   "#B7DFA8",
		TokenDiffWordRemovedBg: "#EFAFBC",

		TokenLineNumber:         "#ACB0BE",
		TokenLineNumberSelected: "#1E66F5",

		TokenScrollbarThumb: "#ACB0BE",
		TokenScrollbarTrack: "#E6E9EF",

		TokenFileSelected:  "#1E66F5",
		TokenFileStaged:    "#40A02B",
		TokenFileUntracked: "#8C8FA1",

		TokenSpinner: "#8839EF",
	},
}

// DraculaPreset is a dark theme with vibrant colors.
// https://draculatheme.com
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dark theme with vibrant colors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#F8F8F2",
		TokenTextSecondary:   "#BFBFBF",
		TokenTextMuted:       "#6272A4",
		TokenTextPlaceholder: "#6272A4",

		TokenBorderDefault: "#44475A",
		TokenBorderFocus:   "#BD93F9",

		TokenStatusSuccess: "#50FA7B",
		TokenStatusWarning: "#F1FA8C",
		TokenStatusError:   "#FF5555",

		TokenSelectionIndicator: "#F8F8F2",
		TokenSelectionBg:        "#44475A",

		TokenSearchMatch:        "#44475A",
		TokenSearchMatchCurrent: "#FFB86C",

		TokenDiffAdded:      "#50FA7B",
		TokenDiffAddedBg:    "#2A4032",
		TokenDiffRemoved:    "#FF5555",
		TokenDiffRemovedBg:  "#4A2B33",
		TokenDiffContext:    "#BFBFBF",
		TokenDiffHunkHeader: "#BD93F9",

		TokenDiffWordAddedBg:   "#3A593F",
		TokenDiffWordRemovedBg: "#6B3A42",

		TokenLineNumber:         "#6272A4",
		TokenLineNumberSelected: "#8BE9FD",

		TokenScrollbarThumb: "#6272A4",
		TokenScrollbarTrack: "#343746",

		TokenFileSelected:  "#8BE9FD",
		TokenFileStaged:    "#50FA7B",
		TokenFileUntracked: "#6272A4",

		TokenSpinner: "#FF79C6",
	},
}

// NordPreset uses the arctic, north-bluish palette.
// https://nordtheme.com
var NordPreset = Preset{
	Name:        "nord",
	Description: "Arctic, north-bluish palette",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#D8DEE9",
		TokenTextSecondary:   "#E5E9F0",
		TokenTextMuted:       "#4C566A",
		TokenTextPlaceholder: "#4C566A",

		TokenBorderDefault: "#3B4252",
		TokenBorderFocus:   "#88C0D0",

		TokenStatusSuccess: "#A3BE8C",
		TokenStatusWarning: "#EBCB8B",
		TokenStatusError:   "#BF616A",

		TokenSelectionIndicator: "#ECEFF4",
		TokenSelectionBg:        "#434C5E",

		TokenSearchMatch:        "#4C566A",
		TokenSearchMatchCurrent: "#D08770",

		TokenDiffAdded:      "#A3BE8C",
		TokenDiffAddedBg:    "#36413A",
		TokenDiffRemoved:    "#BF616A",
		TokenDiffRemovedBg:  "#443238",
		TokenDiffContext:    "#D8DEE9",
		TokenDiffHunkHeader: "#B48EAD",

		TokenDiffWordAddedBg:   "#46584A",
		TokenDiffWordRemovedBg: "#5C4147",

		TokenLineNumber:         "#4C566A",
		TokenLineNumberSelected: "#88C0D0",

		TokenScrollbarThumb: "#4C566A",
		TokenScrollbarTrack: "#2E3440",

		TokenFileSelected:  "#88C0D0",
		TokenFileStaged:    "#A3BE8C",
		TokenFileUntracked: "#4C566A",

		TokenSpinner: "#B48EAD",
	},
}

// HighContrastPreset maximizes legibility for accessibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#FFFFFF",
		TokenTextSecondary:   "#FFFFFF",
		TokenTextMuted:       "#C0C0C0",
		TokenTextPlaceholder: "#C0C0C0",

		TokenBorderDefault: "#FFFFFF",
		TokenBorderFocus:   "#FFFF00",

		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		TokenSelectionIndicator: "#FFFF00",
		TokenSelectionBg:        "#0000AA",

		TokenSearchMatch:        "#555500",
		TokenSearchMatchCurrent: "#AAAA00",

		TokenDiffAdded:      "#00FF00",
		TokenDiffAddedBg:    "#003300",
		TokenDiffRemoved:    "#FF0000",
		TokenDiffRemovedBg:  "#330000",
		TokenDiffContext:    "#FFFFFF",
		TokenDiffHunkHeader: "#00FFFF",

		TokenDiffWordAddedBg:   "#006600",
		TokenDiffWordRemovedBg: "#660000",

		TokenLineNumber:         "#C0C0C0",
		TokenLineNumberSelected: "#FFFF00",

		TokenScrollbarThumb: "#FFFFFF",
		TokenScrollbarTrack: "#333333",

		TokenFileSelected:  "#FFFF00",
		TokenFileStaged:    "#00FF00",
		TokenFileUntracked: "#C0C0C0",

		TokenSpinner: "#FFFFFF",
	},
}
