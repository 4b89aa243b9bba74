package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stagewise/internal/ui/styles"
)

func applyTheme(t *testing.T, cfg Config) error {
	t.Helper()
	t.Cleanup(func() {
		require.NoError(t, styles.ApplyTheme(styles.ThemeConfig{}))
	})
	return styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	})
}

func TestThemeConfig_WithPreset(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  preset: catppuccin-mocha
`)

	require.Equal(t, "catppuccin-mocha", cfg.Theme.Preset)

	require.NoError(t, applyTheme(t, cfg))

	// Catppuccin Mocha uses #CDD6F4 for text.primary
	require.Equal(t, "#CDD6F4", styles.TextPrimaryColor.Dark)
}

func TestThemeConfig_WithColorOverrides(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  colors:
    diff:
      added: "#FF0000"
    "status.error": "#00FF00"
`)

	require.NoError(t, applyTheme(t, cfg))

	require.Equal(t, "#FF0000", styles.DiffAddedColor.Dark)
	require.Equal(t, "#00FF00", styles.StatusErrorColor.Dark)
}

func TestThemeConfig_PresetWithOverrides(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  preset: dracula
  colors:
    diff.added: "#ABCDEF"
`)

	require.NoError(t, applyTheme(t, cfg))

	// Override wins, the rest of the preset still applies.
	require.Equal(t, "#ABCDEF", styles.DiffAddedColor.Dark)
	require.Equal(t, "#FF5555", styles.DiffRemovedColor.Dark)
}

func TestThemeConfig_UnknownPreset(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  preset: no-such-theme
`)

	require.Error(t, applyTheme(t, cfg))
}

func TestThemeConfig_UnknownToken(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  colors:
    diff.transmogrified: "#FFFFFF"
`)

	require.Error(t, applyTheme(t, cfg))
}
