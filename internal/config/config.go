// Package config provides configuration types and defaults for stagewise.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"stagewise/internal/log"
)

// Config holds all configuration options for stagewise.
type Config struct {
	AutoRefresh    bool                 `mapstructure:"auto_refresh"`
	Diff           DiffConfig           `mapstructure:"diff"`
	UI             UIConfig             `mapstructure:"ui"`
	Theme          ThemeConfig          `mapstructure:"theme"`
	Virtualization VirtualizationConfig `mapstructure:"virtualization"`
}

// DiffConfig holds diff generation options passed to git.
type DiffConfig struct {
	ContextLines     int  `mapstructure:"context_lines"`     // -U<n>, 0 means git default
	IgnoreWhitespace bool `mapstructure:"ignore_whitespace"` // -w
	IgnoreBlankLines bool `mapstructure:"ignore_blank_lines"`
	WordDiff         bool `mapstructure:"word_diff"` // Intraline highlighting on modified pairs
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ViewMode        string `mapstructure:"view_mode"` // "unified" (default) or "split"
	ShowLineNumbers bool   `mapstructure:"show_line_numbers"`
	ShowStatusBar   bool   `mapstructure:"show_status_bar"`
	ShowScrollbar   bool   `mapstructure:"show_scrollbar"`
	TabWidth        int    `mapstructure:"tab_width"`
}

// VirtualizationConfig tunes windowed rendering for large diffs.
type VirtualizationConfig struct {
	// Threshold is the line count above which only the visible window is
	// rendered. 0 uses the built-in default.
	Threshold int `mapstructure:"threshold"`

	// Overscan is the number of extra rows rendered above and below the
	// viewport to keep scrolling smooth.
	Overscan int `mapstructure:"overscan"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "catppuccin-latte",
	// "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     diff:
	//       added: "#00FF00"
	// Or quoted dot notation:
	//   colors:
	//     "diff.added": "#00FF00"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// ValidateDiff checks diff configuration for errors.
func ValidateDiff(d DiffConfig) error {
	if d.ContextLines < 0 {
		return fmt.Errorf("diff.context_lines must be >= 0, got %d", d.ContextLines)
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateUI(ui UIConfig) error {
	switch ui.ViewMode {
	case "", "unified", "split":
	default:
		return fmt.Errorf("ui.view_mode must be \"unified\" or \"split\", got %q", ui.ViewMode)
	}
	if ui.TabWidth < 0 {
		return fmt.Errorf("ui.tab_width must be >= 0, got %d", ui.TabWidth)
	}
	return nil
}

// ValidateVirtualization checks virtualization configuration for errors.
func ValidateVirtualization(v VirtualizationConfig) error {
	if v.Threshold < 0 {
		return fmt.Errorf("virtualization.threshold must be >= 0, got %d", v.Threshold)
	}
	if v.Overscan < 0 {
		return fmt.Errorf("virtualization.overscan must be >= 0, got %d", v.Overscan)
	}
	return nil
}

// ValidateTheme checks theme configuration for errors.
// Preset and color token values are validated by styles.ApplyTheme; this
// only checks the mode field.
func ValidateTheme(t ThemeConfig) error {
	switch t.Mode {
	case "", "light", "dark":
		return nil
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\", or empty, got %q", t.Mode)
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateDiff(c.Diff); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateVirtualization(c.Virtualization); err != nil {
		return err
	}
	return ValidateTheme(c.Theme)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoRefresh: true,
		Diff: DiffConfig{
			ContextLines:     3,
			IgnoreWhitespace: false,
			IgnoreBlankLines: false,
			WordDiff:         true,
		},
		UI: UIConfig{
			ViewMode:        "unified",
			ShowLineNumbers: true,
			ShowStatusBar:   true,
			ShowScrollbar:   true,
			TabWidth:        4,
		},
		Theme: ThemeConfig{
			Preset: "",
		},
		Virtualization: VirtualizationConfig{
			Threshold: 0, // Use the engine default
			Overscan:  10,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Stagewise Configuration

# Reload the diff automatically when files in the worktree change
auto_refresh: true

# Diff generation options (passed to git)
diff:
  context_lines: 3          # Context lines around each hunk (-U<n>)
  ignore_whitespace: false  # Ignore whitespace changes (-w)
  ignore_blank_lines: false
  word_diff: true           # Highlight changed words inside modified lines

# UI settings
ui:
  view_mode: unified     # "unified" or "split" (side by side)
  show_line_numbers: true
  show_status_bar: true
  show_scrollbar: true
  tab_width: 4

# Theme configuration
# Use a preset theme or customize individual colors
theme:
  # Use a preset:
  # preset: catppuccin-mocha
  #
  # Available presets:
  #   default           - Default stagewise theme
  #   catppuccin-mocha  - Warm, cozy dark theme
  #   catppuccin-latte  - Warm, cozy light theme
  #   dracula           - Dark theme with vibrant colors
  #   nord              - Arctic, north-bluish palette
  #   high-contrast     - High contrast for accessibility
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   diff.added: "#85E89D"
  #   diff.removed: "#F97583"
  #   search.match: "#5C5229"

# Windowed rendering for large diffs
# virtualization:
#   threshold: 1000  # Render only the visible window above this many lines
#   overscan: 10     # Extra rows rendered above/below the viewport
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// DefaultConfigPath returns the user-level config location,
// ~/.config/stagewise/config.yaml, or empty string if home dir unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "stagewise", "config.yaml")
}
