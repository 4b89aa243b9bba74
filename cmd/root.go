// Package cmd contains the CLI entry point.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stagewise/internal/config"
	"stagewise/internal/git"
	"stagewise/internal/log"
	"stagewise/internal/ui/diffviewer"
	"stagewise/internal/ui/styles"
	"stagewise/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "stagewise [path]",
	Short:   "A terminal ui for reviewing and staging git diffs",
	Long:    `A terminal user interface for reviewing working tree changes hunk by hunk and staging individual lines, hunks, or files into the git index.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/stagewise/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to stagewise-debug.log")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic refresh when worktree files change")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("diff.context_lines", defaults.Diff.ContextLines)
	viper.SetDefault("diff.ignore_whitespace", defaults.Diff.IgnoreWhitespace)
	viper.SetDefault("diff.ignore_blank_lines", defaults.Diff.IgnoreBlankLines)
	viper.SetDefault("diff.word_diff", defaults.Diff.WordDiff)
	viper.SetDefault("ui.view_mode", defaults.UI.ViewMode)
	viper.SetDefault("ui.show_line_numbers", defaults.UI.ShowLineNumbers)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.show_scrollbar", defaults.UI.ShowScrollbar)
	viper.SetDefault("ui.tab_width", defaults.UI.TabWidth)
	viper.SetDefault("virtualization.threshold", defaults.Virtualization.Threshold)
	viper.SetDefault("virtualization.overscan", defaults.Virtualization.Overscan)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if path := config.DefaultConfigPath(); path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file yet - create one with the defaults so users have
		// a commented template to edit.
		if errors.Is(err, fs.ErrNotExist) || isConfigNotFound(err) {
			if path := viper.ConfigFileUsed(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					_ = viper.ReadInConfig()
				}
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func isConfigNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug || os.Getenv("STAGEWISE_DEBUG") != "" {
		cleanup, err := log.InitWithTeaLog("stagewise-debug.log", "stagewise")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
	} else {
		log.SetEnabled(false)
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}

	exec := git.NewRealExecutor(repoPath)
	if !exec.IsGitRepo() {
		return fmt.Errorf("not a git repository: %s", repoPath)
	}
	repoRoot, err := exec.GetRepoRoot()
	if err != nil {
		return fmt.Errorf("resolving repository root: %w", err)
	}

	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	configFilePath := viper.ConfigFileUsed()

	model := diffviewer.NewWithConfig(exec, cfg, configFilePath)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	var w *watcher.Watcher
	if cfg.AutoRefresh {
		w, err = watcher.New(watcher.DefaultConfig(repoRoot))
		if err != nil {
			return fmt.Errorf("creating worktree watcher: %w", err)
		}
		changes, err := w.Start()
		if err != nil {
			return fmt.Errorf("starting worktree watcher: %w", err)
		}
		go func() {
			for range changes {
				p.Send(diffviewer.WorkingTreeChangedMsg{})
			}
		}()
	}

	_, runErr := p.Run()

	model.Close()
	if w != nil {
		if stopErr := w.Stop(); stopErr != nil && runErr == nil {
			runErr = stopErr
		}
	}

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
