package cmd

import (
	"fmt"
	"time"

	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagTUIRefresh time.Duration

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&flagTUIRefresh, "refresh", 0, "Reload data on this interval (0 disables)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	path := configPath()

	app := tui.NewApp(tui.Options{
		Open:         openStore,
		Config:       appConfig,
		ConfigPath:   path,
		NeedSetup:    !config.ExistsAt(path),
		RefreshEvery: flagTUIRefresh,
		Log:          logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
