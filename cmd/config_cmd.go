// Package cmd implements the fireledger CLI commands.
package cmd

import (
	"fmt"

	"github.com/fireledger/fireledger/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig
	path := configPath()

	if flagJSON {
		return printJSON(map[string]any{
			"path":   path,
			"config": cfg,
		})
	}

	fmt.Printf("  Config file: %s\n", path)
	if config.ExistsAt(path) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory:    %s\n", cfg.ResolvedDataDir())
	fmt.Printf("    Maturity window:   %d months\n", cfg.General.HorizonMonths)
	fmt.Printf("    Currency:          %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend: %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendSQLite {
		fmt.Printf("    SQLite:  %s\n", cfg.ResolvedSQLitePath())
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:        %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Refresh:        %s\n", cfg.Daemon.RefreshSchedule)
	fmt.Printf("    Events buffer:  %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  Run `fireledger setup` to reconfigure.")
	return nil
}
