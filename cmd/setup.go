package cmd

import (
	"errors"
	"fmt"

	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := tui.RunSetup(appConfig)
	if errors.Is(err, tui.ErrFormAborted) {
		fmt.Println("  Setup canceled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	path := configPath()
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `fireledger setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
