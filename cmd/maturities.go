package cmd

import (
	"fmt"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagHorizon int
	flagTop     int
)

var maturitiesCmd = &cobra.Command{
	Use:     "maturities",
	Aliases: []string{"due"},
	Short:   "Records maturing within the next N months",
	RunE:    runMaturities,
}

func init() {
	maturitiesCmd.Flags().IntVar(&flagHorizon, "horizon", 0, "Months ahead to look (default from config)")
	maturitiesCmd.Flags().IntVarP(&flagTop, "top", "n", 0, "Show only the first N records (0 = all)")
	rootCmd.AddCommand(maturitiesCmd)
}

func runMaturities(cmd *cobra.Command, _ []string) error {
	horizon := appConfig.General.HorizonMonths
	if cmd.Flags().Changed("horizon") {
		if flagHorizon < 0 {
			return fmt.Errorf("--horizon must be non-negative, got %d", flagHorizon)
		}
		horizon = flagHorizon
	}

	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	ref := today()
	due := pipeline.ComputeUpcomingMaturities(result.Records, ref, horizon)
	if flagTop > 0 && len(due) > flagTop {
		due = due[:flagTop]
	}

	if flagJSON {
		if due == nil {
			due = []model.SavingsRecord{}
		}
		return printJSON(due)
	}

	until := ref.AddMonths(horizon)
	if len(due) == 0 {
		fmt.Printf("\n  Nothing matures between %s and %s.\n", ref, until)
		return nil
	}

	table := cli.Table{
		Title:   fmt.Sprintf("MATURING  %s to %s", ref, until),
		Headers: []string{"Matures", "Name", "Category", "Principal", "Maturity", "Interest"},
	}
	var principal, maturity float64
	for _, r := range due {
		principal += r.Amount
		maturity += r.MaturityAmount
		table.Rows = append(table.Rows, []string{
			r.EndDate.String(),
			r.Name,
			string(r.Category),
			cli.FormatAmount(r.Amount),
			cli.FormatAmount(r.MaturityAmount),
			cli.FormatSignedAmount(r.Interest()),
		})
	}
	table.Rows = append(table.Rows, cli.Separator(), []string{
		"Total", "", "",
		cli.FormatAmount(principal),
		cli.FormatAmount(maturity),
		cli.FormatSignedAmount(maturity - principal),
	})

	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}
