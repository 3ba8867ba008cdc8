package cmd

import (
	"fmt"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var distributionCmd = &cobra.Command{
	Use:     "distribution",
	Aliases: []string{"dist"},
	Short:   "Share of principal held in each category",
	RunE:    runDistribution,
}

func init() {
	rootCmd.AddCommand(distributionCmd)
}

func runDistribution(cmd *cobra.Command, _ []string) error {
	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	shares := pipeline.ComputeDistribution(result.Records, model.Categories)
	if flagJSON {
		return printJSON(shares)
	}

	var maxPrincipal float64
	for _, s := range shares {
		if s.Principal > maxPrincipal {
			maxPrincipal = s.Principal
		}
	}

	table := cli.Table{
		Title:   "ALLOCATION",
		Headers: []string{"Category", "Principal", "Share", ""},
	}
	for _, s := range shares {
		table.Rows = append(table.Rows, []string{
			string(s.Category),
			cli.FormatAmount(s.Principal),
			cli.FormatPercent(s.SharePercent),
			cli.RenderHorizontalBar(s.Principal, maxPrincipal, 20),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}
