package cmd

import (
	"fmt"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagSummaryCategory string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Portfolio totals, interest and ROI by category",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&flagSummaryCategory, "category", "c", "", "Only show one category (unknown names count as Others)")
	rootCmd.AddCommand(summaryCmd)
}

type summaryRow struct {
	Category        model.Category `json:"category"`
	Principal       float64        `json:"principal"`
	Maturity        float64        `json:"maturity"`
	Interest        float64        `json:"interest"`
	ProgressPercent float64        `json:"progress_percent"`
	ROIPercent      model.Number   `json:"roi_percent"`
}

func runSummary(cmd *cobra.Command, _ []string) error {
	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	records := result.Records
	if flagSummaryCategory != "" {
		records = pipeline.FilterByCategory(records, model.Category(flagSummaryCategory))
	}
	breakdown := pipeline.ComputeCategoryTotals(records, model.Categories)

	rows := make([]summaryRow, 0, breakdown.Len())
	for _, e := range breakdown.Entries() {
		s := pipeline.ComputePortfolioSummary(pipeline.FilterByCategory(records, e.Category))
		rows = append(rows, summaryRow{
			Category:        e.Category,
			Principal:       e.Totals.Principal,
			Maturity:        e.Totals.Maturity,
			Interest:        e.Totals.Interest(),
			ProgressPercent: s.ProgressPercent,
			ROIPercent:      model.Number(s.ROIPercent),
		})
	}

	if flagJSON {
		return printJSON(rows)
	}

	if len(result.Records) == 0 {
		fmt.Println()
		fmt.Println("  No savings recorded yet.")
		fmt.Println("  Add one with `fireledger savings add`.")
		return nil
	}

	table := cli.Table{
		Title:   fmt.Sprintf("PORTFOLIO  %s records", cli.FormatCount(len(records))),
		Headers: []string{"Category", "Principal", "Maturity", "Interest", "Progress", "ROI"},
	}
	for i, r := range rows {
		if i == 1 {
			table.Rows = append(table.Rows, cli.Separator())
		}
		if i > 0 && r.Principal == 0 && r.Maturity == 0 {
			continue
		}
		table.Rows = append(table.Rows, []string{
			string(r.Category),
			cli.FormatAmount(r.Principal),
			cli.FormatAmount(r.Maturity),
			cli.FormatSignedAmount(r.Interest),
			cli.FormatPercent(r.ProgressPercent),
			cli.FormatPercent(float64(r.ROIPercent)),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}
