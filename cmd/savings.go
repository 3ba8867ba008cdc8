package cmd

import (
	"fmt"
	"strconv"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"
	"github.com/fireledger/fireledger/internal/store"
	"github.com/fireledger/fireledger/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagRecName       string
	flagRecCategory   string
	flagRecAmount     string
	flagRecMaturity   string
	flagRecStart      string
	flagRecEnd        string
	flagRecComments   string
	flagRecAttachment string
	flagRecForm       bool

	flagListCategory string
	flagListName     string
)

var savingsCmd = &cobra.Command{
	Use:     "savings",
	Aliases: []string{"s"},
	Short:   "List and edit savings records",
	RunE:    runSavingsList,
}

var savingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List savings records with their index",
	RunE:  runSavingsList,
}

var savingsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a savings record",
	RunE:  runSavingsAdd,
}

var savingsUpdateCmd = &cobra.Command{
	Use:   "update <index>",
	Short: "Replace fields of the record at index",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavingsUpdate,
}

var savingsRemoveCmd = &cobra.Command{
	Use:     "remove <index>",
	Aliases: []string{"rm"},
	Short:   "Remove the record at index",
	Args:    cobra.ExactArgs(1),
	RunE:    runSavingsRemove,
}

func init() {
	for _, c := range []*cobra.Command{savingsAddCmd, savingsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&flagRecName, "name", "", "Record name")
		f.StringVar(&flagRecCategory, "category", string(model.CategoryOthers), "Category: FD, Insurance, MF, PPF, CASH, NPS, PF, Others")
		f.StringVar(&flagRecAmount, "amount", "", "Principal invested")
		f.StringVar(&flagRecMaturity, "maturity", "", "Expected amount at maturity")
		f.StringVar(&flagRecStart, "start", "", "Start date (YYYY-MM-DD)")
		f.StringVar(&flagRecEnd, "end", "", "Maturity date (YYYY-MM-DD)")
		f.StringVar(&flagRecComments, "comments", "", "Free-text note")
		f.StringVar(&flagRecAttachment, "file", "", "Attachment reference")
		f.BoolVar(&flagRecForm, "form", false, "Fill the record in an interactive form")
	}

	for _, c := range []*cobra.Command{savingsCmd, savingsListCmd} {
		c.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only list one category")
		c.Flags().StringVarP(&flagListName, "name", "n", "", "Only list records whose name contains this")
	}

	savingsCmd.AddCommand(savingsListCmd, savingsAddCmd, savingsUpdateCmd, savingsRemoveCmd)
	rootCmd.AddCommand(savingsCmd)
}

// indexedRecord keeps the store position alongside a filtered record.
type indexedRecord struct {
	Index int `json:"index"`
	model.SavingsRecord
}

func runSavingsList(cmd *cobra.Command, _ []string) error {
	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	var rows []indexedRecord
	for i, r := range result.Records {
		if pipeline.MatchesCategory(r, model.Category(flagListCategory)) && pipeline.MatchesName(r, flagListName) {
			rows = append(rows, indexedRecord{Index: i, SavingsRecord: r})
		}
	}

	if flagJSON {
		if rows == nil {
			rows = []indexedRecord{}
		}
		return printJSON(rows)
	}

	if len(rows) == 0 {
		fmt.Println("\n  No matching savings records.")
		return nil
	}

	table := cli.Table{
		Title:   "SAVINGS",
		Headers: []string{"#", "Name", "Category", "Principal", "Maturity", "Start", "End"},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(r.Index),
			r.Name,
			string(r.Category),
			cli.FormatAmount(r.Amount),
			cli.FormatAmount(r.MaturityAmount),
			r.StartDate.String(),
			r.EndDate.String(),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}

func runSavingsAdd(cmd *cobra.Command, _ []string) error {
	rec := model.SavingsRecord{Category: model.CategoryOthers}
	if err := applyRecordFlags(cmd, &rec); err != nil {
		return err
	}
	if flagRecForm {
		edited, err := tui.RunRecordForm(rec)
		if err != nil {
			return err
		}
		rec = edited
	}

	return withStore(func(st store.Store) error {
		if err := st.AppendRecord(cmd.Context(), rec); err != nil {
			return fmt.Errorf("saving record: %w", err)
		}
		logger.WithFields(logrus.Fields{"name": rec.Name, "category": rec.Category}).Info("record added")
		fmt.Printf("  Added %q (%s, %s)\n", rec.Name, rec.Category, cli.FormatAmount(rec.Amount))
		return nil
	})
}

func runSavingsUpdate(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	return withStore(func(st store.Store) error {
		ctx := cmd.Context()
		records, err := st.LoadRecords(ctx)
		if err != nil {
			return err
		}
		if index >= len(records) {
			return fmt.Errorf("record %d: %w", index, store.ErrIndexOutOfRange)
		}

		rec := records[index]
		if err := applyRecordFlags(cmd, &rec); err != nil {
			return err
		}
		if flagRecForm {
			if rec, err = tui.RunRecordForm(rec); err != nil {
				return err
			}
		}
		if err := st.ReplaceRecord(ctx, index, rec); err != nil {
			return fmt.Errorf("record %d: %w", index, err)
		}
		fmt.Printf("  Updated record %d (%s)\n", index, rec.Name)
		return nil
	})
}

func runSavingsRemove(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return withStore(func(st store.Store) error {
		if err := st.RemoveRecord(cmd.Context(), index); err != nil {
			return fmt.Errorf("record %d: %w", index, err)
		}
		fmt.Printf("  Removed record %d\n", index)
		return nil
	})
}

// applyRecordFlags copies every flag the user set onto rec.
func applyRecordFlags(cmd *cobra.Command, rec *model.SavingsRecord) error {
	f := cmd.Flags()
	if f.Changed("name") {
		rec.Name = flagRecName
	}
	if f.Changed("category") {
		rec.Category = model.Category(flagRecCategory)
	}
	if f.Changed("amount") {
		v, err := cli.ParseAmount(flagRecAmount)
		if err != nil {
			return fmt.Errorf("--amount: %w", err)
		}
		rec.Amount = v
	}
	if f.Changed("maturity") {
		v, err := cli.ParseAmount(flagRecMaturity)
		if err != nil {
			return fmt.Errorf("--maturity: %w", err)
		}
		rec.MaturityAmount = v
	}
	if f.Changed("start") {
		d, err := model.ParseDate(flagRecStart)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		rec.StartDate = d
	}
	if f.Changed("end") {
		d, err := model.ParseDate(flagRecEnd)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		rec.EndDate = d
	}
	if f.Changed("comments") {
		rec.Comments = flagRecComments
	}
	if f.Changed("file") {
		rec.Attachment = model.Attachment(flagRecAttachment)
	}
	return nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("index must be a non-negative integer, got %q", s)
	}
	return n, nil
}
