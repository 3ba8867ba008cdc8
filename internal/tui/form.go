package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"

	"github.com/charmbracelet/huh"
)

// ErrFormAborted is returned when the user cancels a form.
var ErrFormAborted = errors.New("form aborted")

// recordValues holds the raw text a record form edits.
type recordValues struct {
	Name       string
	Category   string
	Amount     string
	Maturity   string
	Start      string
	End        string
	Comments   string
	Attachment string
}

func recordValuesFrom(r model.SavingsRecord) recordValues {
	v := recordValues{
		Name:       r.Name,
		Category:   string(r.Category),
		Start:      r.StartDate.String(),
		End:        r.EndDate.String(),
		Comments:   r.Comments,
		Attachment: string(r.Attachment),
	}
	if v.Category == "" {
		v.Category = string(model.CategoryOthers)
	}
	if r.Amount != 0 {
		v.Amount = strconv.FormatFloat(r.Amount, 'f', -1, 64)
	}
	if r.MaturityAmount != 0 {
		v.Maturity = strconv.FormatFloat(r.MaturityAmount, 'f', -1, 64)
	}
	return v
}

// toRecord validates the form text and builds the record. Empty amounts
// are zero and empty dates are the zero date.
func (v recordValues) toRecord() (model.SavingsRecord, error) {
	r := model.SavingsRecord{
		Name:       strings.TrimSpace(v.Name),
		Category:   model.Category(v.Category),
		Comments:   strings.TrimSpace(v.Comments),
		Attachment: model.Attachment(strings.TrimSpace(v.Attachment)),
	}
	if r.Name == "" {
		return r, errors.New("name is required")
	}

	var err error
	if r.Amount, err = optionalAmount(v.Amount); err != nil {
		return r, fmt.Errorf("amount: %w", err)
	}
	if r.MaturityAmount, err = optionalAmount(v.Maturity); err != nil {
		return r, fmt.Errorf("maturity amount: %w", err)
	}
	if r.StartDate, err = model.ParseDate(v.Start); err != nil {
		return r, fmt.Errorf("start date: %w", err)
	}
	if r.EndDate, err = model.ParseDate(v.End); err != nil {
		return r, fmt.Errorf("end date: %w", err)
	}
	return r, nil
}

func optionalAmount(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return cli.ParseAmount(s)
}

func validateAmount(s string) error {
	_, err := optionalAmount(s)
	return err
}

func validateDate(s string) error {
	_, err := model.ParseDate(s)
	return err
}

func categoryOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		opts[i] = huh.NewOption(string(c), string(c))
	}
	return opts
}

// newRecordForm builds the add/edit form bound to vals.
func newRecordForm(title string, vals *recordValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Name of the deposit, policy or fund").
				Value(&vals.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions()...).
				Value(&vals.Category),
			huh.NewInput().
				Title("Amount invested").
				Placeholder("100000").
				Value(&vals.Amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Amount at maturity").
				Placeholder("125000").
				Value(&vals.Maturity).
				Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Placeholder(model.DateFormat).
				Value(&vals.Start).
				Validate(validateDate),
			huh.NewInput().
				Title("Maturity date").
				Placeholder(model.DateFormat).
				Value(&vals.End).
				Validate(validateDate),
			huh.NewText().
				Title("Comments").
				Value(&vals.Comments),
			huh.NewInput().
				Title("Attachment").
				Description("Optional file reference").
				Value(&vals.Attachment),
		),
	).WithShowHelp(true)
}

// RunRecordForm runs the record form standalone, starting from initial.
func RunRecordForm(initial model.SavingsRecord) (model.SavingsRecord, error) {
	vals := recordValuesFrom(initial)
	if err := newRecordForm("Savings record", &vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return initial, ErrFormAborted
		}
		return initial, err
	}
	return vals.toRecord()
}
