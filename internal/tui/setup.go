package tui

import (
	"errors"
	"strconv"

	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the answers of the first-run wizard.
type setupValues struct {
	DataDir  string
	Backend  string
	Currency string
	Horizon  string
	Theme    string
}

func setupValuesFrom(cfg config.Config) setupValues {
	return setupValues{
		DataDir:  cfg.ResolvedDataDir(),
		Backend:  cfg.Storage.Backend,
		Currency: cfg.General.Currency,
		Horizon:  strconv.Itoa(cfg.General.HorizonMonths),
		Theme:    cfg.Appearance.Theme,
	}
}

// apply copies the answers onto cfg and validates the result.
func (v setupValues) apply(cfg config.Config) (config.Config, error) {
	cfg.General.DataDir = v.DataDir
	cfg.Storage.Backend = v.Backend
	cfg.General.Currency = v.Currency
	cfg.Appearance.Theme = v.Theme

	n, err := strconv.Atoi(v.Horizon)
	if err != nil {
		return cfg, errors.New("horizon must be a whole number of months")
	}
	cfg.General.HorizonMonths = n
	return cfg, cfg.Validate()
}

func newSetupForm(vals *setupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fireledger").
				Description("A few questions and you are ready to track savings."),
			huh.NewInput().
				Title("Data directory").
				Description("Where savings, goals and the FIRE plan are stored").
				Value(&vals.DataDir),
			huh.NewSelect[string]().
				Title("Storage").
				Options(
					huh.NewOption("JSON files (compatible with the mobile app)", config.BackendJSON),
					huh.NewOption("SQLite database", config.BackendSQLite),
				).
				Value(&vals.Backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.Currency),
			huh.NewInput().
				Title("Maturity window (months)").
				Value(&vals.Horizon).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return errors.New("enter a non-negative whole number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}

// RunSetup asks the wizard questions and returns cfg updated with the answers.
func RunSetup(cfg config.Config) (config.Config, error) {
	vals := setupValuesFrom(cfg)
	if err := newSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cfg, ErrFormAborted
		}
		return cfg, err
	}
	return vals.apply(cfg)
}
