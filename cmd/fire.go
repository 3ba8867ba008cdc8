package cmd

import (
	"fmt"
	"strconv"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"
	"github.com/fireledger/fireledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagFireCurrentAge    int
	flagFireRetireAge     int
	flagFireTarget        string
	flagFireNetWorth      string
	flagFireSavings       string
	flagFireSavingsTarget string
	flagFireReturn        string
	flagFireInflation     string
	flagFireSWR           string

	flagIncomeSource    string
	flagIncomeAmount    string
	flagIncomeFrequency string
	flagIncomePassive   bool

	flagExpenseCategory  string
	flagExpenseAmount    string
	flagExpenseEssential bool
)

var fireCmd = &cobra.Command{
	Use:   "fire",
	Short: "Show and edit the retirement plan",
	RunE:  runFireShow,
}

var fireShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the plan and its monthly cash flow",
	RunE:  runFireShow,
}

var fireProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project net worth year by year until the target age",
	RunE:  runFireProject,
}

var fireSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update plan parameters",
	RunE:  runFireSet,
}

var fireIncomeCmd = &cobra.Command{Use: "income", Short: "Manage income sources"}

var fireIncomeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an income source",
	RunE:  runFireIncomeAdd,
}

var fireIncomeRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove an income source",
	Args:  cobra.ExactArgs(1),
	RunE:  runFireIncomeRemove,
}

var fireExpenseCmd = &cobra.Command{Use: "expense", Short: "Manage monthly expenses"}

var fireExpenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a monthly expense",
	RunE:  runFireExpenseAdd,
}

var fireExpenseRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a monthly expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runFireExpenseRemove,
}

func init() {
	f := fireSetCmd.Flags()
	f.IntVar(&flagFireCurrentAge, "current-age", 0, "Current age")
	f.IntVar(&flagFireRetireAge, "retire-age", 0, "Target retirement age")
	f.StringVar(&flagFireTarget, "target", "", "Target retirement corpus")
	f.StringVar(&flagFireNetWorth, "net-worth", "", "Current net worth")
	f.StringVar(&flagFireSavings, "monthly-savings", "", "Current monthly savings")
	f.StringVar(&flagFireSavingsTarget, "savings-target", "", "Monthly savings target")
	f.StringVar(&flagFireReturn, "return", "", "Expected annual return, percent")
	f.StringVar(&flagFireInflation, "inflation", "", "Annual inflation, percent")
	f.StringVar(&flagFireSWR, "withdrawal-rate", "", "Safe withdrawal rate, percent")

	fi := fireIncomeAddCmd.Flags()
	fi.StringVar(&flagIncomeSource, "source", "", "Income source name")
	fi.StringVar(&flagIncomeAmount, "amount", "", "Amount per period")
	fi.StringVar(&flagIncomeFrequency, "frequency", string(model.Monthly), "Monthly or Annually")
	fi.BoolVar(&flagIncomePassive, "passive", false, "Income arrives without active work")
	_ = fireIncomeAddCmd.MarkFlagRequired("amount")

	fe := fireExpenseAddCmd.Flags()
	fe.StringVar(&flagExpenseCategory, "category", "Others", "Expense category")
	fe.StringVar(&flagExpenseAmount, "amount", "", "Monthly amount")
	fe.BoolVar(&flagExpenseEssential, "essential", false, "Expense is essential")
	_ = fireExpenseAddCmd.MarkFlagRequired("amount")

	fireIncomeCmd.AddCommand(fireIncomeAddCmd, fireIncomeRemoveCmd)
	fireExpenseCmd.AddCommand(fireExpenseAddCmd, fireExpenseRemoveCmd)
	fireCmd.AddCommand(fireShowCmd, fireProjectCmd, fireSetCmd, fireIncomeCmd, fireExpenseCmd)
	rootCmd.AddCommand(fireCmd)
}

type fireOverviewJSON struct {
	Profile           model.FireGoalProfile `json:"profile"`
	MonthlyIncome     float64               `json:"monthly_income"`
	PassiveIncome     float64               `json:"passive_income"`
	MonthlyExpenses   float64               `json:"monthly_expenses"`
	EssentialExpenses float64               `json:"essential_expenses"`
	MonthlySurplus    float64               `json:"monthly_surplus"`
	SavingsRatePct    model.Number          `json:"savings_rate_percent"`
	ProgressPct       model.Number          `json:"progress_percent"`
	FireNumber        model.Number          `json:"fire_number"`
}

func runFireShow(cmd *cobra.Command, _ []string) error {
	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}
	p := result.Profile
	o := pipeline.Overview(p)

	if flagJSON {
		return printJSON(fireOverviewJSON{
			Profile:           p,
			MonthlyIncome:     o.MonthlyIncome,
			PassiveIncome:     o.PassiveIncome,
			MonthlyExpenses:   o.MonthlyExpenses,
			EssentialExpenses: o.EssentialExpenses,
			MonthlySurplus:    o.MonthlySurplus,
			SavingsRatePct:    model.Number(o.SavingsRatePct),
			ProgressPct:       model.Number(o.ProgressPct),
			FireNumber:        model.Number(o.FireNumber),
		})
	}

	plan := cli.Table{
		Title:   "FIRE PLAN",
		Headers: []string{"Parameter", "Value"},
		Rows: [][]string{
			{"Current age", strconv.Itoa(p.CurrentAge)},
			{"Retirement age", strconv.Itoa(p.TargetRetirementAge)},
			{"Target corpus", cli.FormatAmount(p.TargetRetirementAmount)},
			{"Net worth", cli.FormatAmount(p.CurrentNetWorth)},
			{"Progress", cli.RenderProgressBar(o.ProgressPct, 20)},
			cli.Separator(),
			{"Monthly savings", cli.FormatAmount(p.CurrentMonthlySavings)},
			{"Savings target", cli.FormatAmount(p.MonthlySavingsTarget)},
			{"Expected return", cli.FormatPercent(p.ExpectedReturnRate)},
			{"Inflation", cli.FormatPercent(p.InflationRate)},
			{"Withdrawal rate", cli.FormatPercent(p.SafeWithdrawalRate)},
		},
	}

	flow := cli.Table{
		Title:   "MONTHLY CASH FLOW",
		Headers: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Income", cli.FormatAmount(o.MonthlyIncome)},
			{"  passive", cli.FormatAmount(o.PassiveIncome)},
			{"Expenses", cli.FormatAmount(o.MonthlyExpenses)},
			{"  essential", cli.FormatAmount(o.EssentialExpenses)},
			{"Surplus", cli.FormatSignedAmount(o.MonthlySurplus)},
			cli.Separator(),
			{"Savings rate", cli.FormatPercent(o.SavingsRatePct)},
			{"FIRE number", cli.FormatAmount(o.FireNumber)},
		},
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(plan))
	fmt.Println()
	fmt.Print(cli.RenderTable(flow))

	if len(p.IncomeSources) > 0 {
		t := cli.Table{Headers: []string{"#", "Source", "Amount", "Frequency", "Passive"}}
		for i, s := range p.IncomeSources {
			t.Rows = append(t.Rows, []string{strconv.Itoa(i), s.Source, cli.FormatAmount(s.Amount), string(s.Frequency), yesNo(s.IsPassive)})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(t))
	}
	if len(p.MonthlyExpenses) > 0 {
		t := cli.Table{Headers: []string{"#", "Expense", "Amount", "Essential"}}
		for i, e := range p.MonthlyExpenses {
			t.Rows = append(t.Rows, []string{strconv.Itoa(i), e.Category, cli.FormatAmount(e.Amount), yesNo(e.IsEssential)})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(t))
	}
	return nil
}

// projectionJSON keeps balances as model.Number: a return rate below -100%
// drives them to NaN, which encodes as null.
type projectionJSON struct {
	YearsToRetirement int            `json:"years_to_retirement"`
	ProjectedAmount   model.Number   `json:"projected_amount"`
	TargetAmount      float64        `json:"target_amount"`
	GoalReached       bool           `json:"goal_reached"`
	YearlyBalances    []model.Number `json:"yearly_balances"`
}

func newProjectionJSON(p model.FireGoalProfile, proj model.ProjectionResult) projectionJSON {
	return projectionJSON{
		YearsToRetirement: proj.YearsToRetirement,
		ProjectedAmount:   model.Number(proj.ProjectedAmount),
		TargetAmount:      p.TargetRetirementAmount,
		GoalReached:       proj.GoalReached(),
		YearlyBalances:    model.Numbers(proj.YearlySamples()),
	}
}

func runFireProject(cmd *cobra.Command, _ []string) error {
	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}
	p := result.Profile
	proj := pipeline.Project(p)
	yearly := proj.YearlySamples()

	if flagJSON {
		return printJSON(newProjectionJSON(p, proj))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTION  %s", cli.FormatYears(proj.YearsToRetirement))))
	fmt.Println()
	if proj.GoalReached() {
		fmt.Printf("  Retirement age reached. Net worth after one month: %s\n", cli.FormatAmount(proj.ProjectedAmount))
		return nil
	}

	table := cli.Table{Headers: []string{"Age", "Net worth", "vs target"}}
	for i, bal := range yearly {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(p.CurrentAge + i),
			cli.FormatAmount(bal),
			cli.FormatSignedAmount(bal - p.TargetRetirementAmount),
		})
	}
	fmt.Print(cli.RenderTable(table))
	fmt.Println()
	fmt.Printf("  Trend     %s\n", cli.RenderSparkline(yearly))
	fmt.Printf("  Projected %s at age %d (target %s)\n",
		cli.FormatAmount(proj.ProjectedAmount), p.TargetRetirementAge, cli.FormatAmount(p.TargetRetirementAmount))
	return nil
}

func runFireSet(cmd *cobra.Command, _ []string) error {
	return updateProfile(cmd, func(p *model.FireGoalProfile) error {
		f := cmd.Flags()
		if f.Changed("current-age") {
			p.CurrentAge = flagFireCurrentAge
		}
		if f.Changed("retire-age") {
			p.TargetRetirementAge = flagFireRetireAge
		}
		amounts := []struct {
			flag string
			val  string
			dst  *float64
		}{
			{"target", flagFireTarget, &p.TargetRetirementAmount},
			{"net-worth", flagFireNetWorth, &p.CurrentNetWorth},
			{"monthly-savings", flagFireSavings, &p.CurrentMonthlySavings},
			{"savings-target", flagFireSavingsTarget, &p.MonthlySavingsTarget},
		}
		for _, a := range amounts {
			if !f.Changed(a.flag) {
				continue
			}
			v, err := cli.ParseAmount(a.val)
			if err != nil {
				return fmt.Errorf("--%s: %w", a.flag, err)
			}
			*a.dst = v
		}
		rates := []struct {
			flag string
			val  string
			dst  *float64
		}{
			{"return", flagFireReturn, &p.ExpectedReturnRate},
			{"inflation", flagFireInflation, &p.InflationRate},
			{"withdrawal-rate", flagFireSWR, &p.SafeWithdrawalRate},
		}
		for _, r := range rates {
			if !f.Changed(r.flag) {
				continue
			}
			v, err := cli.ParseRate(r.val)
			if err != nil {
				return fmt.Errorf("--%s: %w", r.flag, err)
			}
			*r.dst = v
		}
		return nil
	})
}

func runFireIncomeAdd(cmd *cobra.Command, _ []string) error {
	amount, err := cli.ParseAmount(flagIncomeAmount)
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	freq := model.Frequency(flagIncomeFrequency)
	if freq != model.Monthly && freq != model.Annually {
		return fmt.Errorf("--frequency must be %s or %s", model.Monthly, model.Annually)
	}
	return updateProfile(cmd, func(p *model.FireGoalProfile) error {
		p.IncomeSources = append(p.IncomeSources, model.IncomeSource{
			Source:    flagIncomeSource,
			Amount:    amount,
			Frequency: freq,
			IsPassive: flagIncomePassive,
		})
		return nil
	})
}

func runFireIncomeRemove(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return updateProfile(cmd, func(p *model.FireGoalProfile) error {
		if index >= len(p.IncomeSources) {
			return fmt.Errorf("income %d: %w", index, store.ErrIndexOutOfRange)
		}
		p.IncomeSources = append(p.IncomeSources[:index], p.IncomeSources[index+1:]...)
		return nil
	})
}

func runFireExpenseAdd(cmd *cobra.Command, _ []string) error {
	amount, err := cli.ParseAmount(flagExpenseAmount)
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	return updateProfile(cmd, func(p *model.FireGoalProfile) error {
		p.MonthlyExpenses = append(p.MonthlyExpenses, model.MonthlyExpense{
			Category:    flagExpenseCategory,
			Amount:      amount,
			IsEssential: flagExpenseEssential,
		})
		return nil
	})
}

func runFireExpenseRemove(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return updateProfile(cmd, func(p *model.FireGoalProfile) error {
		if index >= len(p.MonthlyExpenses) {
			return fmt.Errorf("expense %d: %w", index, store.ErrIndexOutOfRange)
		}
		p.MonthlyExpenses = append(p.MonthlyExpenses[:index], p.MonthlyExpenses[index+1:]...)
		return nil
	})
}

// updateProfile loads the profile, applies fn and saves the whole profile back.
func updateProfile(cmd *cobra.Command, fn func(*model.FireGoalProfile) error) error {
	return withStore(func(st store.Store) error {
		ctx := cmd.Context()
		p, err := st.LoadProfile(ctx)
		if err != nil {
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}
		if err := st.SaveProfile(ctx, p); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
		fmt.Println("  FIRE plan saved.")
		return nil
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
