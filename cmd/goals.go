package cmd

import (
	"fmt"
	"strconv"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagGoalName     string
	flagGoalType     string
	flagGoalTarget   string
	flagGoalCurrent  string
	flagGoalStart    string
	flagGoalDate     string
	flagGoalStatus   string
	flagGoalPriority string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Track savings goals",
	RunE:  runGoalsList,
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress",
	RunE:  runGoalsList,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a savings goal",
	RunE:  runGoalsAdd,
}

var goalsUpdateCmd = &cobra.Command{
	Use:   "update <index>",
	Short: "Update fields of the goal at index",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsUpdate,
}

var goalsRemoveCmd = &cobra.Command{
	Use:     "remove <index>",
	Aliases: []string{"rm"},
	Short:   "Remove the goal at index",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalsRemove,
}

func init() {
	for _, c := range []*cobra.Command{goalsAddCmd, goalsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&flagGoalName, "name", "", "Goal name")
		f.StringVar(&flagGoalType, "type", "", "Free-text goal type, e.g. Emergency Fund")
		f.StringVar(&flagGoalTarget, "target", "", "Target amount")
		f.StringVar(&flagGoalCurrent, "current", "", "Amount saved so far")
		f.StringVar(&flagGoalStart, "start", "", "Start date (YYYY-MM-DD)")
		f.StringVar(&flagGoalDate, "by", "", "Target date (YYYY-MM-DD)")
		f.StringVar(&flagGoalStatus, "status", string(model.GoalInProgress), "In Progress, Completed or On Hold")
		f.StringVar(&flagGoalPriority, "priority", string(model.PriorityMedium), "High, Medium or Low")
	}
	goalsCmd.AddCommand(goalsListCmd, goalsAddCmd, goalsUpdateCmd, goalsRemoveCmd)
	rootCmd.AddCommand(goalsCmd)
}

func runGoalsList(cmd *cobra.Command, _ []string) error {
	result, err := loadData(cmd.Context())
	if err != nil {
		return err
	}
	goals := result.Goals

	if flagJSON {
		return printJSON(goals)
	}
	if len(goals) == 0 {
		fmt.Println("\n  No savings goals yet. Add one with `fireledger goals add`.")
		return nil
	}

	table := cli.Table{
		Title:   "GOALS",
		Headers: []string{"#", "Goal", "Priority", "Status", "Saved", "Target", "Progress", "By"},
	}
	for i, g := range goals {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i),
			g.Name,
			string(g.Priority),
			string(g.Status),
			cli.FormatAmount(g.CurrentAmount),
			cli.FormatAmount(g.TargetAmount),
			cli.RenderProgressBar(g.Progress(), 12),
			g.TargetDate.String(),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}

func runGoalsAdd(cmd *cobra.Command, _ []string) error {
	g := model.SavingsGoal{
		Status:    model.GoalInProgress,
		Priority:  model.PriorityMedium,
		StartDate: today(),
	}
	if err := applyGoalFlags(cmd, &g); err != nil {
		return err
	}
	return withStore(func(st store.Store) error {
		if err := st.AppendGoal(cmd.Context(), g); err != nil {
			return fmt.Errorf("saving goal: %w", err)
		}
		fmt.Printf("  Added goal %q (target %s)\n", g.Name, cli.FormatAmount(g.TargetAmount))
		return nil
	})
}

func runGoalsUpdate(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return withStore(func(st store.Store) error {
		ctx := cmd.Context()
		goals, err := st.LoadGoals(ctx)
		if err != nil {
			return err
		}
		if index >= len(goals) {
			return fmt.Errorf("goal %d: %w", index, store.ErrIndexOutOfRange)
		}
		g := goals[index]
		if err := applyGoalFlags(cmd, &g); err != nil {
			return err
		}
		if err := st.ReplaceGoal(ctx, index, g); err != nil {
			return fmt.Errorf("goal %d: %w", index, err)
		}
		fmt.Printf("  Updated goal %d (%s)\n", index, g.Name)
		return nil
	})
}

func runGoalsRemove(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return withStore(func(st store.Store) error {
		if err := st.RemoveGoal(cmd.Context(), index); err != nil {
			return fmt.Errorf("goal %d: %w", index, err)
		}
		fmt.Printf("  Removed goal %d\n", index)
		return nil
	})
}

func applyGoalFlags(cmd *cobra.Command, g *model.SavingsGoal) error {
	f := cmd.Flags()
	if f.Changed("name") {
		g.Name = flagGoalName
	}
	if f.Changed("type") {
		g.Type = flagGoalType
	}
	for _, a := range []struct {
		flag string
		val  string
		dst  *float64
	}{
		{"target", flagGoalTarget, &g.TargetAmount},
		{"current", flagGoalCurrent, &g.CurrentAmount},
	} {
		if !f.Changed(a.flag) {
			continue
		}
		v, err := cli.ParseAmount(a.val)
		if err != nil {
			return fmt.Errorf("--%s: %w", a.flag, err)
		}
		*a.dst = v
	}
	for _, d := range []struct {
		flag string
		val  string
		dst  *model.Date
	}{
		{"start", flagGoalStart, &g.StartDate},
		{"by", flagGoalDate, &g.TargetDate},
	} {
		if !f.Changed(d.flag) {
			continue
		}
		v, err := model.ParseDate(d.val)
		if err != nil {
			return fmt.Errorf("--%s: %w", d.flag, err)
		}
		*d.dst = v
	}
	if f.Changed("status") {
		s := model.GoalStatus(flagGoalStatus)
		switch s {
		case model.GoalInProgress, model.GoalCompleted, model.GoalOnHold:
			g.Status = s
		default:
			return fmt.Errorf("--status: unknown status %q", flagGoalStatus)
		}
	}
	if f.Changed("priority") {
		p := model.GoalPriority(flagGoalPriority)
		switch p {
		case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
			g.Priority = p
		default:
			return fmt.Errorf("--priority: unknown priority %q", flagGoalPriority)
		}
	}
	return nil
}
