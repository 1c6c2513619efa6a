package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/ui"
)

func newTodoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage dated to-dos and recurrence rules",
	}
	cmd.AddCommand(newTodoAddCmd(), newTodoListCmd(), newTodoDoneCmd(), newTodoRulesCmd())
	return cmd
}

var weekdayNames = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

func parseWeekdays(csv string) ([]int, error) {
	if csv == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(csv, ",") {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q (use mon..sun)", part)
		}
		days = append(days, wd)
	}
	return days, nil
}

func newTodoAddCmd() *cobra.Command {
	var points int
	var due string
	var repeat string
	var every int
	var on string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a to-do, optionally recurring",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			in := engine.AddTodoInput{
				Name:   args[0],
				Points: clampPoints(points),
				DueDay: engine.DayKey(due),
			}
			switch repeat {
			case "":
			case "daily":
				in.Repeat = &engine.Recurrence{Freq: engine.FreqDaily}
			case "weekly":
				byWD, err := parseWeekdays(on)
				if err != nil {
					return err
				}
				in.Repeat = &engine.Recurrence{Freq: engine.FreqWeekly, ByWeekday: byWD}
			case "custom":
				if every < 1 {
					return errors.New("custom repeat needs --every N (days)")
				}
				in.Repeat = &engine.Recurrence{Freq: engine.FreqCustom, Interval: every}
			default:
				return fmt.Errorf("unknown repeat %q (daily|weekly|custom)", repeat)
			}

			t, err := svc.AddTodo(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added %s due %s (+%d)\n", ui.IconTask, ui.Key.Render(t.Name), t.DueDay, t.Points)
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 10, "Points granted on completion")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&repeat, "repeat", "r", "", "Recurrence (daily|weekly|custom)")
	cmd.Flags().IntVar(&every, "every", 0, "Interval in days for custom repeat")
	cmd.Flags().StringVar(&on, "on", "", "Weekdays for weekly repeat (e.g. mon,wed,fri)")

	return cmd
}

func newTodoListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's to-dos",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day := svc.State().Today.Day
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTask, "To-dos for "+string(day)))
			todos := svc.TodosForDay(day)
			for i, t := range todos {
				line := fmt.Sprintf("%2d. %s %s %s", i+1, ui.DoneMark(t.Done), t.Name, ui.Muted.Render(fmt.Sprintf("+%d", t.Points)))
				if t.RuleID != "" {
					line += " " + ui.Muted.Render(ui.IconHabit)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if len(todos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("nothing due today"))
			}
			return nil
		},
	}

	return cmd
}

func newTodoDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <todo>",
		Short: "Toggle a to-do done / not done",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("to-do index or name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var picks []pick
			for _, t := range svc.TodosForDay(svc.State().Today.Day) {
				picks = append(picks, pick{id: t.ID, name: t.Name})
			}
			id, err := resolve(args[0], picks)
			if err != nil {
				return err
			}
			done, err := svc.ToggleTodo(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.DoneMark(done), svc.State().TodoByID(id).Name)
			return nil
		},
	}

	return cmd
}

func newTodoRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List recurrence rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rules := svc.State().TodoRules
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconHabit, "Recurrence rules"))
			for i, r := range rules {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s %s\n", i+1, r.Name, ui.Muted.Render(describeRecurrence(r.Recurrence)))
			}
			if len(rules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("no rules"))
			}
			return nil
		},
	}

	cmd.AddCommand(newTodoRuleRemoveCmd())

	return cmd
}

func newTodoRuleRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <n>",
		Short: "Delete a rule (existing instances stay)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("rule number is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("rule number must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, _ := strconv.Atoi(args[0])
			rules := svc.State().TodoRules
			if n < 1 || n > len(rules) {
				return fmt.Errorf("rule %d out of range (1-%d)", n, len(rules))
			}
			r := rules[n-1]
			if err := svc.RemoveRule(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed rule %s\n", ui.Key.Render(r.Name))
			return nil
		},
	}

	return cmd
}

func describeRecurrence(r engine.Recurrence) string {
	switch r.Freq {
	case engine.FreqDaily:
		return "every day"
	case engine.FreqWeekly:
		if len(r.ByWeekday) == 0 {
			return "weekly (every day)"
		}
		names := []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
		var parts []string
		for _, wd := range r.ByWeekday {
			if wd >= 0 && wd < len(names) {
				parts = append(parts, names[wd])
			}
		}
		return "weekly on " + strings.Join(parts, ",")
	case engine.FreqCustom:
		return fmt.Sprintf("every %d days", r.Interval)
	default:
		return string(r.Freq)
	}
}
