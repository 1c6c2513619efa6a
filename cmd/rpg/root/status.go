package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's points, coins, streak and boss progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := svc.State()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "LifeRPG "+string(st.Today.Day)))

			goal := st.Settings.DailyGoal
			pct := 0
			if goal > 0 {
				pct = st.Today.Points * 100 / goal
			}
			now := svc.Now()
			elapsed := now.Hour()*60 + now.Minute()
			ghost := elapsed * 100 / (24 * 60)
			fmt.Fprintf(out, "%s %s %s\n",
				ui.Key.Render("Points:"),
				ui.Bar(pct, ghost, 24),
				ui.Muted.Render(fmt.Sprintf("%d / %d", st.Today.Points, goal)))
			fmt.Fprintln(out, ui.LabelValue("Coins", fmt.Sprintf("%s %d", ui.IconCoin, st.Profile.Coins)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d (best %d)", ui.IconStreak, st.Streak.Current, st.Profile.BestStreak)))
			if st.PowerHour.Active && st.PowerHour.EndsAt != nil && now.Before(*st.PowerHour.EndsAt) {
				fmt.Fprintln(out, ui.LabelValue("Power hour", ui.Gold.Render(ui.IconBolt+" active until "+st.PowerHour.EndsAt.Format("15:04"))))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconHabit+" Habits"))
			for _, h := range st.ActiveHabits() {
				hs := st.Today.HabitsStatus[h.ID]
				if h.Kind == engine.HabitCounter {
					fmt.Fprintf(out, "- %s %s %s\n", ui.DoneMark(hs.Done), h.Name, ui.Muted.Render(fmt.Sprintf("%d/%d", hs.Tally, h.TargetPerDay)))
				} else {
					fmt.Fprintf(out, "- %s %s\n", ui.DoneMark(hs.Done), h.Name)
				}
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconTask+" Tasks"))
			for _, t := range svc.TodosForDay(st.Today.Day) {
				fmt.Fprintf(out, "- %s %s %s\n", ui.DoneMark(t.Done), t.Name, ui.Muted.Render(fmt.Sprintf("+%d", t.Points)))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconTarget+" Challenges"))
			for _, c := range svc.AssignedChallenges(st.Today.Day) {
				fmt.Fprintf(out, "- %s %s %s\n", ui.DoneMark(svc.ChallengeDoneToday(c.ID)), c.Name, ui.Muted.Render(fmt.Sprintf("+%d", c.Points)))
			}
			fmt.Fprintln(out, "")

			boss := st.WeeklyBoss
			fmt.Fprintln(out, ui.H2.Render(ui.IconBoss+" Weekly boss "+ui.Muted.Render("(week of "+string(boss.WeekStartDay)+")")))
			for _, g := range boss.Goals {
				mark := ui.DoneMark(g.Tally >= g.Target)
				fmt.Fprintf(out, "- %s %s %s\n", mark, g.Label, ui.Muted.Render(fmt.Sprintf("%d/%d", g.Tally, g.Target)))
			}
			if boss.Completed {
				fmt.Fprintln(out, ui.Good.Render("Boss defeated!"))
			}

			return nil
		},
	}

	return cmd
}
