package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/ui"
)

func newBossCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boss",
		Short: "Weekly boss goals",
	}
	cmd.AddCommand(newBossShowCmd(), newBossIncCmd(), newBossDecCmd())
	return cmd
}

func bossGoalPicks(st *engine.State) []pick {
	var picks []pick
	for _, g := range st.WeeklyBoss.Goals {
		picks = append(picks, pick{id: g.ID, name: g.Label})
	}
	return picks
}

func newBossShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show this week's boss",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			boss := svc.State().WeeklyBoss
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBoss, "Weekly boss"))
			fmt.Fprintln(out, ui.LabelValue("Week of", string(boss.WeekStartDay)))
			for i, g := range boss.Goals {
				pct := 0
				if g.Target > 0 {
					pct = g.Tally * 100 / g.Target
				}
				fmt.Fprintf(out, "%2d. %s %s %s\n", i+1, g.Label, ui.Bar(pct, 0, 16), ui.Muted.Render(fmt.Sprintf("%d/%d", g.Tally, g.Target)))
			}
			if len(boss.Goals) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("no boss this week, add quick actions to the library"))
			}
			if boss.Completed {
				fmt.Fprintln(out, ui.Good.Render("Boss defeated!"))
			}
			return nil
		},
	}

	return cmd
}

func newBossIncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inc <goal>",
		Short: "Record a rep toward a boss goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("goal index or label is required")
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

			id, err := resolve(args[0], bossGoalPicks(svc.State()))
			if err != nil {
				return err
			}
			if err := svc.IncrementBossGoal(ctx, id); err != nil {
				return err
			}
			for _, g := range svc.State().WeeklyBoss.Goals {
				if g.ID == id {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d/%d\n", ui.IconBoss, g.Label, g.Tally, g.Target)
				}
			}
			return nil
		},
	}

	return cmd
}

func newBossDecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dec <goal>",
		Short: "Take back a rep from a boss goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("goal index or label is required")
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

			id, err := resolve(args[0], bossGoalPicks(svc.State()))
			if err != nil {
				return err
			}
			if err := svc.DecrementBossGoal(ctx, id); err != nil {
				return err
			}
			for _, g := range svc.State().WeeklyBoss.Goals {
				if g.ID == id {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d/%d\n", ui.IconBoss, g.Label, g.Tally, g.Target)
				}
			}
			return nil
		},
	}

	return cmd
}
