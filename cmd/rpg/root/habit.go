package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/ui"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage daily habits",
	}
	cmd.AddCommand(newHabitAddCmd(), newHabitListCmd(), newHabitTickCmd(), newHabitArchiveCmd())
	return cmd
}

func newHabitAddCmd() *cobra.Command {
	var points int
	var target int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
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

			kind := engine.HabitBinary
			if target > 1 {
				kind = engine.HabitCounter
			}
			h, err := svc.CreateHabit(ctx, engine.CreateHabitInput{
				Name:             args[0],
				Kind:             kind,
				TargetPerDay:     target,
				PointsOnComplete: clampPoints(points),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added habit %s (+%d on complete)\n", ui.IconHabit, ui.Key.Render(h.Name), h.PointsOnComplete)
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 10, "Points granted on completion")
	cmd.Flags().IntVarP(&target, "target", "t", 1, "Reps per day (>1 makes a counter habit)")

	return cmd
}

func newHabitListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := svc.State()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconHabit, "Habits"))
			n := 0
			for _, h := range st.Habits {
				if !h.Active && !all {
					continue
				}
				n++
				hs := st.Today.HabitsStatus[h.ID]
				line := fmt.Sprintf("%2d. %s %s", n, ui.DoneMark(hs.Done), h.Name)
				if h.Kind == engine.HabitCounter {
					line += " " + ui.Muted.Render(fmt.Sprintf("%d/%d", hs.Tally, h.TargetPerDay))
				}
				if !h.Active {
					line += " " + ui.Muted.Render("(archived)")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("no habits yet, try: rpg habit add"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived habits")

	return cmd
}

func newHabitTickCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "tick <habit>",
		Short: "Toggle a habit (or bump a counter habit)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit index or name is required")
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

			id, err := resolve(args[0], habitPicks(svc.State()))
			if err != nil {
				return err
			}
			h := svc.State().HabitByID(id)
			if h.Kind == engine.HabitCounter {
				delta := 1
				if down {
					delta = -1
				}
				hs, err := svc.AdjustHabitTally(ctx, id, delta)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d/%d\n", ui.DoneMark(hs.Done), h.Name, hs.Tally, h.TargetPerDay)
				return nil
			}
			done, err := svc.ToggleHabit(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.DoneMark(done), h.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Decrement a counter habit instead")

	return cmd
}

func newHabitArchiveCmd() *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "archive <habit>",
		Short: "Archive a habit (history is kept)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit index or name is required")
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

			// Resolve against all habits so archived ones can be restored.
			var picks []pick
			for _, h := range svc.State().Habits {
				picks = append(picks, pick{id: h.ID, name: h.Name})
			}
			id, err := resolve(args[0], picks)
			if err != nil {
				return err
			}
			if err := svc.SetHabitActive(ctx, id, restore); err != nil {
				return err
			}
			verb := "archived"
			if restore {
				verb = "restored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, ui.Key.Render(svc.State().HabitByID(id).Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&restore, "restore", false, "Restore instead of archive")

	return cmd
}

func habitPicks(st *engine.State) []pick {
	var picks []pick
	for _, h := range st.ActiveHabits() {
		picks = append(picks, pick{id: h.ID, name: h.Name})
	}
	return picks
}
