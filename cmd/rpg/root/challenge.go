package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/ui"
)

func newChallengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "challenge",
		Aliases: []string{"ch"},
		Short:   "Manage the daily challenge pool",
	}
	cmd.AddCommand(newChallengeAddCmd(), newChallengeListCmd(), newChallengeDoCmd(), newChallengeArchiveCmd())
	return cmd
}

func newChallengeAddCmd() *cobra.Command {
	var points int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a challenge to the pool",
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

			c, err := svc.CreateChallenge(ctx, args[0], clampPoints(points))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added challenge %s (+%d)\n", ui.IconTarget, ui.Key.Render(c.Name), c.Points)
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 15, "Points granted on completion")

	return cmd
}

func newChallengeListCmd() *cobra.Command {
	var pool bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's assigned challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if pool {
				fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Challenge pool"))
				for i, c := range svc.State().ActiveChallenges() {
					fmt.Fprintf(out, "%2d. %s %s\n", i+1, c.Name, ui.Muted.Render(fmt.Sprintf("+%d", c.Points)))
				}
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Today's challenges"))
			assigned := svc.AssignedChallenges(svc.State().Today.Day)
			for i, c := range assigned {
				fmt.Fprintf(out, "%2d. %s %s %s\n", i+1, ui.DoneMark(svc.ChallengeDoneToday(c.ID)), c.Name, ui.Muted.Render(fmt.Sprintf("+%d", c.Points)))
			}
			if len(assigned) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("no challenges assigned, add some to the pool first"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pool, "pool", false, "Show the whole pool instead of today's draw")

	return cmd
}

func newChallengeDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <challenge>",
		Short: "Toggle an assigned challenge done / not done",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("challenge index or name is required")
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
			for _, c := range svc.AssignedChallenges(svc.State().Today.Day) {
				picks = append(picks, pick{id: c.ID, name: c.Name})
			}
			id, err := resolve(args[0], picks)
			if err != nil {
				return err
			}
			done, err := svc.ToggleChallenge(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.DoneMark(done), svc.State().ChallengeByID(id).Name)
			return nil
		},
	}

	return cmd
}

func newChallengeArchiveCmd() *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "archive <challenge>",
		Short: "Remove a challenge from the pool",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("challenge index or name is required")
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
			for _, c := range svc.State().Challenges {
				picks = append(picks, pick{id: c.ID, name: c.Name})
			}
			id, err := resolve(args[0], picks)
			if err != nil {
				return err
			}
			if err := svc.SetChallengeActive(ctx, id, restore); err != nil {
				return err
			}
			verb := "archived"
			if restore {
				verb = "restored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, ui.Key.Render(svc.State().ChallengeByID(id).Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&restore, "restore", false, "Restore instead of archive")

	return cmd
}
