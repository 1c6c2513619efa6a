package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/ui"
)

func newQuickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quick",
		Aliases: []string{"q"},
		Short:   "Repeatable quick actions (the library)",
	}
	cmd.AddCommand(newQuickAddCmd(), newQuickListCmd(), newQuickDoCmd(), newQuickArchiveCmd())
	return cmd
}

func newQuickAddCmd() *cobra.Command {
	var points int
	var cooldown int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a quick action",
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

			in := engine.CreateLibraryItemInput{Name: args[0], Points: clampPoints(points)}
			if cd := clampCooldown(cooldown); cd > 0 {
				in.CooldownHours = &cd
			}
			it, err := svc.CreateLibraryItem(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added %s (+%d)\n", ui.IconBolt, ui.Key.Render(it.Name), it.Points)
			return nil
		},
	}

	cmd.Flags().IntVarP(&points, "points", "p", 5, "Points granted per completion")
	cmd.Flags().IntVarP(&cooldown, "cooldown", "c", 0, "Cooldown in hours between completions")

	return cmd
}

func newQuickListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quick actions, most used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBolt, "Quick actions"))
			items := svc.LibraryFavorites(len(svc.State().Library))
			for i, it := range items {
				line := fmt.Sprintf("%2d. %s %s", i+1, it.Name, ui.Muted.Render(fmt.Sprintf("+%d", it.Points)))
				if svc.LibraryOnCooldown(it.ID) {
					line += " " + ui.Warn.Render("cooling down")
				}
				fmt.Fprintln(out, line)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("no quick actions yet"))
			}
			return nil
		},
	}

	return cmd
}

func newQuickDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <action>",
		Short: "Complete a quick action",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("action index or name is required")
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

			// Same ordering as `quick list` so indexes line up.
			var picks []pick
			for _, it := range svc.LibraryFavorites(len(svc.State().Library)) {
				picks = append(picks, pick{id: it.ID, name: it.Name})
			}
			id, err := resolve(args[0], picks)
			if err != nil {
				return err
			}
			res, err := svc.CompleteLibraryItem(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s +%d", ui.IconDone, svc.State().LibraryItemByID(id).Name, res.Points)
			if res.Minted > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " %s+%d", ui.IconCoin, res.Minted)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	return cmd
}

func newQuickArchiveCmd() *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "archive <action>",
		Short: "Archive a quick action",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("action index or name is required")
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
			for _, it := range svc.State().Library {
				picks = append(picks, pick{id: it.ID, name: it.Name})
			}
			id, err := resolve(args[0], picks)
			if err != nil {
				return err
			}
			if err := svc.SetLibraryItemActive(ctx, id, restore); err != nil {
				return err
			}
			verb := "archived"
			if restore {
				verb = "restored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, ui.Key.Render(svc.State().LibraryItemByID(id).Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&restore, "restore", false, "Restore instead of archive")

	return cmd
}
