package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo [n]",
		Short: "Show today's feed, or undo entry n",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("at most one entry number")
			}
			if len(args) == 1 {
				if _, err := strconv.Atoi(args[0]); err != nil {
					return errors.New("entry number must be an integer")
				}
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

			feed := svc.TodayFeed()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Today's feed"))
				for i, e := range feed {
					fmt.Fprintf(out, "%2d. %s %s %s %s\n", i+1,
						ui.Muted.Render(e.TS.Format("15:04")),
						ui.Muted.Render(string(e.Kind)),
						e.Name,
						ui.Good.Render(fmt.Sprintf("+%d", e.Points)))
				}
				if len(feed) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("nothing logged today"))
				}
				return nil
			}

			n, _ := strconv.Atoi(args[0])
			if n < 1 || n > len(feed) {
				return fmt.Errorf("entry %d out of range (1-%d)", n, len(feed))
			}
			e := feed[n-1]
			if err := svc.UndoEntry(ctx, e); err != nil {
				return err
			}
			fmt.Fprintf(out, "undid %s %s\n", ui.Key.Render(e.Name), ui.Bad.Render(fmt.Sprintf("-%d", e.Points)))
			return nil
		},
	}

	return cmd
}
