package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			set := svc.State().Settings
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Settings"))
			fmt.Fprintln(out, ui.LabelValue("daily-goal", set.DailyGoal))
			fmt.Fprintln(out, ui.LabelValue("points-per-coin", set.PointsPerCoin))
			fmt.Fprintln(out, ui.LabelValue("haptics", set.Haptics))
			fmt.Fprintln(out, ui.LabelValue("challenges-per-day", set.DailyChallengesCount))
			fmt.Fprintln(out, ui.LabelValue("boss-goals", set.BossTasksPerWeek))
			fmt.Fprintln(out, ui.LabelValue("boss-times", fmt.Sprintf("%d-%d", set.BossTimesMin, set.BossTimesMax)))
			return nil
		},
	}

	return cmd
}

// Setting bounds are enforced here at the boundary; the engine trusts
// whatever it is handed.
func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("key and value are required")
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

			key, val := args[0], args[1]
			set := svc.State().Settings

			if key == "haptics" {
				b, err := strconv.ParseBool(val)
				if err != nil {
					return fmt.Errorf("haptics wants true/false, got %q", val)
				}
				set.Haptics = b
			} else {
				n, err := strconv.Atoi(val)
				if err != nil {
					return fmt.Errorf("%s wants a number, got %q", key, val)
				}
				switch key {
				case "daily-goal":
					set.DailyGoal = clamp(n, 10, 1000)
				case "points-per-coin":
					set.PointsPerCoin = clamp(n, 10, 1000)
				case "challenges-per-day":
					set.DailyChallengesCount = clamp(n, 1, 10)
				case "boss-goals":
					set.BossTasksPerWeek = clamp(n, 1, 10)
				case "boss-times-min":
					set.BossTimesMin = clamp(n, 1, set.BossTimesMax)
				case "boss-times-max":
					set.BossTimesMax = clamp(n, set.BossTimesMin, 50)
				default:
					return fmt.Errorf("unknown setting %q", key)
				}
			}

			if err := svc.UpdateSettings(ctx, set); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", ui.Key.Render(key), val)
			return nil
		},
	}

	return cmd
}
