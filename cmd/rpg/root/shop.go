package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/ui"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Spend coins on rewards",
	}
	cmd.AddCommand(newShopAddCmd(), newShopListCmd(), newShopBuyCmd())
	return cmd
}

func newShopAddCmd() *cobra.Command {
	var cost int
	var kind string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a shop reward",
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

			var k engine.ShopKind
			switch kind {
			case "":
				k = engine.ShopGeneric
			case "power-hour":
				k = engine.ShopPowerHour
			case "streak-repair":
				k = engine.ShopStreakRepair
			default:
				return fmt.Errorf("unknown kind %q (power-hour|streak-repair)", kind)
			}

			it, err := svc.CreateShopItem(ctx, engine.CreateShopItemInput{Name: args[0], Cost: clampCost(cost), Kind: k})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added %s (%s %d)\n", ui.IconShop, ui.Key.Render(it.Name), ui.IconCoin, it.Cost)
			return nil
		},
	}

	cmd.Flags().IntVarP(&cost, "cost", "c", 50, "Cost in coins")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Special effect (power-hour|streak-repair)")

	return cmd
}

func newShopListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shop rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := svc.State()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconShop, fmt.Sprintf("Shop (%s %d)", ui.IconCoin, st.Profile.Coins)))
			n := 0
			for _, it := range st.Shop {
				if !it.Active {
					continue
				}
				n++
				line := fmt.Sprintf("%2d. %s %s", n, it.Name, ui.Gold.Render(fmt.Sprintf("%s %d", ui.IconCoin, it.Cost)))
				if it.Kind == engine.ShopPowerHour {
					line += " " + ui.Muted.Render(ui.IconBolt+" x1.5 for an hour")
				}
				fmt.Fprintln(out, line)
			}
			if n == 0 {
				fmt.Fprintln(out, ui.Muted.Render("the shop is empty"))
			}
			return nil
		},
	}

	return cmd
}

func newShopBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <item>",
		Short: "Buy a reward with coins",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("item index or name is required")
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
			for _, it := range svc.State().Shop {
				if it.Active {
					picks = append(picks, pick{id: it.ID, name: it.Name})
				}
			}
			id, err := resolve(args[0], picks)
			if err != nil {
				return err
			}
			if err := svc.Purchase(ctx, id); err != nil {
				return err
			}
			it := svc.State().ShopItemByID(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s bought %s, %s %d left\n", ui.IconShop, ui.Key.Render(it.Name), ui.IconCoin, svc.State().Profile.Coins)
			return nil
		},
	}

	return cmd
}
