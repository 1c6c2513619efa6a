package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reedy055/rpg/internal/ui"
)

const Version = "0.4.0"

var rootCmd = &cobra.Command{
	Use:           "rpg",
	Short:         "LifeRPG, a local-first gamified habit & task tracker",
	Long:          "LifeRPG is a local-first habit/task tracker: log daily tasks, habits and challenges, earn points, mint coins, keep your streak alive.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newStatusCmd(),
		newHabitCmd(),
		newTodoCmd(),
		newChallengeCmd(),
		newQuickCmd(),
		newBossCmd(),
		newShopCmd(),
		newUndoCmd(),
		newWatchCmd(),
		newDataCmd(),
		newConfigCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
