package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/scheduler"
)

// List command flags.
var (
	listFlagTable   bool
	listFlagThirsty bool
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:     "list [QUERY]",
	Aliases: []string{"ls", "l", "plants"},
	Short:   "List plants",
	Long: `List your plants as cards, or as a table with --table. A query keeps
only plants whose name or species contains it.

Examples:
  plantcare list
  plantcare list fern
  plantcare list --table
  plantcare list --thirsty`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listFlagTable, "table", "t", false, "Show a compact table")
	listCmd.Flags().BoolVar(&listFlagThirsty, "thirsty", false, "Only plants that need water")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	plants, err := listPlants(cmd.Context())
	if err != nil {
		return err
	}

	now := ctx.Now()
	query := strings.Join(args, " ")
	plants = model.NewGarden(plants).Search(query)
	if listFlagThirsty {
		plants = scheduler.FindThirsty(plants, now, ctx.Config.Reminder.HealthThreshold)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.PlantsResponse{
			Plants: output.NewPlantOutputs(plants, now),
			Count:  len(plants),
			Query:  query,
		})
	}

	cli := ctx.CLIFormatter()
	if len(plants) == 0 && query != "" {
		cli.Muted("No plants match '" + query + "'.")
		return nil
	}
	if listFlagTable || !ctx.IsCLI() {
		if len(plants) == 0 {
			cli.Muted("No plants yet. Add one with 'plantcare add <name>'.")
			return nil
		}
		cli.PrintPlantTable(plants, now)
		return nil
	}
	cli.PrintPlantCards(plants, now)
	return nil
}
