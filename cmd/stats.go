package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"st", "summary"},
	Short:   "Show garden statistics",
	Long: `Show how many plants you have, their combined streak, average health,
and how many are healthy (health 80 or above).

Examples:
  plantcare stats
  plantcare stats --format json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	plants, err := listPlants(cmd.Context())
	if err != nil {
		return err
	}

	now := ctx.Now()
	stats := model.ComputeStats(plants, now)
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.StatsResponse{Stats: stats, GeneratedAt: now.UTC().Format(time.RFC3339)})
	}
	ctx.CLIFormatter().PrintStats(stats)
	return nil
}
