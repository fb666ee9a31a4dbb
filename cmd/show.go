package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/output"
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:     "show PLANT",
	Aliases: []string{"info", "s"},
	Short:   "Show one plant",
	Long: `Show every detail of one plant. PLANT is a name or an ID prefix.

Examples:
  plantcare show fern
  plantcare show 3f9a`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completePlants,
	RunE:              runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, err := plantService()
	if err != nil {
		return err
	}
	p, err := resolvePlant(cmd.Context(), svc, joinArgs(args))
	if err != nil {
		return err
	}

	now := ctx.Now()
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.PlantResponse{Status: "ok", Plant: output.NewPlantOutput(p, now)})
	}
	ctx.CLIFormatter().PrintPlantDetail(p, now)
	return nil
}
