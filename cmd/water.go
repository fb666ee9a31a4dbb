package cmd

import (
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/scheduler"
)

// Water command flags.
var (
	waterFlagAt      string
	waterFlagThirsty bool
)

// waterCmd represents the water command.
var waterCmd = &cobra.Command{
	Use:     "water PLANT...",
	Aliases: []string{"w"},
	Short:   "Water one or more plants",
	Long: `Record a watering. Health goes up by 20 (capped at the plant's maximum).
Watering within two days of the due date extends the streak; later than
that, the streak starts again at 1.

Each argument names one plant, by name or ID prefix. Quote names with spaces.

Examples:
  plantcare water fern
  plantcare water fern monstera "string of pearls"
  plantcare water fern --at "yesterday 7pm"
  plantcare water --thirsty`,
	ValidArgsFunction: completePlants,
	RunE:              runWater,
}

func init() {
	waterCmd.Flags().StringVar(&waterFlagAt, "at", "", "When the watering happened (default now)")
	waterCmd.Flags().BoolVar(&waterFlagThirsty, "thirsty", false, "Water every plant that needs it")

	rootCmd.AddCommand(waterCmd)
}

func runWater(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !waterFlagThirsty {
		return errors.NewUserError("No plant given", errors.GetSuggestion(errors.ErrPlantRequired)).
			WithCause(errors.ErrPlantRequired)
	}

	var at time.Time
	if waterFlagAt != "" {
		var err error
		if at, err = parseWateredAt(waterFlagAt); err != nil {
			return err
		}
	}

	svc, err := plantService()
	if err != nil {
		return err
	}

	var targets []model.Plant
	if waterFlagThirsty {
		plants, err := listPlants(cmd.Context())
		if err != nil {
			return err
		}
		targets = scheduler.FindThirsty(plants, ctx.Now(), ctx.Config.Reminder.HealthThreshold)
	}
	for _, ref := range args {
		p, err := resolvePlant(cmd.Context(), svc, ref)
		if err != nil {
			return err
		}
		if !slices.ContainsFunc(targets, func(t model.Plant) bool { return t.ID == p.ID }) {
			targets = append(targets, p)
		}
	}

	now := ctx.Now()
	var results []*output.WaterResponse
	cli := ctx.CLIFormatter()
	for _, p := range targets {
		before, after, err := svc.Water(cmd.Context(), p.ID, at)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			results = append(results, output.NewWaterResponse(before, after, now))
			continue
		}
		cli.PrintWatered(before, after, now)
	}

	if ctx.IsJSON() {
		if len(results) == 1 {
			return ctx.Formatter.JSON(results[0])
		}
		if results == nil {
			results = []*output.WaterResponse{}
		}
		return ctx.Formatter.JSON(results)
	}
	if len(targets) == 0 {
		cli.Success("Nothing is thirsty.")
	}
	return nil
}
