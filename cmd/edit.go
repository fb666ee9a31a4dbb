package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/validate"
)

// Edit command flags.
var (
	editFlagName    string
	editFlagSpecies string
	editFlagEmoji   string
	editFlagEvery   string
)

// editCmd represents the edit command.
var editCmd = &cobra.Command{
	Use:     "edit PLANT",
	Aliases: []string{"e", "rename"},
	Short:   "Change a plant's name, species, emoji or frequency",
	Long: `Change a plant's details. Health, streak and the last watering are
never edited directly; water the plant instead.

Examples:
  plantcare edit fern --name "Boston Fern"
  plantcare edit monstera --every 10d --emoji 🪴`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completePlants,
	RunE:              runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editFlagName, "name", "", "New name")
	editCmd.Flags().StringVarP(&editFlagSpecies, "species", "s", "", "New species")
	editCmd.Flags().StringVarP(&editFlagEmoji, "emoji", "e", "", "New emoji")
	editCmd.Flags().StringVarP(&editFlagEvery, "every", "n", "", "New watering frequency")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	var update model.PlantUpdate
	flags := cmd.Flags()
	if flags.Changed("name") {
		update.Name = &editFlagName
	}
	if flags.Changed("species") {
		update.Species = &editFlagSpecies
	}
	if flags.Changed("emoji") {
		update.Emoji = &editFlagEmoji
	}
	if flags.Changed("every") {
		freq, err := parseFrequency(editFlagEvery)
		if err != nil {
			return err
		}
		update.WateringFrequencyDays = &freq
	}
	if err := validate.Update(&update); err != nil {
		return err
	}

	svc, err := plantService()
	if err != nil {
		return err
	}
	p, err := resolvePlant(cmd.Context(), svc, joinArgs(args))
	if err != nil {
		return err
	}
	_, after, err := svc.Edit(cmd.Context(), p.ID, update)
	if err != nil {
		return err
	}

	now := ctx.Now()
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.PlantResponse{Status: "updated", Plant: output.NewPlantOutput(after, now)})
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Updated %s %s", after.Emoji, after.Name))
	cli.Println(cli.PlantCard(after, now))
	return nil
}
