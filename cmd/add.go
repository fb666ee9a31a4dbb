package cmd

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/parser"
	"github.com/manav03panchal/plantcare/internal/validate"
)

// Add command flags.
var (
	addFlagSpecies     string
	addFlagEmoji       string
	addFlagEvery       string
	addFlagLastWatered string
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:     "add NAME",
	Aliases: []string{"new", "a"},
	Short:   "Add a plant",
	Long: `Add a plant to your garden. A new plant starts at full health, as if it
was watered when you added it. Use --last-watered if that was earlier.

Frequency formats:
  3, 3d, 1w, 36h, every 2 weeks, daily, weekly

Examples:
  plantcare add Fern
  plantcare add "Monty" --species "Monstera deliciosa" --emoji 🪴 --every 1w
  plantcare add Cactus --every "every 2 weeks" --last-watered "5 days ago"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFlagSpecies, "species", "s", "", "Species")
	addCmd.Flags().StringVarP(&addFlagEmoji, "emoji", "e", "", "Emoji shown next to the name")
	addCmd.Flags().StringVarP(&addFlagEvery, "every", "n", "", "Watering frequency (default from config)")
	addCmd.Flags().StringVar(&addFlagLastWatered, "last-watered", "", "When the plant was last watered")

	addCmd.RegisterFlagCompletionFunc("every", completeFixed("daily", "3d", "weekly", "2w", "monthly"))

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	now := ctx.Now()

	name := validate.SanitizeName(joinArgs(args))
	emoji := addFlagEmoji
	if emoji == "" {
		emoji = ctx.Config.Care.DefaultEmoji
	}
	freq := ctx.Config.Care.DefaultFrequencyDays
	if addFlagEvery != "" {
		var err error
		if freq, err = parseFrequency(addFlagEvery); err != nil {
			return err
		}
	}
	watered := now
	if addFlagLastWatered != "" {
		var err error
		if watered, err = parseWateredAt(addFlagLastWatered); err != nil {
			return err
		}
	}

	if err := validate.Plant(name, addFlagSpecies, emoji, freq); err != nil {
		return err
	}

	svc, err := plantService()
	if err != nil {
		return err
	}
	p, err := svc.Add(cmd.Context(), model.NewPlantAt(name, addFlagSpecies, emoji, freq, watered))
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.PlantResponse{Status: "created", Plant: output.NewPlantOutput(p, now)})
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Added %s %s", p.Emoji, p.Name))
	cli.Println(cli.PlantCard(p, now))
	return nil
}

// parseFrequency reads a --every value.
func parseFrequency(input string) (float64, error) {
	days, err := parser.ParseFrequency(input)
	if err != nil {
		var pe *parser.TimeParseError
		if stderrors.As(err, &pe) {
			return 0, pe.ToUserError()
		}
		return 0, err
	}
	return days, nil
}

// parseWateredAt reads an --at or --last-watered value.
func parseWateredAt(input string) (t time.Time, err error) {
	t, err = parser.ParseWateredAt(input, ctx.Now())
	if err != nil {
		var pe *parser.TimeParseError
		if stderrors.As(err, &pe) {
			return t, pe.ToUserError()
		}
	}
	return t, err
}

// joinArgs joins positional words into one name.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// parseDuration reads a Go duration flag such as 30s or 5m.
func parseDuration(flag, input string) (time.Duration, error) {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return 0, errors.NewUserErrorWithField(flag, input,
			"Invalid duration",
			"Use a duration such as 30s, 5m or 1h")
	}
	return d, nil
}
