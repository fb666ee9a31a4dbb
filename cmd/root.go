// Package cmd provides the CLI commands for plantcare.
package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/config"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/runtime"
	"github.com/manav03panchal/plantcare/internal/scheduler"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
	flagRemote string
	flagConfig string
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// stdout receives command output.
var stdout io.Writer = os.Stdout

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "plantcare",
	Short: "Keep your houseplants watered",
	Long: `plantcare tracks your houseplants, how healthy they are, and when each
one needs water. Health decays once a plant is overdue; watering on time
builds a streak.

Examples:
  plantcare add Fern --every 3d
  plantcare water fern
  plantcare list
  plantcare water monstera --at "yesterday 6pm"
  plantcare dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands (but allow __complete for dynamic completions)
		if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		if flagDebug {
			logging.Debug = true
			logging.Init(logging.DebugConfig())
		} else {
			logging.Init(logging.DefaultConfig())
		}

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg.Apply()

		opts := runtime.DefaultOptions()
		opts.DBPath = cfg.Storage.Database
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug
		opts.Config = cfg
		opts.Remote = flagRemote

		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}
		ctx.Formatter.Writer = stdout
		ctx.Debugf(cmd.Context(), "runtime ready", "db", ctx.DB.Path(), "remote", ctx.IsRemote())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: runSummary,
}

// runSummary prints the garden stats and the plants that need water.
func runSummary(cmd *cobra.Command, args []string) error {
	plants, err := listPlants(cmd.Context())
	if err != nil {
		return err
	}

	now := ctx.Now()
	stats := model.ComputeStats(plants, now)
	thirsty := scheduler.FindThirsty(plants, now, ctx.Config.Reminder.HealthThreshold)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			*output.StatsResponse
			Thirsty []*output.PlantOutput `json:"thirsty"`
		}{
			StatsResponse: &output.StatsResponse{Stats: stats, GeneratedAt: now.UTC().Format(time.RFC3339)},
			Thirsty:       output.NewPlantOutputs(thirsty, now),
		})
	}

	cli := ctx.CLIFormatter()
	cli.PrintStats(stats)
	if len(plants) == 0 {
		cli.Println()
		cli.Muted("No plants yet. Add one with 'plantcare add <name>'.")
		return nil
	}
	cli.Println()
	if len(thirsty) == 0 {
		cli.Success("Every plant is happy.")
		return nil
	}
	cli.Warning("Needs water:")
	cli.PrintPlantTable(thirsty, now)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && ctx != nil {
		// PersistentPostRunE does not run after a failed RunE.
		ctx.Close()
	}
	return err
}

// Fail prints err the way the chosen output format expects.
func Fail(err error) {
	if ctx != nil && ctx.IsJSON() {
		ctx.JSONFormatter().PrintError(err, runtime.Suggestion(err))
		return
	}
	os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagRemote, "remote", "",
		"Use the plantcare server at this URL instead of the local store")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath(),
		"Config file")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("plantcare %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
