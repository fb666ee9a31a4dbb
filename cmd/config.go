package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/plantcare/internal/config"
	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/logging"
)

var configInitForce bool

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show or create the configuration file",
	Long: `plantcare reads built-in defaults, then the YAML config file, then
PLANTCARE_* environment variables, each overriding the last.

Examples:
  plantcare config show
  plantcare config init
  plantcare config path`,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after every layer is applied. Secrets such as
the Telegram token and webhook URLs are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configInitCmd writes a default config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

// configPathCmd prints where the config file lives.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx.Formatter.Println(flagConfig)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// masked returns a copy of cfg that is safe to print.
func masked(cfg config.RuntimeConfig) config.RuntimeConfig {
	if cfg.Reminder.TelegramToken != "" {
		cfg.Reminder.TelegramToken = logging.MaskValue(cfg.Reminder.TelegramToken)
	}
	if cfg.Reminder.WebhookURL != "" {
		cfg.Reminder.WebhookURL = logging.MaskURL(cfg.Reminder.WebhookURL)
	}
	return cfg
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(masked(*ctx.Config))
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		var generic map[string]any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return err
		}
		return ctx.Formatter.JSON(generic)
	}

	cli := ctx.CLIFormatter()
	cli.Muted("# " + flagConfig)
	cli.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(flagConfig); err == nil && !configInitForce {
		return errors.NewUserErrorWithField("config", flagConfig,
			"Config file already exists",
			"Pass --force to overwrite it")
	}
	if err := config.DefaultRuntimeConfig().Save(flagConfig); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"status": "created", "path": flagConfig})
	}
	ctx.CLIFormatter().Success("Wrote " + flagConfig)
	return nil
}
