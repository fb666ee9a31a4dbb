package cmd

import (
	"log/slog"
	"os"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/runtime"
	"github.com/manav03panchal/plantcare/internal/storage"
	"github.com/manav03panchal/plantcare/internal/tui"
)

var dashboardFlagRefresh string

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "d", "tui"},
	Short:   "Open the interactive TUI dashboard",
	Long: `Open an interactive terminal dashboard with every plant, its health bar,
and the garden stats.

Keyboard Controls:
  j/k or ↑/↓  - Select a plant
  w or enter  - Water the selected plant
  r           - Refresh
  q           - Quit

Log output goes to $XDG_STATE_HOME/plantcare/dashboard.log while the
dashboard is open (stderr with --debug).

Examples:
  plantcare dashboard
  plantcare tui --refresh 30s`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardFlagRefresh, "refresh", "1m", "How often to reload plants")

	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	refresh, err := parseDuration("refresh", dashboardFlagRefresh)
	if err != nil {
		return err
	}

	if !ctx.Debug {
		closeLog, err := logToStateFile("dashboard.log")
		if err != nil {
			return err
		}
		defer closeLog()
	}

	svc, err := plantService()
	if err != nil {
		return err
	}

	// Configure the dashboard
	config := tui.DashboardConfig{
		Store:           runtime.NewGardenStore(cmd.Context(), svc),
		RefreshInterval: refresh,
		Now:             ctx.Now,
	}

	// Run the TUI dashboard
	return tui.Run(config)
}

// logToStateFile sends log records to a file under the XDG state dir so
// they do not tear the alternate screen. The returned func restores stderr.
func logToStateFile(name string) (func(), error) {
	path, err := xdg.StateFile(storage.AppName + "/" + name)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	cfg := logging.DefaultConfig()
	cfg.Output = f
	cfg.Level = slog.LevelInfo
	logging.Init(cfg)

	return func() {
		logging.Init(logging.DefaultConfig())
		f.Close()
	}, nil
}
