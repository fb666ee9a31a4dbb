package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/api"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/runtime"
)

var serveFlagAddr string

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plant API over HTTP",
	Long: `Run the plantcare HTTP/JSON API over the local store. Other machines
point their CLI at it with --remote or PLANTCARE_REMOTE. Waterings of the
same plant are applied one at a time, so concurrent requests never lose an
update.

Routes:
  GET    /health
  POST   /api/plants
  GET    /api/plants/{owner}
  PUT    /api/plants/{id}/water
  PUT    /api/plants/{id}
  DELETE /api/plants/{id}

Examples:
  plantcare serve
  plantcare serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (default from config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if ctx.IsRemote() {
		return runtime.ErrRemoteUnsupported
	}
	if !ctx.Debug {
		logging.Init(logging.ServiceConfig())
	}

	cfg := ctx.Config.Server
	if serveFlagAddr != "" {
		cfg.Addr = serveFlagAddr
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !ctx.IsJSON() {
		ctx.CLIFormatter().Muted("Serving plants on http://" + cfg.Addr + " (Ctrl+C to stop)")
	}
	return api.NewServer(ctx.PlantRepo, cfg).ListenAndServe(sigCtx)
}
