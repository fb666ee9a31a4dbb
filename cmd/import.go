package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/persist"
	"github.com/manav03panchal/plantcare/internal/runtime"
)

// Import command flags.
var (
	importFlagAdapter string
	importFlagInput   string
)

var errOutputRequired = errors.NewUserError(
	"The sqlite adapter needs a file",
	"Pass -o garden.db (or -i garden.db when importing)",
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:     "import [FILE]",
	Aliases: []string{"im", "restore"},
	Short:   "Replace your garden with an export",
	Long: `Load plants from a JSON file or a SQLite database written by
'plantcare export' and replace every stored plant with them. Undo history
is cleared.

Examples:
  plantcare import garden.json
  plantcare import -i garden.db --adapter sqlite`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFlagAdapter, "adapter", "a", "", "Adapter: json, sqlite")
	importCmd.Flags().StringVarP(&importFlagInput, "input", "i", "", "Input file")

	importCmd.RegisterFlagCompletionFunc("adapter", completeFixed("json", "sqlite"))

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if ctx.IsRemote() {
		return runtime.ErrRemoteUnsupported
	}

	path := importFlagInput
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.NewUserError("No file to import", "Pass a file, e.g. plantcare import garden.json")
	}

	kind, err := adapterKind(importFlagAdapter, path)
	if err != nil {
		return err
	}
	adapter, err := persist.Open(kind, path)
	if err != nil {
		return err
	}

	plants, err := adapter.Load(cmd.Context())
	if err != nil {
		logging.ErrorContext(cmd.Context(), "import failed",
			logging.KeyAdapter, string(kind), logging.KeyPath, path, logging.KeyError, err)
		return err
	}
	if plants == nil {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.TransferResponse{Status: "empty", Adapter: string(kind), Path: path})
		}
		ctx.CLIFormatter().Muted("Nothing to import from " + path)
		return nil
	}
	for _, p := range plants {
		if !p.HasValidHealth() {
			logging.MalformedPlant(cmd.Context(), p.ID, "import")
		}
	}

	if err := persist.NewStore(ctx.PlantRepo).Save(cmd.Context(), plants); err != nil {
		logging.ErrorContext(cmd.Context(), "import failed",
			logging.KeyAdapter, "store", logging.KeyError, err)
		return err
	}
	if err := ctx.UndoRepo.Clear(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.TransferResponse{
			Status:  "imported",
			Adapter: string(kind),
			Path:    path,
			Count:   len(plants),
		})
	}
	ctx.CLIFormatter().Success("Imported " + output.Plural(len(plants), "plant") + " from " + path)
	return nil
}
