package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/persist"
)

// Export command flags.
var (
	exportFlagAdapter string
	exportFlagOutput  string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"ex", "backup", "dump"},
	Short:   "Export your garden",
	Long: `Write every plant to a JSON file or a SQLite database. Without -o, the
JSON adapter prints to stdout. The adapter is guessed from the file
extension when --adapter is not given (.db, .sqlite and .sqlite3 mean sqlite).

Examples:
  plantcare export
  plantcare export -o garden.json
  plantcare export --adapter sqlite -o garden.db`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagAdapter, "adapter", "a", "", "Adapter: json, sqlite")
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (stdout if omitted)")

	exportCmd.RegisterFlagCompletionFunc("adapter", completeFixed("json", "sqlite"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := adapterKind(exportFlagAdapter, exportFlagOutput)
	if err != nil {
		return err
	}

	plants, err := listPlants(cmd.Context())
	if err != nil {
		return err
	}

	if exportFlagOutput == "" {
		if kind != persist.KindJSON {
			return errOutputRequired
		}
		if plants == nil {
			plants = []model.Plant{}
		}
		return ctx.Formatter.JSON(plants)
	}

	adapter, err := persist.Open(kind, exportFlagOutput)
	if err != nil {
		return err
	}
	if err := adapter.Save(cmd.Context(), plants); err != nil {
		logging.ErrorContext(cmd.Context(), "export failed",
			logging.KeyAdapter, string(kind), logging.KeyPath, exportFlagOutput, logging.KeyError, err)
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.TransferResponse{
			Status:  "exported",
			Adapter: string(kind),
			Path:    exportFlagOutput,
			Count:   len(plants),
		})
	}
	ctx.CLIFormatter().Success(
		"Exported " + output.Plural(len(plants), "plant") + " to " + exportFlagOutput + " (" + string(kind) + ")")
	return nil
}

// adapterKind picks the adapter from the flag, then from the file extension.
func adapterKind(flag, path string) (persist.Kind, error) {
	if flag != "" {
		return persist.ParseKind(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return persist.KindSQLite, nil
	default:
		return persist.KindJSON, nil
	}
}
