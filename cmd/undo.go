package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/runtime"
)

// undoCmd represents the undo command.
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last action",
	Long: `Undo the last add, water, edit or delete. Only the most recent action
is remembered.

Examples:
  plantcare water fern
  plantcare undo
  # Fern's health and streak are back to what they were

  plantcare delete fern
  plantcare undo
  # Restores the deleted plant`,
	Args: cobra.NoArgs,
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	if ctx.IsRemote() {
		return runtime.ErrRemoteUnsupported
	}

	local := runtime.NewLocalPlants(ctx.PlantRepo, ctx.UndoRepo, ctx.Now)
	state, err := local.Undo()
	if stderrors.Is(err, errors.ErrNothingToUndo) {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]string{
				"status":  "nothing_to_undo",
				"message": "Nothing to undo",
			})
		}
		ctx.CLIFormatter().Muted("Nothing to undo")
		return nil
	}
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.UndoResponse{
			Status:  "undone",
			Action:  string(state.Action),
			PlantID: state.PlantID,
		})
	}

	cli := ctx.CLIFormatter()
	name := state.PlantID
	if state.Snapshot != nil {
		name = state.Snapshot.Emoji + " " + state.Snapshot.Name
	}
	switch state.Action {
	case model.UndoActionAdd:
		cli.Success("Undid add: removed plant " + name)
	case model.UndoActionWater:
		cli.Success("Undid water: " + name + " is back to its previous health and streak")
	case model.UndoActionEdit:
		cli.Success("Undid edit: restored " + name)
	case model.UndoActionDelete:
		cli.Success("Undid delete: restored " + name)
	}
	return nil
}
