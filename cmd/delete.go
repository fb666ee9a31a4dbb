package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/output"
)

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:     "delete PLANT",
	Aliases: []string{"rm", "remove", "del"},
	Short:   "Remove a plant",
	Long: `Remove a plant from your garden. 'plantcare undo' brings it back.

Examples:
  plantcare delete fern
  plantcare undo`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completePlants,
	RunE:              runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	svc, err := plantService()
	if err != nil {
		return err
	}
	p, err := resolvePlant(cmd.Context(), svc, joinArgs(args))
	if err != nil {
		return err
	}
	deleted, err := svc.Delete(cmd.Context(), p.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.DeleteResponse{Status: "deleted", ID: deleted.ID})
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Removed %s %s", deleted.Emoji, deleted.Name))
	if !ctx.IsRemote() {
		cli.Muted("Changed your mind? Run 'plantcare undo'.")
	}
	return nil
}
