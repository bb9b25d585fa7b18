package todo

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [todo-id]",
	Short:   "Delete a to-do item",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		id := args[0]
		removed, err := app.Board.Delete(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to delete todo: %w", err)
		}

		if removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Todo deleted: %s\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No todo with id %s\n", id)
		}
		return nil
	},
}
