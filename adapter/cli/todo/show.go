package todo

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show [todo-id]",
	Short:   "Show a to-do item",
	Aliases: []string{"get"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		item, err := app.Board.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to show todo: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), formatDetail(item))
		return nil
	},
}
