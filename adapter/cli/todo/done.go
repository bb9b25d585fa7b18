package todo

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [todo-id]",
	Short: "Mark a to-do item as completed",
	Long: `Mark a to-do item as completed by its ID.

Examples:
  pocketlist todo done 550e8400-e29b-41d4-a716-446655440000`,
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		item, err := app.TodoUseCases.MarkAsCompleted(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to complete todo: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Todo completed: %s\n", item.ID)
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:     "undo [todo-id]",
	Short:   "Mark a to-do item as not completed",
	Aliases: []string{"reopen"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		item, err := app.TodoUseCases.MarkAsIncomplete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to reopen todo: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Todo reopened: %s\n", item.ID)
		return nil
	},
}
