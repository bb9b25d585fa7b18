package todo

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search to-do items",
	Long: `Search titles, descriptions and priority names, ignoring case.

Examples:
  pocketlist todo search milk
  pocketlist todo search critical`,
	Aliases: []string{"find"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		items, err := app.TodoUseCases.SearchTodos(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to search todos: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintf(out, "No todos match %q.\n", args[0])
			return nil
		}
		for _, item := range items {
			fmt.Fprintln(out, formatLine(item))
		}
		return nil
	},
}
