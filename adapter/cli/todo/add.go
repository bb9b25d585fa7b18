package todo

import (
	"fmt"

	"github.com/spf13/cobra"

	todoDomain "github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
)

var (
	addDescription string
	addPriority    string
	addDue         string
	addCompleted   bool
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new to-do item",
	Long: `Add a new to-do item with a title and optional properties.

Examples:
  pocketlist todo add "Buy milk"
  pocketlist todo add "File taxes" -p high --due 2026-10-31
  pocketlist todo add "Call mom" --description "about the weekend"`,
	Aliases: []string{"create", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		title, err := parseTitle(args[0])
		if err != nil {
			return err
		}

		draft := todoDomain.Draft{
			Title:       title,
			Description: addDescription,
		}
		if cmd.Flags().Changed("completed") {
			draft.Completed = &addCompleted
		}
		if addPriority != "" {
			if draft.Priority, err = parsePriority(addPriority); err != nil {
				return err
			}
		}
		if addDue != "" {
			if draft.DueDate, err = parseDueDate(addDue); err != nil {
				return err
			}
		}

		item, err := app.Board.Add(cmd.Context(), draft)
		if err != nil {
			return fmt.Errorf("failed to add todo: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Todo added: %s\n", item.ID)
		fmt.Fprint(out, formatDetail(item))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDescription, "description", "", "todo description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority (low, medium, high, critical)")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&addCompleted, "completed", false, "create the item already completed")
}
