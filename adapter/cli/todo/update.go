package todo

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	todoDomain "github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
)

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateDue         string
	clearDue          bool
)

var updateCmd = &cobra.Command{
	Use:   "update [todo-id]",
	Short: "Update a to-do item",
	Long: `Update the properties of an existing to-do item.

Examples:
  pocketlist todo update abc123 --title "New title"
  pocketlist todo update abc123 --priority critical
  pocketlist todo update abc123 --due 2026-12-31
  pocketlist todo update abc123 --clear-due`,
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		patch, err := buildPatch(cmd)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return errors.New("no updates provided - use flags like --title, --priority, --due, or --clear-due")
		}

		item, err := app.Board.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Todo updated: %s\n", item.ID)
		fmt.Fprint(out, formatDetail(item))
		return nil
	},
}

func buildPatch(cmd *cobra.Command) (todoDomain.Patch, error) {
	var patch todoDomain.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, err := parseTitle(updateTitle)
		if err != nil {
			return patch, err
		}
		patch.Title = &title
	}
	if flags.Changed("description") {
		description := updateDescription
		patch.Description = &description
	}
	if flags.Changed("priority") {
		p, err := parsePriority(updatePriority)
		if err != nil {
			return patch, err
		}
		patch.Priority = p
	}
	if clearDue {
		patch.ClearDueDate = true
	} else if flags.Changed("due") {
		due, err := parseDueDate(updateDue)
		if err != nil {
			return patch, err
		}
		patch.DueDate = due
	}
	return patch, nil
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority (low, medium, high, critical)")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().BoolVar(&clearDue, "clear-due", false, "clear the due date")
	updateCmd.MarkFlagsMutuallyExclusive("due", "clear-due")
}
