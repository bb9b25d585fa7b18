package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pocketlist/adapter/cli"
	todoDomain "github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/value_objects"
)

const dateLayout = "2006-01-02"

var errNotInitialized = errors.New("application not initialized - storage connection required")

var errEmptyTitle = errors.New("title cannot be empty")

// Cmd is the todo command group
var Cmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage to-do items",
	Long:  `Add, list, update, complete and delete your to-do items.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(undoCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(searchCmd)
}

func getApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil || app.TodoUseCases == nil || app.Board == nil {
		return nil, errNotInitialized
	}
	return app, nil
}

func parseTitle(s string) (string, error) {
	title := strings.TrimSpace(s)
	if title == "" {
		return "", errEmptyTitle
	}
	return title, nil
}

func parsePriority(s string) (*value_objects.Priority, error) {
	p, err := value_objects.ParsePriority(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func parseDueDate(s string) (*time.Time, error) {
	due, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
	}
	return &due, nil
}

// formatLine renders an item on one line for listings.
func formatLine(item todoDomain.Item) string {
	mark := " "
	if item.Completed {
		mark = "x"
	}
	details := item.Priority.String()
	if item.DueDate != nil {
		details += ", due " + item.DueDate.Format(dateLayout)
	}
	return fmt.Sprintf("[%s] %s  %s (%s)", mark, item.ID, item.Title, details)
}

// formatDetail renders every field of an item.
func formatDetail(item todoDomain.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id:          %s\n", item.ID)
	fmt.Fprintf(&b, "title:       %s\n", item.Title)
	if item.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", item.Description)
	}
	fmt.Fprintf(&b, "completed:   %t\n", item.Completed)
	fmt.Fprintf(&b, "priority:    %s\n", item.Priority)
	if item.DueDate != nil {
		fmt.Fprintf(&b, "due:         %s\n", item.DueDate.Format(dateLayout))
	}
	fmt.Fprintf(&b, "created:     %s\n", item.CreatedAt.Format(time.RFC3339))
	if item.UpdatedAt != nil {
		fmt.Fprintf(&b, "updated:     %s\n", item.UpdatedAt.Format(time.RFC3339))
	}
	return b.String()
}
