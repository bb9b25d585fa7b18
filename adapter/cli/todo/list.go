package todo

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pocketlist/internal/todo/application/board"
	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

var (
	listFilter string
	listSort   string
	listStats  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List to-do items",
	Long: `List to-do items with optional filtering and sorting.

Filter Options:
  --filter   all, active or completed (default all)

Sort Options:
  --sort     priority (highest first) or date (earliest due first,
             undated last); storage order when omitted

Output Options:
  --stats    also print the storage and event metrics of this run

Examples:
  pocketlist todo list
  pocketlist todo list --filter active --sort priority
  pocketlist todo list --sort date`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		filter, err := board.ParseFilter(listFilter)
		if err != nil {
			return err
		}
		order, err := board.ParseSortOrder(listSort)
		if err != nil {
			return err
		}

		if err := app.Board.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to list todos: %w", err)
		}

		out := cmd.OutOrStdout()
		items := app.Board.View(filter, order)
		if len(items) == 0 {
			fmt.Fprintln(out, "No todos found.")
		}
		for _, item := range items {
			fmt.Fprintln(out, formatLine(item))
		}

		c := app.Board.Counts(app.Now())
		fmt.Fprintf(out, "\n%d total, %d active, %d completed, %d overdue\n",
			c.Total, c.Active, c.Completed, c.Overdue)

		if listStats && app.Metrics != nil {
			printMetrics(out, app.Metrics)
		}
		return nil
	},
}

func printMetrics(out io.Writer, m *observability.InMemoryMetrics) {
	fmt.Fprintln(out, "\nMetrics:")
	counters := m.Counters()
	for _, key := range slices.Sorted(maps.Keys(counters)) {
		fmt.Fprintf(out, "  %s %d\n", key, counters[key])
	}
	gauges := m.Gauges()
	for _, key := range slices.Sorted(maps.Keys(gauges)) {
		fmt.Fprintf(out, "  %s %g\n", key, gauges[key])
	}
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "filter (all, active, completed)")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "sort order (priority, date)")
	listCmd.Flags().BoolVar(&listStats, "stats", false, "print metrics recorded by this run")
}
