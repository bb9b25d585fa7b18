package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
)

// FilterKind selects items by completion.
type FilterKind string

const (
	FilterAll       FilterKind = "all"
	FilterActive    FilterKind = "active"
	FilterCompleted FilterKind = "completed"
)

// SortOrder orders a view.
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortByPriority SortOrder = "priority"
	SortByDueDate  SortOrder = "date"
)

// ParseFilter parses a filter name, ignoring case. Empty means all.
func ParseFilter(s string) (FilterKind, error) {
	switch f := FilterKind(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
	}
}

// ParseSortOrder parses a sort name, ignoring case. Empty keeps storage order.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, SortByPriority, SortByDueDate:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want priority or date)", s)
	}
}

// Filter returns the items matching kind in their original order.
func Filter(items []todo.Item, kind FilterKind) []todo.Item {
	switch kind {
	case FilterActive:
		return keep(items, func(i todo.Item) bool { return !i.Completed })
	case FilterCompleted:
		return keep(items, func(i todo.Item) bool { return i.Completed })
	default:
		return slices.Clone(items)
	}
}

// Sort returns a sorted copy of items. Both orders are stable.
// By priority, higher ranks come first. By due date, earlier dates come
// first and items without a due date go last.
func Sort(items []todo.Item, order SortOrder) []todo.Item {
	sorted := slices.Clone(items)
	switch order {
	case SortByPriority:
		slices.SortStableFunc(sorted, func(a, b todo.Item) int {
			return b.Priority.Rank() - a.Priority.Rank()
		})
	case SortByDueDate:
		slices.SortStableFunc(sorted, compareDueDate)
	}
	return sorted
}

func compareDueDate(a, b todo.Item) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}

func keep(items []todo.Item, pred func(todo.Item) bool) []todo.Item {
	out := make([]todo.Item, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Counts summarises a collection.
type Counts struct {
	Total     int
	Active    int
	Completed int
	Overdue   int
}

// CountItems tallies items, treating anything incomplete and due before now as overdue.
func CountItems(items []todo.Item, now time.Time) Counts {
	c := Counts{Total: len(items)}
	for _, item := range items {
		if item.Completed {
			c.Completed++
		} else {
			c.Active++
		}
		if item.IsOverdue(now) {
			c.Overdue++
		}
	}
	return c
}

// Counts tallies the loaded items.
func (b *Board) Counts(now time.Time) Counts {
	return CountItems(b.Snapshot().Todos, now)
}
