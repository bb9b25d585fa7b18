package todo

import (
	"github.com/felixgeelhaar/pocketlist/internal/shared/domain"
)

const (
	AggregateType = "Todo"

	RoutingKeyCreated   = "todo.created"
	RoutingKeyUpdated   = "todo.updated"
	RoutingKeyCompleted = "todo.completed"
	RoutingKeyReopened  = "todo.reopened"
	RoutingKeyDeleted   = "todo.deleted"
)

// TodoCreated is emitted when a new item is created.
type TodoCreated struct {
	domain.BaseEvent
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

// NewTodoCreated creates a TodoCreated event.
func NewTodoCreated(item Item) TodoCreated {
	return TodoCreated{
		BaseEvent: domain.NewBaseEvent(item.ID, AggregateType, RoutingKeyCreated),
		Title:     item.Title,
		Priority:  item.Priority.String(),
	}
}

// TodoUpdated is emitted when an item is updated.
type TodoUpdated struct {
	domain.BaseEvent
	Fields []string `json:"fields"` // Names of fields that were updated
}

// NewTodoUpdated creates a TodoUpdated event.
func NewTodoUpdated(id string, fields []string) TodoUpdated {
	return TodoUpdated{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyUpdated),
		Fields:    fields,
	}
}

// TodoCompleted is emitted when an item is marked completed.
type TodoCompleted struct {
	domain.BaseEvent
}

// NewTodoCompleted creates a TodoCompleted event.
func NewTodoCompleted(id string) TodoCompleted {
	return TodoCompleted{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyCompleted),
	}
}

// TodoReopened is emitted when a completed item is marked incomplete.
type TodoReopened struct {
	domain.BaseEvent
}

// NewTodoReopened creates a TodoReopened event.
func NewTodoReopened(id string) TodoReopened {
	return TodoReopened{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyReopened),
	}
}

// TodoDeleted is emitted when an item is removed.
type TodoDeleted struct {
	domain.BaseEvent
}

// NewTodoDeleted creates a TodoDeleted event.
func NewTodoDeleted(id string) TodoDeleted {
	return TodoDeleted{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyDeleted),
	}
}
