// Package usecases holds the application operations on the to-do collection.
package usecases

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/pocketlist/internal/shared/domain"
	"github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
)

// TodoUseCases exposes the to-do operations to presentation layers. Lookups
// by id are strict: absence becomes a NotFoundError. Deletion is not strict.
type TodoUseCases struct {
	repo      todo.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewTodoUseCases creates the use-case layer. A nil publisher disables events.
func NewTodoUseCases(repo todo.Repository, publisher eventbus.Publisher, logger *slog.Logger) *TodoUseCases {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &TodoUseCases{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// AddTodo creates a new item.
func (uc *TodoUseCases) AddTodo(ctx context.Context, draft todo.Draft) (todo.Item, error) {
	item, err := uc.repo.CreateTodo(ctx, draft)
	if err != nil {
		return todo.Item{}, err
	}
	uc.publish(ctx, todo.NewTodoCreated(item))
	return item, nil
}

// UpdateTodo merges patch into the item with id.
func (uc *TodoUseCases) UpdateTodo(ctx context.Context, id string, patch todo.Patch) (todo.Item, error) {
	item, err := uc.update(ctx, id, patch)
	if err != nil {
		return todo.Item{}, err
	}
	uc.publish(ctx, todo.NewTodoUpdated(id, patch.Fields()))
	return item, nil
}

// DeleteTodo removes the item with id and reports whether one was removed.
func (uc *TodoUseCases) DeleteTodo(ctx context.Context, id string) (bool, error) {
	removed, err := uc.repo.DeleteTodo(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		uc.publish(ctx, todo.NewTodoDeleted(id))
	}
	return removed, nil
}

// GetTodoByID returns the item with id.
func (uc *TodoUseCases) GetTodoByID(ctx context.Context, id string) (todo.Item, error) {
	item, err := uc.repo.GetTodoByID(ctx, id)
	if err != nil {
		return todo.Item{}, err
	}
	if item == nil {
		return todo.Item{}, &NotFoundError{ID: id}
	}
	return *item, nil
}

// GetAllTodos returns every item in storage order.
func (uc *TodoUseCases) GetAllTodos(ctx context.Context) ([]todo.Item, error) {
	return uc.repo.GetAllTodos(ctx)
}

// GetTodosByStatus returns the completed or the incomplete items.
func (uc *TodoUseCases) GetTodosByStatus(ctx context.Context, completed bool) ([]todo.Item, error) {
	return uc.repo.GetTodosByCompletionStatus(ctx, completed)
}

// SearchTodos returns the items matching term.
func (uc *TodoUseCases) SearchTodos(ctx context.Context, term string) ([]todo.Item, error) {
	return uc.repo.SearchTodos(ctx, term)
}

// MarkAsCompleted sets completed to true.
func (uc *TodoUseCases) MarkAsCompleted(ctx context.Context, id string) (todo.Item, error) {
	completed := true
	item, err := uc.update(ctx, id, todo.Patch{Completed: &completed})
	if err != nil {
		return todo.Item{}, err
	}
	uc.publish(ctx, todo.NewTodoCompleted(id))
	return item, nil
}

// MarkAsIncomplete sets completed to false.
func (uc *TodoUseCases) MarkAsIncomplete(ctx context.Context, id string) (todo.Item, error) {
	completed := false
	item, err := uc.update(ctx, id, todo.Patch{Completed: &completed})
	if err != nil {
		return todo.Item{}, err
	}
	uc.publish(ctx, todo.NewTodoReopened(id))
	return item, nil
}

func (uc *TodoUseCases) update(ctx context.Context, id string, patch todo.Patch) (todo.Item, error) {
	item, err := uc.repo.UpdateTodo(ctx, id, patch)
	if err != nil {
		return todo.Item{}, err
	}
	if item == nil {
		return todo.Item{}, &NotFoundError{ID: id}
	}
	return *item, nil
}

// publish sends event best-effort. The mutation has already been stored, so
// a failure is only logged.
func (uc *TodoUseCases) publish(ctx context.Context, event domain.DomainEvent) {
	if err := eventbus.PublishEvent(ctx, uc.publisher, event); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish todo event",
			"routing_key", event.RoutingKey(),
			"todo_id", event.AggregateID(),
			"error", err,
		)
	}
}
