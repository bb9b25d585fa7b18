package todo

import "context"

// Repository defines the interface for to-do persistence.
// Absence is reported as a nil item or false, never as an error.
type Repository interface {
	GetAllTodos(ctx context.Context) ([]Item, error)
	GetTodoByID(ctx context.Context, id string) (*Item, error)
	CreateTodo(ctx context.Context, draft Draft) (Item, error)
	UpdateTodo(ctx context.Context, id string, patch Patch) (*Item, error)
	DeleteTodo(ctx context.Context, id string) (bool, error)
	GetTodosByCompletionStatus(ctx context.Context, completed bool) ([]Item, error)
	SearchTodos(ctx context.Context, term string) ([]Item, error)
}
