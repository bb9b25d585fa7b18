package cli

import (
	"time"

	"github.com/felixgeelhaar/pocketlist/internal/todo/application/board"
	"github.com/felixgeelhaar/pocketlist/internal/todo/application/usecases"
	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	TodoUseCases *usecases.TodoUseCases
	Board        *board.Board

	// Metrics collects what this process recorded; optional.
	Metrics *observability.InMemoryMetrics

	// Now is the clock used for overdue counts.
	Now func() time.Time
}

// NewApp creates a new CLI application.
func NewApp(todoUseCases *usecases.TodoUseCases, b *board.Board) *App {
	return &App{
		TodoUseCases: todoUseCases,
		Board:        b,
		Now:          time.Now,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
