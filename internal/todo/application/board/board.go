// Package board is the presentation-side state container for the to-do list.
// It keeps an in-memory copy of the collection and applies each mutation's
// result locally instead of reloading.
package board

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
)

// TodoService is the subset of the use-case layer the board drives.
type TodoService interface {
	AddTodo(ctx context.Context, draft todo.Draft) (todo.Item, error)
	GetAllTodos(ctx context.Context) ([]todo.Item, error)
	GetTodoByID(ctx context.Context, id string) (todo.Item, error)
	UpdateTodo(ctx context.Context, id string, patch todo.Patch) (todo.Item, error)
	DeleteTodo(ctx context.Context, id string) (bool, error)
	MarkAsCompleted(ctx context.Context, id string) (todo.Item, error)
	MarkAsIncomplete(ctx context.Context, id string) (todo.Item, error)
}

// State is what the board exposes to listeners.
type State struct {
	Todos   []todo.Item
	Loading bool
	Err     string
}

func (s State) clone() State {
	s.Todos = slices.Clone(s.Todos)
	return s
}

// Board holds the loaded collection.
type Board struct {
	service TodoService
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// New creates an empty board. Call Refresh to load it.
func New(service TodoService, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		service:   service,
		logger:    logger.With("component", "board"),
		listeners: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.clone()
}

// Subscribe registers fn to be called with the new state after every change.
func (b *Board) Subscribe(fn func(State)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Refresh reloads the whole collection.
func (b *Board) Refresh(ctx context.Context) error {
	b.change(func(s *State) {
		s.Loading = true
		s.Err = ""
	})

	items, err := b.service.GetAllTodos(ctx)

	b.change(func(s *State) {
		s.Loading = false
		if err != nil {
			s.Err = err.Error()
			return
		}
		s.Todos = items
	})
	if err != nil {
		b.logger.WarnContext(ctx, "failed to refresh board", "error", err)
	}
	return err
}

// Add creates an item and appends it locally.
func (b *Board) Add(ctx context.Context, draft todo.Draft) (todo.Item, error) {
	b.clearErr()
	item, err := b.service.AddTodo(ctx, draft)
	if err != nil {
		return todo.Item{}, b.fail(err)
	}
	b.change(func(s *State) {
		s.Todos = append(s.Todos, item)
	})
	return item, nil
}

// Get reads a single item from the service.
func (b *Board) Get(ctx context.Context, id string) (todo.Item, error) {
	b.clearErr()
	item, err := b.service.GetTodoByID(ctx, id)
	if err != nil {
		return todo.Item{}, b.fail(err)
	}
	return item, nil
}

// Update patches an item and replaces the local copy with the result.
func (b *Board) Update(ctx context.Context, id string, patch todo.Patch) (todo.Item, error) {
	b.clearErr()
	item, err := b.service.UpdateTodo(ctx, id, patch)
	if err != nil {
		return todo.Item{}, b.fail(err)
	}
	b.replace(item)
	return item, nil
}

// Toggle flips the completion flag of an item.
func (b *Board) Toggle(ctx context.Context, id string) (todo.Item, error) {
	b.clearErr()
	current, ok := b.find(id)
	if !ok {
		fetched, err := b.service.GetTodoByID(ctx, id)
		if err != nil {
			return todo.Item{}, b.fail(err)
		}
		current = fetched
	}

	var (
		item todo.Item
		err  error
	)
	if current.Completed {
		item, err = b.service.MarkAsIncomplete(ctx, id)
	} else {
		item, err = b.service.MarkAsCompleted(ctx, id)
	}
	if err != nil {
		return todo.Item{}, b.fail(err)
	}
	b.replace(item)
	return item, nil
}

// Delete removes an item and drops the local copy.
func (b *Board) Delete(ctx context.Context, id string) (bool, error) {
	b.clearErr()
	removed, err := b.service.DeleteTodo(ctx, id)
	if err != nil {
		return false, b.fail(err)
	}
	// A stale local copy goes too, even when the repository had nothing to remove.
	b.change(func(s *State) {
		s.Todos = slices.DeleteFunc(s.Todos, func(item todo.Item) bool {
			return item.ID == id
		})
	})
	return removed, nil
}

// View filters then sorts the loaded items.
func (b *Board) View(filter FilterKind, order SortOrder) []todo.Item {
	return Sort(Filter(b.Snapshot().Todos, filter), order)
}

func (b *Board) find(id string) (todo.Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.state.Todos {
		if item.ID == id {
			return item, true
		}
	}
	return todo.Item{}, false
}

// replace swaps in item by id, appending it if it was not loaded.
func (b *Board) replace(item todo.Item) {
	b.change(func(s *State) {
		i := slices.IndexFunc(s.Todos, func(t todo.Item) bool { return t.ID == item.ID })
		if i < 0 {
			s.Todos = append(s.Todos, item)
			return
		}
		s.Todos[i] = item
	})
}

func (b *Board) clearErr() {
	b.mu.Lock()
	hadErr := b.state.Err != ""
	b.mu.Unlock()
	if hadErr {
		b.change(func(s *State) { s.Err = "" })
	}
}

func (b *Board) fail(err error) error {
	b.change(func(s *State) { s.Err = err.Error() })
	return err
}

// change mutates the state under the lock and notifies listeners after
// releasing it.
func (b *Board) change(fn func(*State)) {
	b.mu.Lock()
	s := b.state.clone()
	fn(&s)
	b.state = s
	snapshot := s.clone()
	listeners := make([]func(State), 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	b.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
