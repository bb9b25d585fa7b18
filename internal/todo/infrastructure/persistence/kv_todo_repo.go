package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore"
	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

// DefaultKey is the storage key the collection lives under.
const DefaultKey = "todos"

// maxIDAttempts bounds id regeneration on collision.
const maxIDAttempts = 16

// Operation names reported in errors, logs and metrics.
const (
	opLoad     = "retrieve todos from storage"
	opSave     = "save todos to storage"
	opList     = "list todos"
	opGet      = "get todo"
	opCreate   = "create todo"
	opUpdate   = "update todo"
	opDelete   = "delete todo"
	opByStatus = "list todos by status"
	opSearch   = "search todos"
)

// KeyValueTodoRepository implements todo.Repository on a single entry of a
// kvstore.Store. The whole collection is one JSON array that every mutation
// reads, changes in memory and writes back.
type KeyValueTodoRepository struct {
	store   kvstore.Store
	key     string
	clock   func() time.Time
	newID   func() string
	logger  *slog.Logger
	metrics observability.Metrics

	// mu serializes read-modify-write cycles. Reads go straight to the store.
	mu sync.Mutex
}

var _ todo.Repository = (*KeyValueTodoRepository)(nil)

// Option configures a KeyValueTodoRepository.
type Option func(*KeyValueTodoRepository)

// WithKey sets the storage key. Empty keys are ignored.
func WithKey(key string) Option {
	return func(r *KeyValueTodoRepository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithClock sets the time source for createdAt and updatedAt.
func WithClock(clock func() time.Time) Option {
	return func(r *KeyValueTodoRepository) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithIDGenerator sets the id source for new items.
func WithIDGenerator(newID func() string) Option {
	return func(r *KeyValueTodoRepository) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *KeyValueTodoRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics observability.Metrics) Option {
	return func(r *KeyValueTodoRepository) {
		if metrics != nil {
			r.metrics = metrics
		}
	}
}

// NewKeyValueTodoRepository creates a repository over store.
func NewKeyValueTodoRepository(store kvstore.Store, opts ...Option) *KeyValueTodoRepository {
	r := &KeyValueTodoRepository{
		store:   store,
		key:     DefaultKey,
		clock:   time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "todo_repository", "key", r.key)
	return r
}

// Key returns the storage key of the collection.
func (r *KeyValueTodoRepository) Key() string {
	return r.key
}

// GetAllTodos returns every item in storage order.
func (r *KeyValueTodoRepository) GetAllTodos(ctx context.Context) ([]todo.Item, error) {
	return observe(ctx, r, opList, "", func() ([]todo.Item, error) {
		items, err := r.load(ctx)
		if err != nil {
			return nil, todo.NewStorageError(opList, "", err)
		}
		return items, nil
	})
}

// GetTodoByID returns the item with id, or nil if there is none.
func (r *KeyValueTodoRepository) GetTodoByID(ctx context.Context, id string) (*todo.Item, error) {
	return observe(ctx, r, opGet, id, func() (*todo.Item, error) {
		items, err := r.load(ctx)
		if err != nil {
			return nil, todo.NewStorageError(opGet, id, err)
		}
		if idx := indexOf(items, id); idx >= 0 {
			item := items[idx]
			return &item, nil
		}
		return nil, nil
	})
}

// CreateTodo appends a new item built from draft and persists the collection.
// An invalid draft is rejected before storage is touched.
func (r *KeyValueTodoRepository) CreateTodo(ctx context.Context, draft todo.Draft) (todo.Item, error) {
	if err := draft.Validate(); err != nil {
		return todo.Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return observe(ctx, r, opCreate, "", func() (todo.Item, error) {
		items, err := r.load(ctx)
		if err != nil {
			return todo.Item{}, todo.NewStorageError(opCreate, "", err)
		}

		id, err := r.uniqueID(items)
		if err != nil {
			return todo.Item{}, todo.NewStorageError(opCreate, "", err)
		}

		item := todo.NewItem(id, draft, r.now())
		items = append(items, item)
		if err := r.save(ctx, items); err != nil {
			return todo.Item{}, todo.NewStorageError(opCreate, id, err)
		}

		r.logger.DebugContext(ctx, "todo created", "todo_id", id)
		return item, nil
	})
}

// UpdateTodo merges patch into the item with id. It returns nil without
// writing when no such item exists.
func (r *KeyValueTodoRepository) UpdateTodo(ctx context.Context, id string, patch todo.Patch) (*todo.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return observe(ctx, r, opUpdate, id, func() (*todo.Item, error) {
		items, err := r.load(ctx)
		if err != nil {
			return nil, todo.NewStorageError(opUpdate, id, err)
		}

		idx := indexOf(items, id)
		if idx < 0 {
			return nil, nil
		}

		updated := patch.Apply(items[idx], r.nextUpdatedAt(items[idx]))
		items[idx] = updated
		if err := r.save(ctx, items); err != nil {
			return nil, todo.NewStorageError(opUpdate, id, err)
		}

		r.logger.DebugContext(ctx, "todo updated", "todo_id", id, "fields", patch.Fields())
		return &updated, nil
	})
}

// DeleteTodo removes the item with id. It reports false without writing
// when no such item exists.
func (r *KeyValueTodoRepository) DeleteTodo(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return observe(ctx, r, opDelete, id, func() (bool, error) {
		items, err := r.load(ctx)
		if err != nil {
			return false, todo.NewStorageError(opDelete, id, err)
		}

		idx := indexOf(items, id)
		if idx < 0 {
			return false, nil
		}

		remaining := make([]todo.Item, 0, len(items)-1)
		remaining = append(remaining, items[:idx]...)
		remaining = append(remaining, items[idx+1:]...)
		if err := r.save(ctx, remaining); err != nil {
			return false, todo.NewStorageError(opDelete, id, err)
		}

		r.logger.DebugContext(ctx, "todo deleted", "todo_id", id)
		return true, nil
	})
}

// GetTodosByCompletionStatus returns the items whose completed flag equals
// completed, in storage order.
func (r *KeyValueTodoRepository) GetTodosByCompletionStatus(ctx context.Context, completed bool) ([]todo.Item, error) {
	return observe(ctx, r, opByStatus, "", func() ([]todo.Item, error) {
		items, err := r.load(ctx)
		if err != nil {
			return nil, todo.NewStorageError(fmt.Sprintf("%s (completed=%t)", opByStatus, completed), "", err)
		}
		return filter(items, func(item todo.Item) bool { return item.Completed == completed }), nil
	})
}

// SearchTodos returns the items matching term in title, description or
// priority name, ignoring case.
func (r *KeyValueTodoRepository) SearchTodos(ctx context.Context, term string) ([]todo.Item, error) {
	return observe(ctx, r, opSearch, "", func() ([]todo.Item, error) {
		items, err := r.load(ctx)
		if err != nil {
			return nil, todo.NewStorageError(fmt.Sprintf("%s with query %q", opSearch, term), "", err)
		}
		return filter(items, func(item todo.Item) bool { return item.Matches(term) }), nil
	})
}

// load reads and decodes the collection. A missing entry, an empty value
// and a JSON null all decode to an empty collection.
func (r *KeyValueTodoRepository) load(ctx context.Context) ([]todo.Item, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return []todo.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []todo.Item{}, nil
	}

	var items []todo.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%s: decode collection: %w", opLoad, err)
	}
	if items == nil {
		items = []todo.Item{}
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%s: decode collection: %w", opLoad, err)
		}
	}
	r.metrics.Gauge(observability.MetricTodosStored, float64(len(items)))
	return items, nil
}

// save encodes the whole collection and replaces the stored entry.
func (r *KeyValueTodoRepository) save(ctx context.Context, items []todo.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%s: encode collection: %w", opSave, err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("%s: %w", opSave, err)
	}
	r.metrics.Gauge(observability.MetricTodosStored, float64(len(items)))
	return nil
}

func (r *KeyValueTodoRepository) now() time.Time {
	return r.clock().UTC()
}

// nextUpdatedAt returns the current time, moved forward if needed so that it
// is strictly after the item's last modification.
func (r *KeyValueTodoRepository) nextUpdatedAt(item todo.Item) time.Time {
	now := r.now()
	if last := item.LastModified(); !now.After(last) {
		now = last.Add(time.Nanosecond).UTC()
	}
	return now
}

func (r *KeyValueTodoRepository) uniqueID(items []todo.Item) (string, error) {
	for range maxIDAttempts {
		id := r.newID()
		if id != "" && indexOf(items, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("no unique id after %d attempts", maxIDAttempts)
}

// observe records metrics for fn and logs its failure once.
func observe[T any](ctx context.Context, r *KeyValueTodoRepository, op, id string, fn func() (T, error)) (T, error) {
	timer := observability.StartTimer(op).WithMetrics(r.metrics)
	result, err := fn()
	timer.StopWithError(ctx, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "storage operation failed",
			observability.OperationKey, op,
			"todo_id", id,
			observability.ErrorKey, err.Error(),
		)
	}
	return result, err
}

func indexOf(items []todo.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func filter(items []todo.Item, keep func(todo.Item) bool) []todo.Item {
	out := make([]todo.Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
