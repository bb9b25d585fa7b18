package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore"
	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/value_objects"
	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

var errInjected = errors.New("injected failure")

// controlledStore wraps a MemoryStore with switchable failures and counts writes.
type controlledStore struct {
	*kvstore.MemoryStore

	mu     sync.Mutex
	getErr error
	setErr error
	sets   int
}

func newControlledStore() *controlledStore {
	return &controlledStore{MemoryStore: kvstore.NewMemoryStore()}
}

func (s *controlledStore) failGet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

func (s *controlledStore) failSet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}

func (s *controlledStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *controlledStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *controlledStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	err := s.setErr
	if err == nil {
		s.sets++
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, key, value)
}

// fakeClock returns a fixed time until advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequenceIDs yields the given ids in order, then id-N for later calls.
func sequenceIDs(ids ...string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		if n <= len(ids) {
			return ids[n-1]
		}
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestRepo(t *testing.T, store kvstore.Store, opts ...Option) (*KeyValueTodoRepository, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{
		WithClock(clock.Now),
		WithLogger(observability.NopLogger()),
	}, opts...)
	return NewKeyValueTodoRepository(store, opts...), clock
}

func ptr[T any](v T) *T { return &v }

func TestKeyValueTodoRepository_EmptyCollection(t *testing.T) {
	repo, _ := newTestRepo(t, kvstore.NewMemoryStore())

	items, err := repo.GetAllTodos(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestKeyValueTodoRepository_NullAndBlankPayloads(t *testing.T) {
	for _, payload := range []string{"null", "", "  \n"} {
		t.Run(fmt.Sprintf("%q", payload), func(t *testing.T) {
			store := kvstore.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), DefaultKey, []byte(payload)))
			repo, _ := newTestRepo(t, store)

			items, err := repo.GetAllTodos(context.Background())
			require.NoError(t, err)
			assert.Empty(t, items)

			created, err := repo.CreateTodo(context.Background(), todo.Draft{Title: "first"})
			require.NoError(t, err)
			items, err = repo.GetAllTodos(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []todo.Item{created}, items)
		})
	}
}

func TestKeyValueTodoRepository_CreateTodo_Defaults(t *testing.T) {
	store := kvstore.NewMemoryStore()
	repo, clock := newTestRepo(t, store, WithIDGenerator(sequenceIDs("id-1")))
	ctx := context.Background()

	item, err := repo.CreateTodo(ctx, todo.Draft{Title: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, "Buy milk", item.Title)
	assert.Empty(t, item.Description)
	assert.False(t, item.Completed)
	assert.Equal(t, clock.Now(), item.CreatedAt)
	assert.Nil(t, item.UpdatedAt)
	assert.Nil(t, item.DueDate)
	assert.Equal(t, value_objects.PriorityMedium, item.Priority)

	raw, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id":"id-1","title":"Buy milk","description":"","completed":false,
		"createdAt":"2026-10-15T09:00:00Z","updatedAt":null,"dueDate":null,"priority":"MEDIUM"
	}]`, string(raw))
}

func TestKeyValueTodoRepository_CreateTodo_ExplicitFields(t *testing.T) {
	repo, _ := newTestRepo(t, kvstore.NewMemoryStore())
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	item, err := repo.CreateTodo(context.Background(), todo.Draft{
		Title:       "File taxes",
		Description: "before the deadline",
		Completed:   ptr(true),
		DueDate:     &due,
		Priority:    ptr(value_objects.PriorityCritical),
	})
	require.NoError(t, err)

	assert.True(t, item.Completed)
	require.NotNil(t, item.DueDate)
	assert.True(t, due.Equal(*item.DueDate))
	assert.Equal(t, value_objects.PriorityCritical, item.Priority)
	assert.Len(t, item.ID, 36, "default ids are UUIDs")

	found, err := repo.GetTodoByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, item, *found)
}

func TestKeyValueTodoRepository_PreservesInsertionOrder(t *testing.T) {
	repo, clock := newTestRepo(t, kvstore.NewMemoryStore())
	ctx := context.Background()

	var want []string
	for _, title := range []string{"c", "a", "b"} {
		item, err := repo.CreateTodo(ctx, todo.Draft{Title: title})
		require.NoError(t, err)
		want = append(want, item.ID)
		clock.Advance(time.Second)
	}

	items, err := repo.GetAllTodos(ctx)
	require.NoError(t, err)
	var got []string
	for _, item := range items {
		got = append(got, item.ID)
	}
	assert.Equal(t, want, got)
}

func TestKeyValueTodoRepository_GetTodoByID_Absent(t *testing.T) {
	repo, _ := newTestRepo(t, kvstore.NewMemoryStore())
	_, err := repo.CreateTodo(context.Background(), todo.Draft{Title: "x"})
	require.NoError(t, err)

	found, err := repo.GetTodoByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestKeyValueTodoRepository_UpdateTodo(t *testing.T) {
	t.Run("merges present fields only", func(t *testing.T) {
		repo, clock := newTestRepo(t, kvstore.NewMemoryStore())
		ctx := context.Background()
		due := time.Date(2026, 12, 24, 18, 0, 0, 0, time.UTC)

		created, err := repo.CreateTodo(ctx, todo.Draft{
			Title:       "Wrap gifts",
			Description: "paper and tape",
			DueDate:     &due,
			Priority:    ptr(value_objects.PriorityHigh),
		})
		require.NoError(t, err)
		clock.Advance(time.Minute)

		updated, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{Title: ptr("Wrap all gifts")})
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, "Wrap all gifts", updated.Title)
		assert.Equal(t, "paper and tape", updated.Description)
		assert.Equal(t, created.DueDate, updated.DueDate)
		assert.Equal(t, value_objects.PriorityHigh, updated.Priority)
		require.NotNil(t, updated.UpdatedAt)
		assert.Equal(t, clock.Now(), *updated.UpdatedAt)

		stored, err := repo.GetTodoByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("absent id returns nil without writing", func(t *testing.T) {
		store := newControlledStore()
		repo, _ := newTestRepo(t, store)
		ctx := context.Background()
		_, err := repo.CreateTodo(ctx, todo.Draft{Title: "x"})
		require.NoError(t, err)
		writes := store.setCount()

		updated, err := repo.UpdateTodo(ctx, "missing", todo.Patch{Completed: ptr(true)})
		assert.NoError(t, err)
		assert.Nil(t, updated)
		assert.Equal(t, writes, store.setCount())
	})

	t.Run("clears due date", func(t *testing.T) {
		repo, _ := newTestRepo(t, kvstore.NewMemoryStore())
		ctx := context.Background()
		due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
		created, err := repo.CreateTodo(ctx, todo.Draft{Title: "x", DueDate: &due})
		require.NoError(t, err)

		updated, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{ClearDueDate: true})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Nil(t, updated.DueDate)
	})

	t.Run("empty patch still touches updatedAt", func(t *testing.T) {
		repo, _ := newTestRepo(t, kvstore.NewMemoryStore())
		ctx := context.Background()
		created, err := repo.CreateTodo(ctx, todo.Draft{Title: "x"})
		require.NoError(t, err)

		updated, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, created.Title, updated.Title)
		assert.NotNil(t, updated.UpdatedAt)
	})
}

func TestKeyValueTodoRepository_UpdatedAtStrictlyIncreases(t *testing.T) {
	repo, clock := newTestRepo(t, kvstore.NewMemoryStore())
	ctx := context.Background()

	created, err := repo.CreateTodo(ctx, todo.Draft{Title: "frozen clock"})
	require.NoError(t, err)

	first, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{Completed: ptr(true)})
	require.NoError(t, err)
	second, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{Completed: ptr(false)})
	require.NoError(t, err)

	assert.True(t, first.UpdatedAt.After(created.CreatedAt))
	assert.True(t, second.UpdatedAt.After(*first.UpdatedAt))

	clock.Advance(-time.Hour)
	third, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{Title: ptr("clock went back")})
	require.NoError(t, err)
	assert.True(t, third.UpdatedAt.After(*second.UpdatedAt))
}

func TestKeyValueTodoRepository_DeleteTodo(t *testing.T) {
	store := newControlledStore()
	repo, _ := newTestRepo(t, store)
	ctx := context.Background()

	keep, err := repo.CreateTodo(ctx, todo.Draft{Title: "keep"})
	require.NoError(t, err)
	drop, err := repo.CreateTodo(ctx, todo.Draft{Title: "drop"})
	require.NoError(t, err)

	removed, err := repo.DeleteTodo(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	writes := store.setCount()
	removed, err = repo.DeleteTodo(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, writes, store.setCount(), "deleting a missing id must not write")

	items, err := repo.GetAllTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []todo.Item{keep}, items)

	found, err := repo.GetTodoByID(ctx, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestKeyValueTodoRepository_GetTodosByCompletionStatus(t *testing.T) {
	repo, _ := newTestRepo(t, kvstore.NewMemoryStore())
	ctx := context.Background()

	a, err := repo.CreateTodo(ctx, todo.Draft{Title: "a"})
	require.NoError(t, err)
	b, err := repo.CreateTodo(ctx, todo.Draft{Title: "b", Completed: ptr(true)})
	require.NoError(t, err)
	c, err := repo.CreateTodo(ctx, todo.Draft{Title: "c"})
	require.NoError(t, err)

	active, err := repo.GetTodosByCompletionStatus(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []todo.Item{a, c}, active)

	done, err := repo.GetTodosByCompletionStatus(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []todo.Item{b}, done)
}

func TestKeyValueTodoRepository_SearchTodos(t *testing.T) {
	repo, _ := newTestRepo(t, kvstore.NewMemoryStore())
	ctx := context.Background()

	milk, err := repo.CreateTodo(ctx, todo.Draft{Title: "Buy MILK"})
	require.NoError(t, err)
	report, err := repo.CreateTodo(ctx, todo.Draft{Title: "Report", Description: "quarterly milk numbers"})
	require.NoError(t, err)
	server, err := repo.CreateTodo(ctx, todo.Draft{Title: "Server down", Priority: ptr(value_objects.PriorityCritical)})
	require.NoError(t, err)

	tests := []struct {
		term string
		want []todo.Item
	}{
		{"milk", []todo.Item{milk, report}},
		{"QUARTERLY", []todo.Item{report}},
		{"crit", []todo.Item{server}},
		{"medium", []todo.Item{milk, report}},
		{"", []todo.Item{milk, report, server}},
		{"nothing matches", []todo.Item{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := repo.SearchTodos(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyValueTodoRepository_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := kvstore.NewFileStore(dir)
	require.NoError(t, err)
	repo, clock := newTestRepo(t, store)

	due := time.Date(2026, 10, 31, 12, 30, 0, 0, time.UTC)
	created, err := repo.CreateTodo(ctx, todo.Draft{Title: "Carve pumpkin", DueDate: &due, Priority: ptr(value_objects.PriorityLow)})
	require.NoError(t, err)
	clock.Advance(time.Hour)
	updated, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{Completed: ptr(true)})
	require.NoError(t, err)

	reopened, err := kvstore.NewFileStore(dir)
	require.NoError(t, err)
	restarted := NewKeyValueTodoRepository(reopened, WithLogger(observability.NopLogger()))

	items, err := restarted.GetAllTodos(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *updated, items[0])
}

func TestKeyValueTodoRepository_CustomKey(t *testing.T) {
	store := kvstore.NewMemoryStore()
	repo, _ := newTestRepo(t, store, WithKey("work"))
	ctx := context.Background()

	_, err := repo.CreateTodo(ctx, todo.Draft{Title: "x"})
	require.NoError(t, err)

	assert.Equal(t, "work", repo.Key())
	_, err = store.Get(ctx, "work")
	assert.NoError(t, err)
	_, err = store.Get(ctx, DefaultKey)
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
}

func TestKeyValueTodoRepository_RegeneratesCollidingIDs(t *testing.T) {
	repo, _ := newTestRepo(t, kvstore.NewMemoryStore(), WithIDGenerator(sequenceIDs("dup", "dup", "dup", "fresh")))
	ctx := context.Background()

	first, err := repo.CreateTodo(ctx, todo.Draft{Title: "first"})
	require.NoError(t, err)
	second, err := repo.CreateTodo(ctx, todo.Draft{Title: "second"})
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestKeyValueTodoRepository_GivesUpOnConstantIDs(t *testing.T) {
	repo, _ := newTestRepo(t, kvstore.NewMemoryStore(), WithIDGenerator(func() string { return "same" }))
	ctx := context.Background()

	_, err := repo.CreateTodo(ctx, todo.Draft{Title: "first"})
	require.NoError(t, err)
	_, err = repo.CreateTodo(ctx, todo.Draft{Title: "second"})
	assert.ErrorIs(t, err, todo.ErrStorage)
}

func TestKeyValueTodoRepository_ConcurrentCreates(t *testing.T) {
	repo := NewKeyValueTodoRepository(kvstore.NewMemoryStore(), WithLogger(observability.NopLogger()))
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateTodo(ctx, todo.Draft{Title: fmt.Sprintf("task %d", i)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := repo.GetAllTodos(ctx)
	require.NoError(t, err)
	assert.Len(t, items, n)

	ids := make(map[string]struct{}, n)
	for _, item := range items {
		ids[item.ID] = struct{}{}
	}
	assert.Len(t, ids, n)
}

func TestKeyValueTodoRepository_ConcurrentUpdatesKeepAllFields(t *testing.T) {
	repo := NewKeyValueTodoRepository(kvstore.NewMemoryStore(), WithLogger(observability.NopLogger()))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 10; i++ {
		item, err := repo.CreateTodo(ctx, todo.Draft{Title: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateTodo(ctx, id, todo.Patch{Completed: ptr(true)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	done, err := repo.GetTodosByCompletionStatus(ctx, true)
	require.NoError(t, err)
	assert.Len(t, done, len(ids), "no update may be lost")
}

func TestKeyValueTodoRepository_StorageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("read failure", func(t *testing.T) {
		store := newControlledStore()
		repo, _ := newTestRepo(t, store)
		created, err := repo.CreateTodo(ctx, todo.Draft{Title: "x"})
		require.NoError(t, err)
		store.failGet(errInjected)

		calls := map[string]func() error{
			opList:   func() error { _, err := repo.GetAllTodos(ctx); return err },
			opGet:    func() error { _, err := repo.GetTodoByID(ctx, created.ID); return err },
			opCreate: func() error { _, err := repo.CreateTodo(ctx, todo.Draft{Title: "y"}); return err },
			opUpdate: func() error { _, err := repo.UpdateTodo(ctx, created.ID, todo.Patch{}); return err },
			opDelete: func() error { _, err := repo.DeleteTodo(ctx, created.ID); return err },
			opSearch: func() error { _, err := repo.SearchTodos(ctx, "x"); return err },
			opByStatus: func() error {
				_, err := repo.GetTodosByCompletionStatus(ctx, true)
				return err
			},
		}
		for op, call := range calls {
			t.Run(op, func(t *testing.T) {
				err := call()
				require.Error(t, err)
				assert.ErrorIs(t, err, todo.ErrStorage)
				assert.ErrorIs(t, err, errInjected)

				var storageErr *todo.StorageError
				require.ErrorAs(t, err, &storageErr)
				assert.Contains(t, storageErr.Op, op)
			})
		}
	})

	t.Run("write failure leaves stored collection unchanged", func(t *testing.T) {
		store := newControlledStore()
		repo, _ := newTestRepo(t, store)
		created, err := repo.CreateTodo(ctx, todo.Draft{Title: "x"})
		require.NoError(t, err)
		store.failSet(errInjected)

		_, err = repo.CreateTodo(ctx, todo.Draft{Title: "y"})
		assert.ErrorIs(t, err, todo.ErrStorage)

		_, err = repo.UpdateTodo(ctx, created.ID, todo.Patch{Title: ptr("changed")})
		var storageErr *todo.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, opUpdate, storageErr.Op)
		assert.Equal(t, created.ID, storageErr.ID)
		assert.Contains(t, err.Error(), "failed to update todo with id "+created.ID)

		_, err = repo.DeleteTodo(ctx, created.ID)
		assert.ErrorIs(t, err, todo.ErrStorage)

		store.failSet(nil)
		items, err := repo.GetAllTodos(ctx)
		require.NoError(t, err)
		assert.Equal(t, []todo.Item{created}, items)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, DefaultKey, []byte(`{"not":"an array"`)))
		repo, _ := newTestRepo(t, store)

		_, err := repo.GetAllTodos(ctx)
		assert.ErrorIs(t, err, todo.ErrStorage)

		_, err = repo.CreateTodo(ctx, todo.Draft{Title: "x"})
		assert.ErrorIs(t, err, todo.ErrStorage)

		raw, err := store.Get(ctx, DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, `{"not":"an array"`, string(raw), "corrupt data must not be overwritten")
	})

	t.Run("unknown stored priority", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, DefaultKey, []byte(`[{"id":"1","title":"x","priority":"URGENT"}]`)))
		repo, _ := newTestRepo(t, store)

		_, err := repo.GetAllTodos(ctx)
		assert.ErrorIs(t, err, todo.ErrStorage)
		assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
	})

	t.Run("missing or null stored priority", func(t *testing.T) {
		payloads := map[string]string{
			"missing": `[{"id":"1","title":"x","completed":false,"createdAt":"2026-10-15T09:00:00Z"}]`,
			"null":    `[{"id":"1","title":"x","completed":false,"createdAt":"2026-10-15T09:00:00Z","priority":null}]`,
		}
		for name, payload := range payloads {
			t.Run(name, func(t *testing.T) {
				store := kvstore.NewMemoryStore()
				require.NoError(t, store.Set(ctx, DefaultKey, []byte(payload)))
				repo, _ := newTestRepo(t, store)

				_, err := repo.GetAllTodos(ctx)
				assert.ErrorIs(t, err, todo.ErrStorage)
				assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)

				_, err = repo.CreateTodo(ctx, todo.Draft{Title: "y"})
				assert.ErrorIs(t, err, todo.ErrStorage)

				raw, err := store.Get(ctx, DefaultKey)
				require.NoError(t, err)
				assert.Equal(t, payload, string(raw), "invalid data must not be overwritten")
			})
		}
	})

	t.Run("open circuit surfaces as storage error", func(t *testing.T) {
		inner := newControlledStore()
		inner.failGet(errInjected)
		breaker := kvstore.NewBreakerStore(inner, kvstore.BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute}, observability.NopLogger())
		repo, _ := newTestRepo(t, breaker)

		_, err := repo.GetAllTodos(ctx)
		assert.ErrorIs(t, err, errInjected)

		_, err = repo.GetAllTodos(ctx)
		assert.ErrorIs(t, err, todo.ErrStorage)
		assert.ErrorIs(t, err, kvstore.ErrCircuitOpen)
	})
}

func TestKeyValueTodoRepository_RejectsInvalidPriority(t *testing.T) {
	ctx := context.Background()
	store := newControlledStore()
	repo, _ := newTestRepo(t, store)
	created, err := repo.CreateTodo(ctx, todo.Draft{Title: "x"})
	require.NoError(t, err)
	writes := store.setCount()

	_, err = repo.CreateTodo(ctx, todo.Draft{Title: "y", Priority: ptr(value_objects.Priority(42))})
	assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
	assert.NotErrorIs(t, err, todo.ErrStorage)

	_, err = repo.UpdateTodo(ctx, created.ID, todo.Patch{Priority: ptr(value_objects.Priority(0))})
	assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
	assert.NotErrorIs(t, err, todo.ErrStorage)

	assert.Equal(t, writes, store.setCount())
	got, err := repo.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, value_objects.PriorityMedium, got.Priority)
}

func TestKeyValueTodoRepository_RecordsMetrics(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	store := newControlledStore()
	repo, _ := newTestRepo(t, store, WithMetrics(metrics))
	ctx := context.Background()

	_, err := repo.CreateTodo(ctx, todo.Draft{Title: "a"})
	require.NoError(t, err)
	_, err = repo.CreateTodo(ctx, todo.Draft{Title: "b"})
	require.NoError(t, err)
	store.failGet(errInjected)
	_, _ = repo.GetAllTodos(ctx)

	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricRepositoryOperations,
		observability.T(observability.OperationKey, opCreate),
		observability.T(observability.OutcomeKey, observability.OutcomeSuccess)))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricRepositoryOperations,
		observability.T(observability.OperationKey, opList),
		observability.T(observability.OutcomeKey, observability.OutcomeError)))
	assert.Equal(t, 2.0, metrics.GetGauge(observability.MetricTodosStored))
}
