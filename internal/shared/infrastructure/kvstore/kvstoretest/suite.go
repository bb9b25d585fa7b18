// Package kvstoretest holds the behaviour checks every kvstore backend must pass.
package kvstoretest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore"
)

// Factory returns a fresh, empty store. Cleanup is registered on t.
type Factory func(t *testing.T) kvstore.Store

// Run exercises the kvstore.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("get missing key", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(context.Background(), "todos")
		assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "todos", []byte(`[{"id":"1"}]`)))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, string(got))
	})

	t.Run("set replaces previous value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "todos", []byte("first value that is longer")))
		require.NoError(t, store.Set(ctx, "todos", []byte("second")))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "todos", []byte("a")))
		require.NoError(t, store.Set(ctx, "archive", []byte("b")))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, "a", string(got))

		got, err = store.Get(ctx, "archive")
		require.NoError(t, err)
		assert.Equal(t, "b", string(got))
	})

	t.Run("empty value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "todos", []byte{}))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("large value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		value := bytes.Repeat([]byte("0123456789abcdef"), 4096)

		require.NoError(t, store.Set(ctx, "todos", value))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "todos", []byte("abc")))
		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		got[0] = 'z'

		again, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again))
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "todos", []byte("x")))
		require.NoError(t, store.Delete(ctx, "todos"))

		_, err := store.Get(ctx, "todos")
		assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
	})

	t.Run("delete missing key", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Delete(context.Background(), "never-written"))
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, kvstore.ErrInvalidKey)
		assert.ErrorIs(t, store.Set(ctx, "", []byte("x")), kvstore.ErrInvalidKey)
		assert.ErrorIs(t, store.Delete(ctx, ""), kvstore.ErrInvalidKey)
	})
}
