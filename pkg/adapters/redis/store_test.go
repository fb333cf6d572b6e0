package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arvholm/espalier/pkg/definition"
	"github.com/arvholm/espalier/pkg/ports"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func fixture(name string) *definition.Definition {
	return &definition.Definition{
		Name:     name,
		States:   []string{"even", "odd"},
		Alphabet: []string{"1"},
		Initial:  "even",
		Accepting: []string{
			"odd",
		},
		Transitions: map[string]any{
			"even": map[string]any{"1": "odd"},
			"odd":  map[string]any{"1": "even"},
		},
	}
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunMachineStoreContract(t, store)
}

func TestRedisStore_TTLPrunesIndex(t *testing.T) {
	store, mr := newTestStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	_, err := store.Save(ctx, fixture("ephemeral"))
	require.NoError(t, err)

	names, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"ephemeral"}, names)

	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "ephemeral")
	require.True(t, errors.Is(err, definition.ErrNotFound))

	names, err = store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	store, mr := newTestStore(t, WithPrefix("custom:"))
	ctx := context.Background()

	_, err := store.Save(ctx, fixture("prefixed"))
	require.NoError(t, err)

	require.True(t, mr.Exists("custom:prefixed"))
	require.True(t, mr.Exists("custom:index"))
}
