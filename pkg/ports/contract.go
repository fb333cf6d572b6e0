package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvholm/espalier/pkg/definition"
)

// RunMachineStoreContract runs a suite of tests to verify that a
// MachineStore implementation adheres to the defined interface contract.
func RunMachineStoreContract(t *testing.T, store MachineStore) {
	ctx := context.Background()
	base := "contract-" + time.Now().Format("20060102150405")

	def := func(name string) *definition.Definition {
		return &definition.Definition{
			Name:      name,
			States:    []string{"on", "off"},
			Alphabet:  []string{"t"},
			Initial:   "off",
			Accepting: []string{"on"},
			Transitions: map[string]any{
				"off": map[string]any{"t": "on"},
				"on":  map[string]any{"t": "off"},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		name := base + "-roundtrip"
		stored, err := store.Save(ctx, def(name))
		require.NoError(t, err, "Save should not return error")
		require.NotNil(t, stored)
		assert.NotEmpty(t, stored.Revision)
		assert.False(t, stored.UpdatedAt.IsZero())

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, name, loaded.Definition.Name)
		assert.Equal(t, []string{"on", "off"}, loaded.Definition.States)
		assert.Equal(t, "off", loaded.Definition.Initial)
		assert.Equal(t, stored.Revision, loaded.Revision)

		// The document must survive persistence well enough to compile.
		_, err = loaded.Definition.Compile()
		assert.NoError(t, err)

		require.NoError(t, store.Delete(ctx, name))
	})

	t.Run("Replace bumps revision", func(t *testing.T) {
		name := base + "-replace"
		first, err := store.Save(ctx, def(name))
		require.NoError(t, err)

		updated := def(name)
		updated.Description = "second version"
		second, err := store.Save(ctx, updated)
		require.NoError(t, err)
		assert.NotEqual(t, first.Revision, second.Revision)

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "second version", loaded.Definition.Description)

		require.NoError(t, store.Delete(ctx, name))
	})

	t.Run("Load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, base+"-nope")
		assert.ErrorIs(t, err, definition.ErrNotFound)
	})

	t.Run("Save without name", func(t *testing.T) {
		unnamed := def("")
		_, err := store.Save(ctx, unnamed)
		assert.ErrorIs(t, err, definition.ErrUnnamed)
	})

	t.Run("Delete", func(t *testing.T) {
		name := base + "-delete"
		_, err := store.Save(ctx, def(name))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, name))

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, definition.ErrNotFound, "Load after Delete should return ErrNotFound")

		assert.ErrorIs(t, store.Delete(ctx, name), definition.ErrNotFound)
	})

	t.Run("List is sorted", func(t *testing.T) {
		names := []string{base + "-list-b", base + "-list-a", base + "-list-c"}
		for _, name := range names {
			_, err := store.Save(ctx, def(name))
			require.NoError(t, err)
		}
		defer func() {
			for _, name := range names {
				_ = store.Delete(ctx, name)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err)

		var got []string
		for _, name := range listed {
			for _, want := range names {
				if name == want {
					got = append(got, name)
				}
			}
		}
		want := []string{base + "-list-a", base + "-list-b", base + "-list-c"}
		assert.Equal(t, want, got, fmt.Sprintf("expected lexical order within %v", listed))
	})
}
