package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pantrysage/v1/internal/ports/outbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(dir, zap.NewNop())
	require.NoError(t, err)
	return store, dir
}

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	in := testDoc{Name: "eggs", Count: 12}
	require.NoError(t, store.Save(ctx, "guest", outbound.CollectionPantries, in))

	// One file per identity-prefixed collection key
	_, err := os.Stat(filepath.Join(dir, "guest__pantries.json"))
	require.NoError(t, err)

	var out testDoc
	require.True(t, store.Load(ctx, "guest", outbound.CollectionPantries, &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingReturnsFalse(t *testing.T) {
	store, _ := newTestStore(t)

	var out testDoc
	assert.False(t, store.Load(context.Background(), "guest", outbound.CollectionRecipes, &out))
	assert.Zero(t, out)
}

func TestLoadMalformedFallsBackToDefault(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(dir, "guest__prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	out := testDoc{Name: "default", Count: 1}
	assert.False(t, store.Load(ctx, "guest", outbound.CollectionPrefs, &out))
	// The caller's default must survive untouched
	assert.Equal(t, "default", out.Name)
	assert.Equal(t, 1, out.Count)
}

func TestLoadNullPayloadReturnsFalse(t *testing.T) {
	store, dir := newTestStore(t)

	path := filepath.Join(dir, "guest__history.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	var out []testDoc
	assert.False(t, store.Load(context.Background(), "guest", outbound.CollectionHistory, &out))
}

func TestIdentityIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice_example_com", outbound.CollectionShopping, testDoc{Name: "alice"}))
	require.NoError(t, store.Save(ctx, "bob_example_com", outbound.CollectionShopping, testDoc{Name: "bob"}))

	var alice, bob testDoc
	require.True(t, store.Load(ctx, "alice_example_com", outbound.CollectionShopping, &alice))
	require.True(t, store.Load(ctx, "bob_example_com", outbound.CollectionShopping, &bob))
	assert.Equal(t, "alice", alice.Name)
	assert.Equal(t, "bob", bob.Name)

	var ghost testDoc
	assert.False(t, store.Load(ctx, "carol_example_com", outbound.CollectionShopping, &ghost))
}

func TestSessionMarker(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, ok := store.LoadSessionMarker(ctx)
	assert.False(t, ok)

	require.NoError(t, store.SaveSessionMarker(ctx, "user@example.com"))
	email, ok := store.LoadSessionMarker(ctx)
	require.True(t, ok)
	assert.Equal(t, "user@example.com", email)

	require.NoError(t, store.ClearSessionMarker(ctx))
	_, ok = store.LoadSessionMarker(ctx)
	assert.False(t, ok)

	// Clearing twice is fine
	require.NoError(t, store.ClearSessionMarker(ctx))
}

func TestSaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "guest", outbound.CollectionPrefs, testDoc{Count: 1}))
	require.NoError(t, store.Save(ctx, "guest", outbound.CollectionPrefs, testDoc{Count: 2}))

	var out testDoc
	require.True(t, store.Load(ctx, "guest", outbound.CollectionPrefs, &out))
	assert.Equal(t, 2, out.Count)
}
