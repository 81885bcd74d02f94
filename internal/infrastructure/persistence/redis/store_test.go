package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/ports/outbound"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host:         mr.Host(),
			Port:         port,
			DialTimeout:  time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			PoolSize:     2,
		},
	}

	store, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := []string{"eggs", "rice"}
	require.NoError(t, store.Save(ctx, "guest", outbound.CollectionPantries, in))

	var out []string
	require.True(t, store.Load(ctx, "guest", outbound.CollectionPantries, &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingKeyReportsFalse(t *testing.T) {
	store, _ := newTestStore(t)

	var out []string
	assert.False(t, store.Load(context.Background(), "guest", outbound.CollectionHistory, &out))
	assert.Nil(t, out)
}

func TestLoadNullPayloadKeepsDefault(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("pantrysage:guest:prefs", "null"))

	out := map[string]string{"theme": "dark"}
	assert.False(t, store.Load(context.Background(), "guest", outbound.CollectionPrefs, &out))
	// The caller's default survives untouched
	assert.Equal(t, map[string]string{"theme": "dark"}, out)
}

func TestLoadMalformedPayloadReportsFalse(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("pantrysage:guest:recipes", "{not json"))

	var out []string
	assert.False(t, store.Load(context.Background(), "guest", outbound.CollectionRecipes, &out))
}

func TestSessionMarkerLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, ok := store.LoadSessionMarker(ctx)
	assert.False(t, ok)

	require.NoError(t, store.SaveSessionMarker(ctx, "cook@example.com"))
	email, ok := store.LoadSessionMarker(ctx)
	require.True(t, ok)
	assert.Equal(t, "cook@example.com", email)

	require.NoError(t, store.ClearSessionMarker(ctx))
	_, ok = store.LoadSessionMarker(ctx)
	assert.False(t, ok)
}
