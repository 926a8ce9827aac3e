package modelcache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/modelcache"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should require a path", func(t *testing.T) {
		_, err := modelcache.NewFileStore("")
		require.Error(t, err)
	})

	t.Run("should persist entries across store instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "models.json")

		first, err := modelcache.NewFileStore(path)
		require.NoError(t, err)
		modelcache.New(first).Set(ctx, domain.VendorGemini, "models/gemini-2.5-pro")

		second, err := modelcache.NewFileStore(path)
		require.NoError(t, err)
		model, ok := modelcache.New(second).Get(ctx, domain.VendorGemini)
		require.True(t, ok)
		require.Equal(t, "models/gemini-2.5-pro", model)
	})

	t.Run("should delete entries and tolerate missing keys", func(t *testing.T) {
		store, err := modelcache.NewFileStore(filepath.Join(t.TempDir(), "models.json"))
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, "a", []byte(`{"model":"x","timestamp":1}`)))
		require.NoError(t, store.Delete(ctx, "a"))
		require.NoError(t, store.Delete(ctx, "a"))

		_, ok, err := store.Get(ctx, "a")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("should report a corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "models.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

		store, err := modelcache.NewFileStore(path)
		require.NoError(t, err)

		_, _, err = store.Get(ctx, "a")
		require.Error(t, err)
	})

	t.Run("should replace a corrupt file on the next write", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "models.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

		store, err := modelcache.NewFileStore(path)
		require.NoError(t, err)
		cache := modelcache.New(store)

		cache.Set(ctx, domain.VendorPerplexity, "sonar-pro")

		model, ok := cache.Get(ctx, domain.VendorPerplexity)
		require.True(t, ok)
		require.Equal(t, "sonar-pro", model)
	})
}

func TestNewStore(t *testing.T) {
	t.Run("should build each backend", func(t *testing.T) {
		store, err := modelcache.NewStore(&modelcache.Config{Backend: modelcache.BackendMemory})
		require.NoError(t, err)
		require.IsType(t, &modelcache.MemoryStore{}, store)

		store, err = modelcache.NewStore(&modelcache.Config{
			Backend: modelcache.BackendFile,
			File:    filepath.Join(t.TempDir(), "m.json"),
		})
		require.NoError(t, err)
		require.IsType(t, &modelcache.FileStore{}, store)

		store, err = modelcache.NewStore(&modelcache.Config{Backend: modelcache.BackendRedis, RedisAddr: "127.0.0.1:0"})
		require.NoError(t, err)
		require.IsType(t, &modelcache.RedisStore{}, store)
	})

	t.Run("should reject unknown backends", func(t *testing.T) {
		_, err := modelcache.NewStore(&modelcache.Config{Backend: "etcd"})
		require.Error(t, err)
	})
}
