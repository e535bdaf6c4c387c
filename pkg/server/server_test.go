package server_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/30tools/ai-agents-directory/internal/config"
	"github.com/30tools/ai-agents-directory/internal/store"
	"github.com/30tools/ai-agents-directory/pkg/server"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.DataDir = t.TempDir()
	cfg.IndexNow.Enabled = false
	return cfg
}

func TestNewWithConfig_ServesEmbeddedDataset(t *testing.T) {
	ctx := context.Background()
	srv, err := server.NewWithConfig(ctx, testConfig(t))
	require.NoError(t, err)
	defer srv.Close(ctx)

	assert.NotEmpty(t, srv.Catalog.Agents())
	assert.Equal(t, 8080, srv.Port)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFavoritesSurviveRestart(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendBolt} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t)
			cfg.Favorites.Backend = backend

			srv, err := server.NewWithConfig(ctx, cfg)
			require.NoError(t, err)
			name := srv.Catalog.Agents()[0].Name
			srv.Favorites.Add(ctx, name)
			require.NoError(t, srv.Close(ctx))

			srv, err = server.NewWithConfig(ctx, cfg)
			require.NoError(t, err)
			defer srv.Close(ctx)
			assert.Equal(t, []string{name}, srv.Favorites.List(ctx))
		})
	}
}

func TestOpenStore_Backends(t *testing.T) {
	cfg := testConfig(t)

	cfg.Favorites.Backend = config.BackendBolt
	kv, err := server.OpenStore(cfg)
	require.NoError(t, err)
	defer kv.Close()
	bolt, ok := kv.(*store.BoltStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.DataDir, "favorites.db"), bolt.Path())

	cfg.Favorites.Path = "none"
	cfg.Favorites.Backend = config.BackendMemory
	mem, err := server.OpenStore(cfg)
	require.NoError(t, err)
	defer mem.Close()
	assert.IsType(t, &store.MemoryStore{}, mem)
}

func TestNewResolver_UsesDatasetSource(t *testing.T) {
	ctx := context.Background()
	srv, err := server.NewWithConfig(ctx, testConfig(t))
	require.NoError(t, err)
	defer srv.Close(ctx)

	r := server.NewResolver(srv.Config, srv.Catalog)
	assert.Contains(t, r.Internal, "ai-agents.30tools.com")
}

func TestHTTPServer_ShutdownEndsEventStreams(t *testing.T) {
	ctx := context.Background()
	srv, err := server.NewWithConfig(ctx, testConfig(t))
	require.NoError(t, err)
	defer srv.Close(ctx)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	hs := srv.HTTPServer()
	assert.Zero(t, hs.WriteTimeout)
	served := make(chan error, 1)
	go func() { served <- hs.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/favorites/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, hs.Shutdown(shutdownCtx))
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.ErrorIs(t, <-served, http.ErrServerClosed)

	_, err = io.Copy(io.Discard, resp.Body)
	assert.NoError(t, err)
}
