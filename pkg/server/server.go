// Package server provides the public entry point for initializing the
// AI agents directory server.
//
// It lives in pkg/ so the HTTP server and the agentdir CLI compose the same
// components the same way.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	defer srv.Close(ctx)
//	http.ListenAndServe(fmt.Sprintf(":%d", srv.Port), srv.Handler)
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/30tools/ai-agents-directory/internal/api"
	"github.com/30tools/ai-agents-directory/internal/api/handlers"
	"github.com/30tools/ai-agents-directory/internal/blog"
	"github.com/30tools/ai-agents-directory/internal/catalog"
	"github.com/30tools/ai-agents-directory/internal/config"
	"github.com/30tools/ai-agents-directory/internal/favorites"
	"github.com/30tools/ai-agents-directory/internal/links"
	"github.com/30tools/ai-agents-directory/internal/notify"
	"github.com/30tools/ai-agents-directory/internal/seo"
	"github.com/30tools/ai-agents-directory/internal/store"
	"github.com/30tools/ai-agents-directory/internal/telemetry"
	"github.com/30tools/ai-agents-directory/internal/web"

	"github.com/rs/zerolog/log"
)

// Server holds the initialized directory.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	Config    *config.Config
	Catalog   *catalog.Catalog
	Favorites *favorites.Store
	IndexNow  *notify.Service
	Metrics   *telemetry.Metrics

	// Port is the port the server should listen on.
	Port int

	store     store.Store
	pageViews *notify.Notifier
	shutdown  telemetry.Shutdown
}

// New loads configuration from the environment and builds the server.
func New(ctx context.Context) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig initializes every component from an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics()
		log.Info().Msg("✅ Prometheus metrics initialized")
	}

	cat, err := catalog.Load(cfg.Dataset.Path)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}

	kv, err := OpenStore(cfg)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}

	fav := NewFavorites(kv, metrics)
	in := NewIndexNow(cfg, metrics)
	log.Info().Bool("enabled", in.Enabled()).Msg("✅ IndexNow service initialized")

	posts, err := blog.Load()
	if err != nil {
		kv.Close()
		shutdown(ctx)
		return nil, fmt.Errorf("load blog: %w", err)
	}
	pages, err := web.New()
	if err != nil {
		kv.Close()
		shutdown(ctx)
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	h := handlers.New(cat, fav, in, posts, pages, NewResolver(cfg, cat), seo.NewSite(cfg.BaseURL), cfg.Version)

	var pageViews *notify.Notifier
	if cfg.IndexNow.PageViews && in.Enabled() {
		pageViews = notify.NewNotifier(in, cfg.IndexNow.Debounce.Std())
		h.PageViews = pageViews
		log.Info().Dur("debounce", cfg.IndexNow.Debounce.Std()).Msg("✅ Page-view IndexNow notifications enabled")
	}

	return &Server{
		Handler:   api.NewRouter(cfg, h, metrics),
		Config:    cfg,
		Catalog:   cat,
		Favorites: fav,
		IndexNow:  in,
		Metrics:   metrics,
		Port:      cfg.Port,
		store:     kv,
		pageViews: pageViews,
		shutdown:  shutdown,
	}, nil
}

// Close stops pending notifications, flushes the favorites store and shuts
// telemetry down.
func (s *Server) Close(ctx context.Context) error {
	if s.pageViews != nil {
		s.pageViews.Close()
	}
	return errors.Join(s.store.Close(), s.shutdown(ctx))
}

// ── Component constructors ───────────────────────────────────

// HTTPServer returns an http.Server for Handler on Port. WriteTimeout stays
// zero for event streams. Requests run under a base context that Shutdown
// cancels, which ends any open stream.
func (s *Server) HTTPServer() *http.Server {
	base, cancel := context.WithCancel(context.Background())
	hs := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	hs.RegisterOnShutdown(cancel)
	return hs
}

// OpenStore opens the configured favorites backend.
func OpenStore(cfg *config.Config) (store.Store, error) {
	path := cfg.FavoritesPath()
	switch cfg.Favorites.Backend {
	case config.BackendBolt:
		s, err := store.OpenBoltStore(path)
		if err != nil {
			return nil, fmt.Errorf("open favorites store: %w", err)
		}
		log.Info().Str("path", path).Msg("✅ Bolt favorites store initialized")
		return s, nil
	default:
		s := store.NewMemoryStore(path)
		log.Info().Str("snapshot", path).Msg("✅ In-memory favorites store initialized")
		return s, nil
	}
}

// NewFavorites wraps kv with a change hub. metrics may be nil.
func NewFavorites(kv store.Store, metrics *telemetry.Metrics) *favorites.Store {
	var opts []favorites.Option
	if metrics != nil {
		opts = append(opts, favorites.WithMutationCounter(metrics.FavoritesMutations))
	}
	return favorites.New(kv, favorites.NewHub(), opts...)
}

// NewIndexNow builds the IndexNow client. metrics may be nil.
func NewIndexNow(cfg *config.Config, metrics *telemetry.Metrics) *notify.Service {
	var opts []notify.Option
	if metrics != nil {
		opts = append(opts, notify.WithOutcomeCounter(metrics.IndexNowSubmissions))
	}
	return notify.NewService(notify.Config{
		Enabled:  cfg.IndexNow.Enabled,
		Key:      cfg.IndexNow.Key,
		Endpoint: cfg.IndexNow.Endpoint,
		Timeout:  cfg.IndexNow.Timeout.Std(),
	}, opts...)
}

// NewResolver treats the site itself and the dataset's source directory as
// internal hosts when resolving an agent's real URL.
func NewResolver(cfg *config.Config, cat *catalog.Catalog) *links.Resolver {
	return links.NewResolver(cfg.BaseURL, cat.Metadata().SourceURL)
}
