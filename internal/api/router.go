package api

import (
	"net/http"

	"github.com/30tools/ai-agents-directory/internal/api/handlers"
	"github.com/30tools/ai-agents-directory/internal/api/middleware"
	"github.com/30tools/ai-agents-directory/internal/config"
	"github.com/30tools/ai-agents-directory/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with all page, API and SEO routes.
// metrics may be nil, in which case nothing is recorded and /metrics is not
// mounted.
func NewRouter(cfg *config.Config, h *handlers.Handlers, metrics *telemetry.Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(h.NotFound)

	// Health & info
	r.Get("/health", h.Health)
	r.Get("/version", h.VersionInfo)
	if metrics != nil && cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	// Pages
	r.Get("/", h.HomePage)
	r.Get("/agents", h.AgentsPage)
	r.Get("/agents/{name}", h.AgentPage)
	r.Get("/categories", h.CategoriesPage)
	r.Get("/categories/{name}", h.CategoryPage)
	r.Get("/favorites", h.FavoritesPage)
	r.Post("/favorites/clear", h.ClearFavoritesForm)
	r.Post("/favorites/{name}/toggle", h.ToggleFavoriteForm)
	r.Get("/blog", h.BlogPage)
	r.Get("/blog/{slug}", h.PostPage)
	r.Get("/about", h.AboutPage)

	// SEO documents
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/feed/rss.xml", h.RSSFeed)
	r.Get("/manifest.webmanifest", h.Manifest)
	r.Get("/"+h.IndexNow.Key()+".txt", h.KeyFile)

	r.Route("/api", func(r chi.Router) {
		r.Get("/og", h.OGImage)
		r.Get("/structured-data", h.StructuredData)

		r.Route("/indexnow", func(r chi.Router) {
			r.Get("/", h.IndexNowUsage)
			r.Post("/", h.SubmitIndexNow)
			r.Post("/submit-all", h.SubmitAllIndexNow)
		})

		// API v1
		r.Route("/v1", func(r chi.Router) {
			r.Get("/database", h.Database)

			r.Route("/agents", func(r chi.Router) {
				r.Get("/", h.ListAgents)
				r.Get("/featured", h.FeaturedAgents)
				r.Get("/{name}", h.GetAgent)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.ListCategories)
				r.Get("/popular", h.PopularCategories)
				r.Get("/{name}", h.GetCategory)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", h.ListFavorites)
				r.Delete("/", h.ClearFavorites)
				r.Get("/events", h.FavoriteEvents)
				r.Route("/{name}", func(r chi.Router) {
					r.Put("/", h.AddFavorite)
					r.Delete("/", h.RemoveFavorite)
					r.Post("/toggle", h.ToggleFavorite)
				})
			})
		})
	})

	return r
}
