package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/30tools/ai-agents-directory/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-http-utils/headers"
	"github.com/rs/zerolog/log"
)

type favoritesResponse struct {
	Favorites []string       `json:"favorites"`
	Agents    []models.Agent `json:"agents"`
}

type toggleResponse struct {
	Name      string   `json:"name"`
	Favorite  bool     `json:"favorite"`
	Favorites []string `json:"favorites"`
}

func (h *Handlers) favoritesBody(r *http.Request) favoritesResponse {
	ctx := r.Context()
	return favoritesResponse{
		Favorites: h.Favorites.List(ctx),
		Agents:    h.Favorites.Agents(ctx, h.Catalog.Agents()),
	}
}

// GET /api/v1/favorites
func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.favoritesBody(r))
}

// DELETE /api/v1/favorites
func (h *Handlers) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	h.Favorites.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.favoritesBody(r))
}

// AddFavorite only accepts agents the catalog knows. Removal does not check,
// so stale entries can always be cleaned up.
// PUT /api/v1/favorites/{name}
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.Catalog.AgentByName(name); !ok {
		respondError(w, http.StatusNotFound, "Agent not found")
		return
	}
	h.Favorites.Add(r.Context(), name)
	respondJSON(w, http.StatusOK, h.favoritesBody(r))
}

// DELETE /api/v1/favorites/{name}
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.Favorites.Remove(r.Context(), chi.URLParam(r, "name"))
	respondJSON(w, http.StatusOK, h.favoritesBody(r))
}

// POST /api/v1/favorites/{name}/toggle
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.Catalog.AgentByName(name); !ok && !h.Favorites.Contains(r.Context(), name) {
		respondError(w, http.StatusNotFound, "Agent not found")
		return
	}
	on := h.Favorites.Toggle(r.Context(), name)
	respondJSON(w, http.StatusOK, toggleResponse{
		Name:      name,
		Favorite:  on,
		Favorites: h.Favorites.List(r.Context()),
	})
}

// FavoriteEvents streams favorites changes as server-sent events until the
// client disconnects.
// GET /api/v1/favorites/events
func (h *Handlers) FavoriteEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "SSE not supported")
		return
	}

	w.Header().Set(headers.ContentType, "text/event-stream")
	w.Header().Set(headers.CacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := h.Favorites.Hub().Subscribe(r.Context())

	// Initial snapshot so the client can render without a second request
	snapshot, _ := json.Marshal(map[string]any{"favorites": h.Favorites.List(r.Context())})
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", snapshot)
	flusher.Flush()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to encode favorites event")
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", ev.ID, ev.Action, data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
