package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/30tools/ai-agents-directory/internal/notify"

	"github.com/go-http-utils/headers"
)

type indexNowRequest struct {
	URL  string   `json:"url"`
	URLs []string `json:"urls"`
	Type string   `json:"type"`
}

type indexNowResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Stats   *notify.URLStats `json:"stats,omitempty"`
}

func (h *Handlers) allURLs() ([]string, notify.URLStats) {
	return notify.AllIndexableURLs(h.Site.BaseURL, h.Catalog.Agents(), h.Catalog.Categories())
}

// SubmitIndexNow accepts {url}, {urls} or {type:"all"}.
// POST /api/indexnow
func (h *Handlers) SubmitIndexNow(w http.ResponseWriter, r *http.Request) {
	var req indexNowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ctx := r.Context()

	switch {
	case req.URL != "":
		ok := h.IndexNow.SubmitURL(ctx, req.URL)
		msg := "Failed to submit URL"
		if ok {
			msg = "URL submitted to IndexNow"
		}
		respondJSON(w, http.StatusOK, indexNowResponse{Success: ok, Message: msg})

	case req.URLs != nil:
		ok := h.IndexNow.SubmitURLs(ctx, req.URLs)
		msg := "Failed to submit URLs"
		if ok {
			msg = fmt.Sprintf("%d URLs submitted to IndexNow", len(req.URLs))
		}
		respondJSON(w, http.StatusOK, indexNowResponse{Success: ok, Message: msg})

	case req.Type == "all":
		urls, stats := h.allURLs()
		res := h.IndexNow.SubmitAll(ctx, urls)
		respondJSON(w, http.StatusOK, indexNowResponse{
			Success: res.Success(),
			Message: fmt.Sprintf("Submitted %d/%d batches (%d total URLs) to IndexNow", res.Succeeded, res.Batches, res.Total),
			Stats:   &stats,
		})

	default:
		respondJSON(w, http.StatusBadRequest, indexNowResponse{
			Message: "Invalid request. Provide url, urls array, or type=all",
		})
	}
}

// GET /api/indexnow
func (h *Handlers) IndexNowUsage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": `IndexNow API - Use POST with { url } or { urls: [] } or { type: "all" }`,
		"enabled": h.IndexNow.Enabled(),
		"endpoints": map[string]string{
			"single":   `POST with { url: "https://example.com" }`,
			"multiple": `POST with { urls: ["url1", "url2"] }`,
			"all":      `POST with { type: "all" }`,
		},
	})
}

// SubmitAllIndexNow submits every indexable URL in rate-limited batches.
// POST /api/indexnow/submit-all
func (h *Handlers) SubmitAllIndexNow(w http.ResponseWriter, r *http.Request) {
	urls, stats := h.allURLs()
	res := h.IndexNow.SubmitAll(r.Context(), urls)
	if !res.Success() {
		msg := "IndexNow submission failed"
		for _, br := range res.Results {
			if br.Error != "" {
				msg = br.Error
				break
			}
		}
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   msg,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully submitted %d URLs to IndexNow", len(urls)),
		"urls":    urls,
		"count":   len(urls),
		"stats":   stats,
		"batches": res,
	})
}

// KeyFile serves the IndexNow ownership verification file.
// GET /{key}.txt
func (h *Handlers) KeyFile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(headers.ContentType, "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.IndexNow.Key()))
}
