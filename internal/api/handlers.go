// Package api exposes the generated site and a small read-only JSON API
// for the preview server.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raymee/postforge/internal/apperr"
	"github.com/raymee/postforge/internal/index"
	"github.com/raymee/postforge/internal/meta"
)

// IndexLoader returns the current metadata document. The preview server
// reloads it per request so an ingestion run in another terminal shows up
// without a restart.
type IndexLoader func() *meta.Index

// Handler holds API route handlers.
type Handler struct {
	load   IndexLoader
	search index.PostIndex // nil disables /api/search
}

// NewHandler creates a new Handler.
func NewHandler(load IndexLoader, search index.PostIndex) *Handler {
	return &Handler{load: load, search: search}
}

// ListPosts returns the published records, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.load().PublishedByDateDesc())
}

// GetPost returns one record by id.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}
	post, err := h.load().Find(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("post not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type searchHit struct {
	ID      int    `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search queries the full-text index.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("search index not available"))
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing query parameter q"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.search.Search(q, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, searchHit{ID: res.ID, Slug: res.Slug, Title: res.Title, Snippet: res.Snippet})
	}
	writeJSON(w, http.StatusOK, hits)
}
