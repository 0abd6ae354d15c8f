package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/raymee/postforge/internal/index"
)

// NewRouter creates the preview server router: the JSON API under /api and
// the static site tree everywhere else.
func NewRouter(siteRoot string, load IndexLoader, search index.PostIndex) chi.Router {
	h := NewHandler(load, search)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{id}", h.GetPost)
		r.Get("/search", h.Search)
	})

	r.Handle("/*", http.FileServer(http.Dir(siteRoot)))

	return r
}
