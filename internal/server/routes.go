package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/tree", s.handleTree)
		r.Get("/tiles", s.handleTiles)
		r.Get("/render", s.handleRender)
		r.Get("/at", s.handleAt)

		r.Post("/viewport", s.handleViewport)
		r.Post("/expand", s.edit(opExpand))
		r.Post("/collapse", s.edit(opCollapse))
		r.Post("/expand-all", s.edit(opExpandAll))
		r.Post("/collapse-all", s.edit(opCollapseAll))
		r.Post("/delete", s.edit(opDelete))
		r.Post("/resize", s.edit(opResize))
		r.Post("/move", s.edit(opMove))

		r.Post("/session", s.handleSave)
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions/{id}/load", s.handleLoadSession)
	})
	return r
}
