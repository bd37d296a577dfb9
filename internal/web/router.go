package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMid "github.com/go-chi/chi/v5/middleware"

	"reveal/internal/web/controller"
	"reveal/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMid.RequestID)
	r.Use(middleware.Logger)
	r.Use(chiMid.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", StaticFileServer()))

	indexController := controller.Index{PageRepo: s.pageRepo, Templates: s.templates}
	indexController.Register(r)

	overviewController := controller.Overview{PageRepo: s.pageRepo, Builder: s.builder, Flashes: s.flashes, Templates: s.templates}
	overviewController.Register(r)

	revisionController := controller.Revision{PageRepo: s.pageRepo, Templates: s.templates}
	revisionController.Register(r)

	return r
}
