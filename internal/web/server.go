package web

import (
	"database/sql"
	"html/template"
	"net/http"

	"reveal/internal/overview"
	"reveal/internal/page"
	"reveal/internal/revision"
	"reveal/internal/sanitize"
	"reveal/internal/web/session"
)

// Server holds the dependencies for the web server.
type Server struct {
	db        *sql.DB
	templates map[string]*template.Template
	flashes   *session.Flashes
	pageRepo  *page.Repository
	builder   *overview.Builder
	handler   http.Handler
}

// NewServer creates a new server with the given dependencies.
func NewServer(db *sql.DB, templates map[string]*template.Template, flashes *session.Flashes) *Server {
	pageRepo := page.NewRepository(db)
	builder := overview.NewBuilder(pageRepo, revision.NewDescriber(), sanitize.New())

	s := &Server{
		db:        db,
		templates: templates,
		flashes:   flashes,
		pageRepo:  pageRepo,
		builder:   builder,
	}
	s.handler = s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
