package controller

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reveal/internal/page"
	"reveal/internal/web/viewmodels"
)

// Index lists the pages.
type Index struct {
	PageRepo  *page.Repository
	Templates map[string]*template.Template
}

// Register registers the index route
func (i *Index) Register(r chi.Router) {
	r.Get("/", i.list)
}

func (i *Index) list(w http.ResponseWriter, r *http.Request) {
	pages, err := i.PageRepo.List(r.Context())
	if err != nil {
		serverError(w, err, "list pages")
		return
	}

	data := viewmodels.PageData{
		Title: "Pages",
		Pages: pages,
	}
	render(w, i.Templates, "index.html", "layout.html", data)
}
