package controller

import (
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"

	"reveal/internal/dialog"
	"reveal/internal/overview"
	"reveal/internal/page"
	"reveal/internal/selection"
	"reveal/internal/web/session"
	"reveal/internal/web/viewmodels"
)

// Overview serves the per-language revision comparison table.
type Overview struct {
	PageRepo  *page.Repository
	Builder   *overview.Builder
	Flashes   *session.Flashes
	Templates map[string]*template.Template
}

// Register registers the overview routes
func (o *Overview) Register(r chi.Router) {
	r.Get("/pages/{pageID}/revisions", o.show)
	r.Post("/pages/{pageID}/revisions", o.compare)
}

func (o *Overview) show(w http.ResponseWriter, r *http.Request) {
	pageID, ok := intParam(r, "pageID")
	if !ok {
		http.Error(w, "Invalid page id", http.StatusBadRequest)
		return
	}

	p, err := o.PageRepo.FindByID(r.Context(), pageID)
	if errors.Is(err, page.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, err, "load page")
		return
	}

	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	table, err := o.Builder.Build(r.Context(), overview.Query{
		PageID:   p.ID,
		Page:     pageNum,
		BasePath: r.URL.Path,
	})
	if err != nil {
		serverError(w, err, "build revision overview")
		return
	}

	data := viewmodels.PageData{
		Title:    p.Title + " revisions",
		Page:     p,
		Overview: table,
		Flashes:  o.Flashes.Pop(w, r),
		Scripts:  viewmodels.Scripts(table.Libraries),
	}
	render(w, o.Templates, "overview.html", "layout.html", data)
}

// compare is the form submission used when the client script is not
// running: the pressed button names the language to compare.
func (o *Overview) compare(w http.ResponseWriter, r *http.Request) {
	pageID, ok := intParam(r, "pageID")
	if !ok {
		http.Error(w, "Invalid page id", http.StatusBadRequest)
		return
	}

	p, err := o.PageRepo.FindByID(r.Context(), pageID)
	if errors.Is(err, page.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, err, "load page")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}
	langcode := r.PostFormValue("compare")
	if !slices.Contains(p.Languages, langcode) {
		http.Error(w, "Unknown language", http.StatusBadRequest)
		return
	}
	state, err := selection.FromForm(r.PostForm, p.Languages)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	triggers := make([]dialog.Trigger, 0, len(p.Languages))
	for _, l := range p.Languages {
		triggers = append(triggers, dialog.Trigger{Langcode: l, Text: "Diff"})
	}
	adapter := dialog.NewAdapter(dialog.NewRegistry())
	adapter.Attach(triggers)

	target, err := adapter.Click(r.URL.Path, langcode, state)
	var incomplete *dialog.IncompleteSelectionError
	if errors.As(err, &incomplete) {
		if err := o.Flashes.Add(w, r, incomplete.Error()); err != nil {
			log.WithError(err).Warn("save flash")
		}
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	}
	if err != nil {
		serverError(w, err, "compare revisions")
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}
