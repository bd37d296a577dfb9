package controller

import (
	"errors"
	"html"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sergi/go-diff/diffmatchpatch"

	"reveal/internal/langcode"
	"reveal/internal/models"
	"reveal/internal/page"
	"reveal/internal/web/renderer"
	"reveal/internal/web/viewmodels"
)

// DialogHeader marks requests issued by the comparison dialog, which only
// wants the page content.
const DialogHeader = "X-Reveal-Dialog"

// Revision renders single revisions and comparisons between two of them.
type Revision struct {
	PageRepo  *page.Repository
	Templates map[string]*template.Template
}

// Register registers the revision routes
func (rc *Revision) Register(r chi.Router) {
	r.Get("/pages/{pageID}/revisions/{revisionID}/view/{langcode}", rc.view)
	r.Get("/pages/{pageID}/revisions/diff/{langcode}/{left}/{right}", rc.diff)
}

func (rc *Revision) view(w http.ResponseWriter, r *http.Request) {
	pageID, ok1 := intParam(r, "pageID")
	revisionID, ok2 := intParam(r, "revisionID")
	lang, err := langcode.Canonical(chi.URLParam(r, "langcode"))
	if !ok1 || !ok2 || err != nil {
		http.Error(w, "Invalid revision", http.StatusBadRequest)
		return
	}

	rev, ok := rc.load(w, r, pageID, revisionID)
	if !ok {
		return
	}
	tr, found := rev.Translations[lang]
	if !found {
		http.NotFound(w, r)
		return
	}

	content, err := renderer.Org(tr.Content)
	if err != nil {
		serverError(w, err, "render revision")
		return
	}

	data := viewmodels.PageData{
		Title:    tr.Title,
		Revision: rev,
		Langcode: lang,
		Content:  content,
	}
	rc.respond(w, r, "revision.html", data)
}

func (rc *Revision) diff(w http.ResponseWriter, r *http.Request) {
	pageID, ok1 := intParam(r, "pageID")
	leftID, ok2 := intParam(r, "left")
	rightID, ok3 := intParam(r, "right")
	lang, err := langcode.Canonical(chi.URLParam(r, "langcode"))
	if !ok1 || !ok2 || !ok3 || err != nil {
		http.Error(w, "Invalid comparison", http.StatusBadRequest)
		return
	}

	left, ok := rc.load(w, r, pageID, leftID)
	if !ok {
		return
	}
	right, ok := rc.load(w, r, pageID, rightID)
	if !ok {
		return
	}

	from, to := left.Translations[lang], right.Translations[lang]
	data := viewmodels.PageData{
		Title:    "Changes in " + lang,
		Langcode: lang,
		Left:     viewmodels.DiffSide{Revision: left, Title: from.Title},
		Right:    viewmodels.DiffSide{Revision: right, Title: to.Title},
		Content:  diffHTML(from.Content, to.Content),
	}
	rc.respond(w, r, "diff.html", data)
}

func (rc *Revision) load(w http.ResponseWriter, r *http.Request, pageID, revisionID int) (models.Revision, bool) {
	rev, err := rc.PageRepo.LoadRevision(r.Context(), pageID, revisionID)
	if errors.Is(err, page.ErrNotFound) {
		http.NotFound(w, r)
		return models.Revision{}, false
	}
	if err != nil {
		serverError(w, err, "load revision")
		return models.Revision{}, false
	}
	return rev, true
}

// respond renders the whole page, or just its content block for the dialog.
func (rc *Revision) respond(w http.ResponseWriter, r *http.Request, set string, data viewmodels.PageData) {
	name := "layout.html"
	if r.Header.Get(DialogHeader) == "1" {
		name = "content"
	}
	render(w, rc.Templates, set, name, data)
}

func diffHTML(from, to string) template.HTML {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, true))

	var b strings.Builder
	for _, d := range diffs {
		text := html.EscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("<ins>" + text + "</ins>")
		case diffmatchpatch.DiffDelete:
			b.WriteString("<del>" + text + "</del>")
		case diffmatchpatch.DiffEqual:
			b.WriteString("<span>" + text + "</span>")
		}
	}
	return template.HTML(b.String())
}
