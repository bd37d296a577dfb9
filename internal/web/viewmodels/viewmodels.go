package viewmodels

import (
	"html/template"

	"reveal/internal/models"
	"reveal/internal/overview"
)

// librarySources maps client libraries declared by the overview to the
// embedded scripts implementing them.
var librarySources = map[string]string{
	overview.LibraryDialog:   "/static/js/dialog.js",
	overview.LibraryOverview: "/static/js/reveal.js",
}

// Scripts resolves library identifiers to script URLs, skipping unknown
// ones.
func Scripts(libraries []string) []string {
	var out []string
	for _, lib := range libraries {
		if src, ok := librarySources[lib]; ok {
			out = append(out, src)
		}
	}
	return out
}

// DiffSide is one revision of a comparison.
type DiffSide struct {
	Revision models.Revision
	Title    string
}

// PageData is a unified struct to hold all possible data for any page.
type PageData struct {
	Title    string
	Pages    []models.Page
	Page     models.Page
	Overview *overview.Table
	Revision models.Revision
	Langcode string
	Left     DiffSide
	Right    DiffSide
	Content  template.HTML
	Flashes  []string
	Scripts  []string
}
