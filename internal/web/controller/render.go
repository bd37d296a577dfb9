package controller

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
)

// render executes the named template of set into a buffer so a failing
// template still produces a clean 500.
func render(w http.ResponseWriter, templates map[string]*template.Template, set, name string, data any) {
	tmpl, ok := templates[set]
	if !ok {
		log.WithField("template", set).Error("template set not loaded")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.WithError(err).WithField("template", set).Error("render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func serverError(w http.ResponseWriter, err error, msg string) {
	log.WithError(err).Error(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// intParam reads a positive integer URL parameter.
func intParam(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
