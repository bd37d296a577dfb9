package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates
var templateFiles embed.FS

var funcs = template.FuncMap{
	// css marks a style computed by the server as safe.
	"css": func(s string) template.CSS { return template.CSS(s) },
}

// pages are the template sets, each parsed together with the layout.
var pages = []string{"index.html", "overview.html", "revision.html", "diff.html"}

// LoadTemplates parses one isolated template set per page.
func LoadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
