// Package renderer turns org-mode revision content into HTML.
package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/niklasfasching/go-org/org"

	"reveal/internal/sanitize"
)

// Style is the chroma style for highlighted source blocks.
const Style = "friendly"

var policy = sanitize.ContentPolicy()

// Org renders org-mode content, highlighting source blocks with chroma.
// Raw HTML from export blocks and snippets is filtered before it is
// trusted.
func Org(content string) (template.HTML, error) {
	out, err := org.New().Parse(strings.NewReader(content), "").Write(newHTMLWriter())
	if err != nil {
		return "", fmt.Errorf("render org content: %w", err)
	}
	return template.HTML(policy.Sanitize(out)), nil
}

func newHTMLWriter() *org.HTMLWriter {
	w := org.NewHTMLWriter()
	w.HighlightCodeBlock = highlight
	return w
}

func highlight(source, lang string, inline bool, params map[string]string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return template.HTMLEscapeString(source)
	}
	var buf bytes.Buffer
	formatter := html.New(html.WithClasses(true))
	if err := formatter.Format(&buf, styles.Get(Style), iterator); err != nil {
		return template.HTMLEscapeString(source)
	}
	return buf.String()
}
