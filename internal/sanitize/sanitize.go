// Package sanitize filters markup down to the tags an administrator may use
// in revision descriptions.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// AdminTags is the administrator allow-list: inline and structural markup,
// no scripts, styles, forms or embeds.
var AdminTags = []string{
	"a", "abbr", "acronym", "address", "article", "aside", "b", "bdi", "bdo", "big",
	"blockquote", "br", "caption", "cite", "code", "col", "colgroup", "dd", "del",
	"details", "dfn", "div", "dl", "dt", "em", "figcaption", "figure", "footer",
	"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "i", "img", "ins",
	"kbd", "li", "mark", "menu", "meter", "nav", "ol", "output", "p", "pre",
	"progress", "q", "rp", "rt", "ruby", "s", "samp", "section", "small", "span",
	"strong", "sub", "summary", "sup", "table", "tbody", "td", "tfoot", "th",
	"thead", "time", "tr", "tt", "u", "ul", "var", "wbr",
}

// AdminPolicy builds the bluemonday policy for AdminTags.
func AdminPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AdminTags...)
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("cite").OnElements("blockquote", "q", "del", "ins")
	p.AllowAttrs("datetime").OnElements("time", "del", "ins")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("title", "class", "lang", "dir").Globally()
	return p
}

// ContentPolicy is the policy for rendered revision content: user
// generated markup plus the class attributes syntax highlighting relies on.
func ContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}

// Sanitizer applies the administrator policy.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer using AdminPolicy.
func New() *Sanitizer {
	return &Sanitizer{policy: AdminPolicy()}
}

// Sanitize strips every tag and attribute outside the allow-list.
func (s *Sanitizer) Sanitize(markup string) string {
	return s.policy.Sanitize(markup)
}
