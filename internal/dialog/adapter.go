package dialog

import (
	"encoding/json"
	"fmt"
	"strings"

	"reveal/internal/selection"
)

// Width is the dialog width in CSS pixels.
const Width = 700

// Options are the dialog display options, serialised into the
// data-dialog-options attribute of an anchor.
type Options struct {
	Width int `json:"width"`
}

// JSON returns the options as the client script expects them.
func (o Options) JSON() string {
	b, _ := json.Marshal(o)
	return string(b)
}

// Trigger is a diff-link element of the overview for one language.
type Trigger struct {
	Langcode string
	Text     string
}

// Anchor is the clickable element attached to a trigger. Its class makes the
// dialog script intercept the click.
type Anchor struct {
	Langcode   string
	Text       string
	Href       string
	Class      string
	DialogType string
	Options    Options
}

// IncompleteSelectionError is returned by Click when the language lacks a
// left or right revision. The click must not open the dialog.
type IncompleteSelectionError struct {
	Langcode string
}

func (e *IncompleteSelectionError) Error() string {
	return fmt.Sprintf("You need to select two %s revisions first", e.Langcode)
}

// Adapter connects the per-language revision picks to dialog requests.
type Adapter struct {
	registry *Registry
}

// NewAdapter returns an adapter that rewrites requests of registry.
func NewAdapter(registry *Registry) *Adapter {
	return &Adapter{registry: registry}
}

// Attach creates one anchor per trigger and registers its pending request.
func (a *Adapter) Attach(triggers []Trigger) []Anchor {
	anchors := make([]Anchor, 0, len(triggers))
	for _, t := range triggers {
		anchors = append(anchors, Anchor{
			Langcode:   t.Langcode,
			Text:       t.Text,
			Href:       "#",
			Class:      "use-ajax",
			DialogType: "modal",
			Options:    Options{Width: Width},
		})
		a.registry.Register(t.Langcode, "#")
	}
	return anchors
}

// Click handles activation of the langcode trigger on the page at pageURL.
// With both revisions picked every request of langcode is pointed at
// <pageURL without query or fragment>/diff/<langcode>/<left>/<right> and
// that URL is returned. Otherwise no request changes and an
// *IncompleteSelectionError is returned.
func (a *Adapter) Click(pageURL, langcode string, state selection.State) (string, error) {
	sel := state.Get(langcode)
	if !sel.Complete() {
		return "", &IncompleteSelectionError{Langcode: langcode}
	}

	base := pageURL
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	target := selection.DiffPath(base, langcode, *sel.Left, *sel.Right)

	for _, req := range a.registry.Lookup(langcode) {
		req.URL = target
	}
	return target, nil
}
