// Package dialog tracks the asynchronous comparison dialogs opened from the
// revision overview and turns a language's revision picks into the URL the
// dialog loads.
package dialog

// Request is a pending dialog request. URL is what the dialog fetches once
// its trigger is clicked.
type Request struct {
	Langcode string
	URL      string
}

// Registry owns the dialog requests of one rendering context, keyed by the
// language of the trigger that issues them.
type Registry struct {
	requests map[string][]*Request
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{requests: make(map[string][]*Request)}
}

// Register adds a pending request for langcode and returns it.
func (r *Registry) Register(langcode, url string) *Request {
	req := &Request{Langcode: langcode, URL: url}
	r.requests[langcode] = append(r.requests[langcode], req)
	return req
}

// Lookup returns the requests issued by triggers of langcode.
func (r *Registry) Lookup(langcode string) []*Request {
	return r.requests[langcode]
}
