// Package session keeps one-shot flash messages in a signed cookie.
package session

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// DefaultName is the cookie name used when none is configured.
const DefaultName = "reveal-session"

// Flashes stores and drains flash messages.
type Flashes struct {
	Store sessions.Store
	Name  string
}

// NewStore creates a cookie store signed with key. An empty key gets a
// random one.
func NewStore(key []byte) *sessions.CookieStore {
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options.HttpOnly = true
	store.Options.Path = "/"
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// NewFlashes returns Flashes backed by store under the cookie name.
func NewFlashes(store sessions.Store, name string) *Flashes {
	if name == "" {
		name = DefaultName
	}
	return &Flashes{Store: store, Name: name}
}

// Add queues a message for the next page the client loads.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, msg string) error {
	s, err := f.Store.Get(r, f.Name)
	if err != nil && s == nil {
		return err
	}
	s.Options.Secure = r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
	s.AddFlash(msg)
	return s.Save(r, w)
}

// Pop returns and clears the queued messages. A cookie that fails to decode
// yields no messages.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []string {
	s, err := f.Store.Get(r, f.Name)
	if err != nil || s == nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if msg, ok := v.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	if err := s.Save(r, w); err != nil {
		log.WithError(err).WithField("session", f.Name).Warn("clear flashes")
	}
	return msgs
}
