package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	t.Parallel()

	flashes := NewFlashes(NewStore([]byte(strings.Repeat("k", 32))), "")

	add := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	require.NoError(t, flashes.Add(add, req, "select two revisions"))

	cookies := add.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, DefaultName, cookies[0].Name)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	pop := httptest.NewRecorder()
	require.Equal(t, []string{"select two revisions"}, flashes.Pop(pop, next))

	// The drained session is written back without the message.
	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(pop.Result().Cookies()[0])
	require.Empty(t, flashes.Pop(httptest.NewRecorder(), again))
}

func TestPopWithoutCookie(t *testing.T) {
	t.Parallel()

	flashes := NewFlashes(NewStore(nil), "s")
	require.Empty(t, flashes.Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

// unsavableStore hands out one session and refuses to write it back.
type unsavableStore struct {
	session *sessions.Session
}

func (s *unsavableStore) Get(*http.Request, string) (*sessions.Session, error) { return s.session, nil }
func (s *unsavableStore) New(*http.Request, string) (*sessions.Session, error) { return s.session, nil }
func (s *unsavableStore) Save(*http.Request, http.ResponseWriter, *sessions.Session) error {
	return errors.New("cookie too large")
}

func TestPopLogsSaveFailure(t *testing.T) {
	h := memory.New()
	log.SetHandler(h)
	log.SetLevel(log.InfoLevel)

	store := &unsavableStore{}
	store.session = sessions.NewSession(store, "s")
	store.session.AddFlash("select two revisions")

	flashes := NewFlashes(store, "s")
	require.Equal(t, []string{"select two revisions"}, flashes.Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))

	require.Len(t, h.Entries, 1)
	require.Equal(t, log.WarnLevel, h.Entries[0].Level)
	require.Equal(t, "clear flashes", h.Entries[0].Message)
	require.Equal(t, "cookie too large", h.Entries[0].Fields.Get("error"))
}
