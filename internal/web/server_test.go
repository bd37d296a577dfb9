package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reveal/internal/database"
	"reveal/internal/seed"
	"reveal/internal/selection"
	"reveal/internal/web/controller"
	"reveal/internal/web/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	f, err := os.Open("../../fixtures.yaml")
	require.NoError(t, err)
	defer f.Close()
	fixture, err := seed.Parse(f)
	require.NoError(t, err)
	_, err = seed.Load(context.Background(), db, fixture)
	require.NoError(t, err)

	templates, err := LoadTemplates()
	require.NoError(t, err)

	store := session.NewStore([]byte("0123456789abcdef0123456789abcdef"))
	return NewServer(db, templates, session.NewFlashes(store, "test-session"))
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestIndexListsPages(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	link := parse(t, rec).Find(".page-list a")
	require.Equal(t, 1, link.Length())
	assert.Equal(t, "Getting started", link.Text())
	assert.Equal(t, "/pages/1/revisions", link.AttrOr("href", ""))
}

func TestOverviewRendersControlsPerLanguage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/pages/1/revisions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)

	headers := doc.Find("table.reveal-overview thead th")
	require.Equal(t, 4, headers.Length())
	assert.Empty(t, strings.TrimSpace(headers.First().Text()))
	var langs []string
	headers.Slice(1, 4).Each(func(_ int, th *goquery.Selection) {
		langs = append(langs, th.Text())
		assert.Equal(t, "4", th.AttrOr("colspan", ""))
		assert.Equal(t, "text-align: center;", th.AttrOr("style", ""))
	})
	assert.Equal(t, []string{"en", "fr", "de"}, langs)

	triggers := doc.Find("tr.reveal-top td.diff-link")
	require.Equal(t, 3, triggers.Length())
	assert.Equal(t, "en", triggers.First().AttrOr("data-langcode", ""))
	assert.Equal(t, "Diff", triggers.First().AttrOr("data-text", ""))
	assert.Equal(t, `{"width":700}`, triggers.First().AttrOr("data-dialog-options", ""))

	rows := doc.Find("tr.revision-row")
	require.Equal(t, 3, rows.Length())
	assert.Equal(t, "3", rows.First().AttrOr("data-revision", ""))
	assert.True(t, rows.First().HasClass("unpublished"))
	assert.Contains(t, rows.Eq(1).Find(".revision-log").Text(), "Added a code sample")
	assert.Contains(t, rows.Eq(2).Find(".revision-log").Text(), "Initial revision.")

	first := rows.First()
	assert.Equal(t, 1, first.Find(`input[name="radios_left_fr"][value="3"]`).Length())
	assert.Equal(t, 1, first.Find(`input[name="radios_right_de"][value="3"]`).Length())
	assert.Equal(t, 1, first.Find(`input[name="pick_en"][value="en"]`).Length())
	assert.Equal(t, "/pages/1/revisions/3/view/en", first.Find("td.view a").First().AttrOr("href", ""))

	var scripts []string
	doc.Find("head script").Each(func(_ int, s *goquery.Selection) {
		scripts = append(scripts, s.AttrOr("src", ""))
	})
	assert.Equal(t, []string{"/static/js/reveal.js", "/static/js/dialog.js"}, scripts)
}

func TestOverviewNotFoundAndBadRequest(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/pages/99/revisions", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/pages/abc/revisions", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCompareRedirectsToDiff(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, postForm("/pages/1/revisions?page=0", url.Values{
		"radios_left_en":  {"1"},
		"radios_right_en": {"2"},
		"radios_left_fr":  {"3"},
		"compare":         {"en"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pages/1/revisions/diff/en/1/2", rec.Header().Get("Location"))
}

func TestCompareIncompleteSelectionFlashes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, postForm("/pages/1/revisions", url.Values{
		"radios_left_en":  {"1"},
		"radios_right_en": {"2"},
		"radios_left_fr":  {"3"},
		"compare":         {"fr"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pages/1/revisions", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/pages/1/revisions", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	alert := parse(t, rec).Find(`[role="alert"]`)
	require.Equal(t, 1, alert.Length())
	assert.Equal(t, "You need to select two fr revisions first", alert.Text())
}

func TestCompareRejectsBadInput(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, postForm("/pages/1/revisions", url.Values{"compare": {"it"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, postForm("/pages/1/revisions", url.Values{"compare": {"en"}, "radios_left_en": {"x"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiff(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/pages/1/revisions/diff/en/1/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, 1, doc.Find("header.site-header").Length())
	assert.Contains(t, doc.Find(".revision-diff__body ins").Text(), "reveal serve")

	req := httptest.NewRequest(http.MethodGet, "/pages/1/revisions/diff/en/1/2", nil)
	req.Header.Set(controller.DialogHeader, "1")
	rec = do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `class="revision-diff"`)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/pages/1/revisions/diff/en/1/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/pages/1/revisions/diff/en/0/2", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestViewRendersOrgContent(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/pages/1/revisions/2/view/en", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "Getting started", doc.Find(".revision-view h1").First().Text())
	assert.Equal(t, 1, doc.Find(".revision-content .chroma").Length())

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/pages/1/revisions/2/view/de", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "revision 2 has no German translation")
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	for _, path := range []string{"/static/js/reveal.js", "/static/js/dialog.js", "/static/css/reveal.css"} {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestClientAdapterUsesServerNames(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/static/js/reveal.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	script := rec.Body.String()

	assert.Contains(t, script, "'"+selection.LeftName("")+"' + langcode")
	assert.Contains(t, script, "'"+selection.RightName("")+"' + langcode")
	assert.Equal(t, "/pages/1/revisions/diff/en/3/7", selection.DiffPath("/pages/1/revisions", "en", 3, 7))
	assert.Contains(t, script, "base + '/diff/' + langcode + '/' + left + '/' + right")
	assert.Contains(t, script, `replace(/[#?].*$/, '')`, "query and fragment are stripped")

	blocked := strings.Index(script, "event.stopImmediatePropagation()")
	warned := strings.Index(script, "window.alert('You need to select two ' + langcode + ' revisions first')")
	require.NotEqual(t, -1, blocked)
	require.NotEqual(t, -1, warned)
	assert.Less(t, strings.Index(script, "event.preventDefault()"), blocked)
	assert.Less(t, blocked, warned, "the dialog is stopped before the warning shows")
	assert.Less(t, strings.Index(script, "link.addEventListener('click'"), strings.Index(script, "window.RevealDialog.bind(link)"),
		"the selection check is bound ahead of the dialog handler")
}
