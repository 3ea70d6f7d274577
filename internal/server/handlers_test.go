package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckview/deckview/internal/auth"
	"github.com/deckview/deckview/internal/config"
)

const testPassword = "letmepresent"

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	base := t.TempDir()
	contentDir := filepath.Join(base, "content")
	require.NoError(t, os.MkdirAll(contentDir, 0755))

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	cfgPath := filepath.Join(base, "config.yaml")
	cfgYAML := fmt.Sprintf(
		"content_dir: %q\nassets_dir: %q\nlog_dir: %q\neditor_user: presenter\neditor_password_hash: %q\nheader_logos:\n  Web: logo-web\n",
		contentDir, base, base, hash)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0644))

	app, err := newApp(config.NewStore(cfgPath))
	require.NoError(t, err)

	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)
	return ts, contentDir
}

func writeSource(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func getBody(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func login(t *testing.T, ts *httptest.Server) *http.Cookie {
	t.Helper()
	resp, err := noRedirectClient().PostForm(ts.URL+"/login", url.Values{
		"username": {"presenter"},
		"password": {testPassword},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/edit", resp.Header.Get("Location"))
	for _, c := range resp.Cookies() {
		if c.Name == auth.DefaultCookieName {
			return c
		}
	}
	t.Fatal("session cookie not issued")
	return nil
}

func TestDeckPage(t *testing.T) {
	ts, dir := newTestServer(t)
	writeSource(t, dir, "status.md", "| Web | Owner |\n|-----|-------|\n| up | Dana |\n")
	writeSource(t, dir, "risks.md", "### Actors\n- Insider\n### Methods\n- Phishing\n")

	code, body := getBody(t, ts, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<td>up</td><td>Dana</td>")
	assert.Contains(t, body, `<span class="logo logo-web"></span>Web`)
	assert.Contains(t, body, `risk-columns`)
	assert.Contains(t, body, "<li>Phishing</li>")
}

func TestDeckPageRawFallbackWhenNoTable(t *testing.T) {
	ts, dir := newTestServer(t)
	writeSource(t, dir, "status.md", "nothing tabular here <yet>\n")
	writeSource(t, dir, "risks.md", "just a line\n")

	code, body := getBody(t, ts, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `<pre class="raw">nothing tabular here &lt;yet&gt;`)
	assert.Contains(t, body, `risk-doc`)
}

func TestDeckPagePlaceholderWhenSourcesMissing(t *testing.T) {
	ts, _ := newTestServer(t)
	code, body := getBody(t, ts, "/")
	assert.Equal(t, http.StatusOK, code)
	// Placeholder document has no table, so the raw fallback shows it.
	assert.Contains(t, body, "Not available")
}

func TestDeckPageETag(t *testing.T) {
	ts, dir := newTestServer(t)
	writeSource(t, dir, "status.md", "| A |\n|---|\n| 1 |\n")
	writeSource(t, dir, "risks.md", "line\n")

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)

	// Changing a source invalidates the tag.
	writeSource(t, dir, "risks.md", "changed\n")
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
	assert.NotEqual(t, etag, resp3.Header.Get("ETag"))
}

func TestDeckUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)
	code, _ := getBody(t, ts, "/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	code, body := getBody(t, ts, "/api/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"ok":true}`, body)
}

func TestEditRequiresLogin(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := noRedirectClient().Get(ts.URL + "/edit")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginWrongPassword(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.PostForm(ts.URL+"/login", url.Values{
		"username": {"presenter"},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), "Invalid username or password.")
	assert.Empty(t, resp.Cookies())
}

func TestEditSaveFlow(t *testing.T) {
	ts, dir := newTestServer(t)
	cookie := login(t, ts)

	form := url.Values{
		"table": {"| Col |\n|-----|\n| val |"},
		"risks": {"### Actors\n- a\n### Methods\n- m"},
		"notes": {"# Notes\n\nremember the demo"},
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/edit", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/edit?ok=1", resp.Header.Get("Location"))

	b, err := os.ReadFile(filepath.Join(dir, "status.md"))
	require.NoError(t, err)
	assert.Equal(t, "| Col |\n|-----|\n| val |\n", string(b))

	// The deck reflects the save on the next request.
	_, body := getBody(t, ts, "/")
	assert.Contains(t, body, "<td>val</td>")
	assert.Contains(t, body, "<li>m</li>")
}

func TestNotesPageRendersMarkdown(t *testing.T) {
	ts, dir := newTestServer(t)
	writeSource(t, dir, "notes.md", "# Agenda\n\n* demo\n")
	cookie := login(t, ts)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/notes", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), "<h1>Agenda</h1>")
	assert.Contains(t, string(b), "<li>demo</li>")
}
