package main

import (
	"io"
	"moviesocial/proj/internal/config"
	"moviesocial/proj/internal/lib/fakeapi"
	"moviesocial/proj/internal/lib/logger"
	"moviesocial/proj/internal/storage/memory"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// inlineTasks runs queued work immediately.
type inlineTasks struct{}

func (inlineTasks) Add(task func()) { task() }

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		AppSecret: "test-secret",
		API: config.API{
			BaseURL:      apiURL,
			ImageBaseURL: "https://image.tmdb.org/t/p",
			PopularQuery: "marvel",
			PopularLimit: 12,
		},
		Storage: config.Storage{Driver: "memory", Retention: time.Hour},
		Cookies: config.Cookies{MaxAge: time.Hour},
	}
}

func NewTestApplication(t *testing.T, apiURL string) *Application {
	t.Helper()
	return NewApplication(testConfig(apiURL), logger.Discard(), memory.New(), inlineTasks{})
}

type testEnv struct {
	t    *testing.T
	app  *Application
	fake *fakeapi.API
	srv  *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := fakeapi.New()
	apiSrv := fake.Start()
	t.Cleanup(apiSrv.Close)
	app := NewTestApplication(t, apiSrv.URL)
	srv := httptest.NewServer(app.routes())
	t.Cleanup(srv.Close)
	return &testEnv{t: t, app: app, fake: fake, srv: srv}
}

// browser is one cookie jar talking to the web client.
type browser struct {
	env    *testEnv
	client *http.Client
}

func (e *testEnv) newBrowser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &browser{env: e, client: &http.Client{Jar: jar}}
}

func (b *browser) do(req *http.Request) (*http.Response, *goquery.Document) {
	t := b.env.t
	t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	return resp, doc
}

func (b *browser) get(path string) (*http.Response, *goquery.Document) {
	b.env.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.env.srv.URL+path, nil)
	require.NoError(b.env.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, *goquery.Document) {
	b.env.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.env.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.env.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(username, password string) *goquery.Document {
	b.env.t.Helper()
	resp, doc := b.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(b.env.t, http.StatusOK, resp.StatusCode)
	require.Equal(b.env.t, username, doc.Find("#nav-profile").Text())
	return doc
}
