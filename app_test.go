package pubfront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eringen/pubfront/responsecache"
	"github.com/eringen/pubfront/wpgraphql/wpgraphqltest"
)

const testSecret = "s3cret"

// fixturePosts are newest first, the order WordPress returns them in.
func fixturePosts() []*wpgraphqltest.Post {
	return []*wpgraphqltest.Post{
		wpgraphqltest.NewPost(3, "third", "Third post", "2024-03-01T09:00:00").
			WithAuthor("Ada", "ada").WithCategory(7, "Go", "go").
			WithImage("https://cms.example.com/third.png", "third image"),
		wpgraphqltest.NewPost(2, "second", "Second post", "2024-02-01T09:00:00").
			WithAuthor("Bo", "bo").WithCategory(7, "Go", "go").Sticky(),
		wpgraphqltest.NewPost(1, "first", "First post", "2024-01-01T09:00:00").
			WithAuthor("Ada", "ada").WithCategory(7, "Go", "go").WithCategory(9, "Web", "web"),
	}
}

func newTestApp(t *testing.T, opts ...Option) (*App, *wpgraphqltest.Server) {
	t.Helper()
	srv := wpgraphqltest.NewServer(t, fixturePosts()...)
	cfg := SiteConfig{
		Name:             "Test Blog",
		URL:              "https://blog.example.com",
		Description:      "Configured description",
		GraphQLEndpoint:  srv.Endpoint(),
		PostsPerPage:     2,
		RevalidateSecret: testSecret,
		SessionSecret:    "0123456789abcdef0123456789abcdef",
	}
	a := New(cfg, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, a.Init())
	t.Cleanup(func() { assert.NoError(t, a.Close()) })
	return a, srv
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(a, req)
}

func after(i int) string {
	return "/?" + url.Values{"after": {wpgraphqltest.Cursor(i)}}.Encode()
}

func TestInitRequiresEndpoint(t *testing.T) {
	a := New(SiteConfig{}, WithLogger(zap.NewNop()))
	assert.ErrorContains(t, a.Init(), "GraphQLEndpoint")
}

func TestHomeFirstPage(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `href="/posts/third/"`)
	assert.Contains(t, body, `href="/posts/second/"`)
	assert.NotContains(t, body, `href="/posts/first/"`)
	assert.Contains(t, body, ">Next</a>")
	assert.NotContains(t, body, ">Previous</a>")
	assert.Contains(t, body, "Third post excerpt...")
	assert.Contains(t, body, "<title>Fake Press</title>", "CMS title overrides the configured name")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHomeNextAndPrevious(t *testing.T) {
	a, _ := newTestApp(t)

	first := get(a, "/")
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec := get(a, after(1), cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/posts/first/"`)
	assert.NotContains(t, body, `href="/posts/third/"`)
	assert.Contains(t, body, ">Previous</a>")
	assert.NotContains(t, body, ">Next</a>")

	before := "/?" + url.Values{"before": {wpgraphqltest.Cursor(2)}}.Encode()
	rec = get(a, before, rec.Result().Cookies()...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/posts/third/"`)
	assert.Contains(t, rec.Body.String(), `href="/posts/second/"`)
}

func TestHomeKeepsPageWhenNextIsEmpty(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, after(1))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `href="/posts/first/"`)

	// Nothing follows the last post; the page that was shown stays.
	rec = get(a, after(2), rec.Result().Cookies()...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/posts/first/"`)
	assert.NotContains(t, rec.Body.String(), "No posts yet.")
}

func TestHomeLoadsOnlyServedScripts(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "hx-")
	for _, m := range regexp.MustCompile(`<script src="([^"]+)"`).FindAllStringSubmatch(body, -1) {
		assert.Equal(t, http.StatusOK, get(a, m[1]).Code, "script %s", m[1])
	}
	assert.Contains(t, body, `<a rel="next" href="/?after=`)
}

func TestHomeFetchError(t *testing.T) {
	a, srv := newTestApp(t)
	srv.Close()

	rec := get(a, "/")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: {")
	assert.Contains(t, rec.Body.String(), "<title>Error | Test Blog</title>", "configured name when settings fail")
}

func TestPostPage(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/posts/third/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<h1>Third post</h1>")
	assert.Contains(t, body, "<p>Third post content</p>")
	assert.Contains(t, body, `src="https://secure.gravatar.com/avatar/ada?s=96"`)
	assert.Contains(t, body, `"@type":"BlogPosting"`)

	related := body[strings.Index(body, `class="related"`):]
	assert.Contains(t, related, `href="/posts/second/"`)
	assert.Contains(t, related, `href="/posts/first/"`)
	assert.NotContains(t, related, `href="/posts/third/"`)
	assert.Less(t, strings.Index(related, "/posts/second/"), strings.Index(related, "/posts/first/"))
}

func TestPostNotFound(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/posts/missing/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestTrailingSlashRedirect(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/posts/third")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/posts/third/", rec.Header().Get("Location"))
}

func TestAuthorArchive(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/authors/ada/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Posts by Ada")
	assert.Contains(t, body, `href="/posts/third/"`)
	assert.Contains(t, body, `href="/posts/first/"`)
	assert.NotContains(t, body, `href="/posts/second/"`)

	assert.Equal(t, http.StatusNotFound, get(a, "/authors/nobody/").Code)
}

func TestCategoryArchiveStickyFirst(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/categories/7/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Go</h1>")
	assert.Less(t, strings.Index(body, "/posts/second/"), strings.Index(body, "/posts/third/"))

	assert.Equal(t, http.StatusNotFound, get(a, "/categories/abc/").Code)
	assert.Equal(t, http.StatusNotFound, get(a, "/categories/99/").Code)
}

func TestFeed(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")

	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	require.NoError(t, err)
	assert.Equal(t, "Fake Press", feed.Title)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "Third post", feed.Items[0].Title)
	assert.Equal(t, "https://blog.example.com/posts/third/", feed.Items[0].Link)
	assert.Equal(t, "Third post excerpt...", feed.Items[0].Description)
	assert.Equal(t, []string{"Go", "Web"}, feed.Items[2].Categories)
	require.NotNil(t, feed.Items[0].PublishedParsed)
	assert.Equal(t, 2024, feed.Items[0].PublishedParsed.Year())
}

func TestSitemapAndRobots(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://blog.example.com</loc>")
	assert.Contains(t, body, "<loc>https://blog.example.com/posts/first/</loc><lastmod>2024-01-01</lastmod>")

	rec = get(a, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml")
}

func TestHealthAndMetrics(t *testing.T) {
	a, _ := newTestApp(t)

	rec := get(a, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.Equal(t, http.StatusOK, get(a, "/").Code)
	rec = get(a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pubfront_http_requests_total")
	assert.Contains(t, rec.Body.String(), "pubfront_wpgraphql_requests_total")
}

func TestStylesheetIsEmbedded(t *testing.T) {
	a, _ := newTestApp(t, WithStaticDir(t.TempDir()))

	rec := get(a, "/public/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".post-card")
}

func revalidate(a *App, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(`{"slug":"third"}`))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	return do(a, req)
}

func TestRevalidatePurgesCache(t *testing.T) {
	a, srv := newTestApp(t)

	require.Equal(t, http.StatusOK, get(a, "/").Code)
	cached := srv.Requests()
	require.Equal(t, http.StatusOK, get(a, "/").Code)
	require.Equal(t, cached, srv.Requests(), "second visit is served from the response cache")

	rec := revalidate(a, testSecret)
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		get(a, "/")
		return srv.Requests() > cached
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRevalidateRejectsBadSecret(t *testing.T) {
	a, _ := newTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, revalidate(a, "").Code)
	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusUnauthorized, revalidate(a, "wrong").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, revalidate(a, testSecret).Code, "locked out after repeated failures")
}

func TestRevalidateDisabledWithoutSecret(t *testing.T) {
	srv := wpgraphqltest.NewServer(t, fixturePosts()...)
	a := New(SiteConfig{GraphQLEndpoint: srv.Endpoint()}, WithLogger(zap.NewNop()))
	require.NoError(t, a.Init())
	defer a.Close()

	rec := revalidate(a, testSecret)
	assert.NotEqual(t, http.StatusAccepted, rec.Code)
}

func TestPreloadFillsCache(t *testing.T) {
	backend, err := responsecache.NewSQLite(t.TempDir() + "/cache.db")
	require.NoError(t, err)
	a, srv := newTestApp(t, WithCacheBackend(backend))

	require.NoError(t, a.Preload(context.Background()))
	preloaded := srv.Requests()
	assert.Equal(t, 2, preloaded, "first page and settings")

	require.Equal(t, http.StatusOK, get(a, "/").Code)
	assert.Equal(t, preloaded, srv.Requests())
}

func TestPreloadedEntriesOutliveCacheTTL(t *testing.T) {
	srv := wpgraphqltest.NewServer(t, fixturePosts()...)
	a := New(SiteConfig{
		GraphQLEndpoint: srv.Endpoint(),
		PostsPerPage:    2,
		CacheTTL:        20 * time.Millisecond,
	}, WithLogger(zap.NewNop()))
	require.NoError(t, a.Init())
	defer a.Close()

	require.NoError(t, a.Preload(context.Background()))
	preloaded := srv.Requests()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, http.StatusOK, get(a, "/").Code)
	assert.Equal(t, preloaded, srv.Requests())
}

func TestCustomRoutes(t *testing.T) {
	a, _ := newTestApp(t, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/about/", func(c echo.Context) error {
			return c.String(http.StatusOK, "about "+a.Config.Name)
		})
	}))

	rec := get(a, "/about/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "about Test Blog", rec.Body.String())
}
