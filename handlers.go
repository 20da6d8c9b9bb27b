package pubfront

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubfront/posts"
	"github.com/eringen/pubfront/views"
)

const (
	viewKey      = "view"
	feedSize     = 20
	secretHeader = "X-Revalidate-Secret"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	vars, moving := listingVariables(c, a.Config.PostsPerPage)
	previous := loadView(c)

	var (
		settings posts.SiteSettings
		page     posts.Page
		shown    posts.Variables
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings = a.settings(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		page, shown, err = a.loadListing(gctx, previous, vars, moving)
		return err
	})
	err := g.Wait()

	cfg := a.siteConfig(settings)
	if err != nil {
		a.Logger.Warn("listing fetch failed", zap.Error(err), zap.String("request_id", requestID(c)))
		return RenderStatus(c, http.StatusBadGateway, views.FetchError(cfg, err))
	}

	if err := saveView(c, shown); err != nil {
		a.Logger.Warn("saving pagination session failed", zap.Error(err))
	}
	return Render(c, views.Home(cfg, page))
}

// loadListing resolves the page to show. A cursor move starts from the page
// the visitor saw last, so a move past the end keeps that page on screen.
func (a *App) loadListing(ctx context.Context, previous *posts.Variables, vars posts.Variables, moving bool) (posts.Page, posts.Variables, error) {
	p := posts.NewPaginator(a.Posts, a.Config.PostsPerPage)
	if !moving {
		page, err := p.Load(ctx, vars)
		return page, p.Variables(), err
	}
	if previous != nil {
		if _, err := p.Load(ctx, *previous); err != nil {
			a.Logger.Debug("reloading previous view failed", zap.Error(err))
		}
	}
	page, err := p.FetchMore(ctx, vars)
	return page, p.Variables(), err
}

// listingVariables maps ?after= and ?before= onto query variables. moving is
// false for the plain first page.
func listingVariables(c echo.Context, size int) (posts.Variables, bool) {
	if after := c.QueryParam("after"); after != "" {
		return posts.After(size, after), true
	}
	if before := c.QueryParam("before"); before != "" {
		return posts.Before(size, before), true
	}
	return posts.FirstPage(size), false
}

func loadView(c echo.Context) *posts.Variables {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	raw, ok := sess.Values[viewKey].(string)
	if !ok || raw == "" {
		return nil
	}
	var v posts.Variables
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	return &v
}

func saveView(c echo.Context, v posts.Variables) error {
	sess, err := session.Get(sessionName, c)
	if err != nil && sess == nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sess.Values[viewKey] = string(raw)
	return sess.Save(c.Request(), c.Response())
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	var (
		settings posts.SiteSettings
		post     posts.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings = a.settings(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		post, err = a.Posts.GetPostBySlug(gctx, slug)
		return err
	})
	err := g.Wait()

	cfg := a.siteConfig(settings)
	if errors.Is(err, posts.ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(cfg))
	}
	if err != nil {
		return a.fetchFailed(c, cfg, err)
	}

	var category *posts.CategoryRef
	if len(post.Categories) > 0 {
		category = &posts.CategoryRef{CategoryID: post.Categories[0].CategoryID}
	}
	related, err := a.Posts.GetRelatedPosts(ctx, category, post.PostID, posts.DefaultRelatedCount)
	if err != nil {
		a.Logger.Warn("related posts failed", zap.String("slug", slug), zap.Error(err))
		related = nil
	}
	return Render(c, views.PostPage(cfg, post, related))
}

func (a *App) handleAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	cfg := a.siteConfig(a.settings(ctx))

	list, err := a.Posts.GetPostsByAuthorSlug(ctx, slug)
	if err != nil {
		return a.fetchFailed(c, cfg, err)
	}
	if len(list) == 0 {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(cfg))
	}
	heading := slug
	if au := list[0].Author; au != nil && au.Name != "" {
		heading = au.Name
	}
	canonical := views.BuildURL(cfg.URL, "authors", slug)
	return Render(c, views.Archive(cfg, "Posts by "+heading, canonical, posts.SortStickyPosts(list)))
}

func (a *App) handleCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.ErrNotFound
	}
	cfg := a.siteConfig(a.settings(ctx))

	list, err := a.Posts.GetPostsByCategoryID(ctx, id)
	if err != nil {
		return a.fetchFailed(c, cfg, err)
	}
	if len(list) == 0 {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(cfg))
	}
	heading := "Category " + strconv.Itoa(id)
	for _, cat := range list[0].Categories {
		if cat.CategoryID == id {
			heading = cat.Name
			break
		}
	}
	canonical := views.BuildURL(cfg.URL, "categories", strconv.Itoa(id))
	return Render(c, views.Archive(cfg, heading, canonical, posts.SortStickyPosts(list)))
}

func (a *App) handleSitemap(c echo.Context) error {
	all, err := a.Posts.GetAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, all)
}

func (a *App) handleFeed(c echo.Context) error {
	ctx := c.Request().Context()
	recent, err := a.Posts.GetRecentPosts(ctx, feedSize)
	if err != nil {
		return err
	}
	return a.renderRSS(c, a.siteConfig(a.settings(ctx)), recent)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	b.WriteString("Sitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleRevalidate(c echo.Context) error {
	ip := c.RealIP()
	if !a.limiter.Check(ip) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many failed attempts"})
	}
	secret := c.Request().Header.Get(secretHeader)
	if secret == "" {
		secret = c.QueryParam("secret")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.Config.RevalidateSecret)) != 1 {
		a.limiter.Record(ip)
		a.Logger.Warn("revalidate rejected", zap.String("remote_ip", ip))
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid secret"})
	}

	var body struct {
		Slug string `json:"slug"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	ev := RevalidateEvent{
		Slug:        body.Slug,
		RequestID:   requestID(c),
		RequestedAt: time.Now().UTC(),
	}
	if err := a.revalidator.Publish(ev); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}

// settings returns the CMS settings, or the zero value when they cannot be
// loaded; the configured site values then apply unchanged.
func (a *App) settings(ctx context.Context) posts.SiteSettings {
	s, err := a.Site.Settings(ctx)
	if err != nil {
		a.Logger.Warn("site settings unavailable", zap.Error(err))
	}
	return s
}

func (a *App) fetchFailed(c echo.Context, cfg views.SiteConfig, err error) error {
	a.Logger.Warn("cms fetch failed",
		zap.String("path", c.Request().URL.Path),
		zap.String("request_id", requestID(c)),
		zap.Error(err),
	)
	return RenderStatus(c, http.StatusBadGateway, views.FetchError(cfg, err))
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		cfg := a.siteConfig(a.settings(c.Request().Context()))
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(cfg))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error",
			zap.String("path", c.Request().URL.Path),
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		cfg := a.siteConfig(a.settings(c.Request().Context()))
		_ = RenderStatus(c, code, views.ServerError(cfg))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
