// Package pubfront is a server-rendered front end for a headless WordPress
// site, built with Go, Echo and templ. It reads posts over WPGraphQL, caches
// the responses and serves paginated listings, post pages, archives, RSS and
// a sitemap.
//
// The CMS stays the source of truth: pubfront has no database of its own
// beyond the optional response cache, and content changes reach it through
// the revalidation webhook.
package pubfront

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/eringen/pubfront/posts"
	"github.com/eringen/pubfront/responsecache"
	"github.com/eringen/pubfront/views"
	"github.com/eringen/pubfront/wpgraphql"
)

// App is the central pubfront application. It wires together the GraphQL
// client, the response cache, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Logger *zap.Logger
	Client *wpgraphql.Client
	Posts  *posts.Service
	Site   *SiteCache

	cache        responsecache.Backend
	httpClient   *http.Client
	registry     *prometheus.Registry
	limiter      *AttemptLimiter
	revalidator  *revalidator
	stopCleanup  func()
	cancel       context.CancelFunc
	customRoutes []func(*App)
	staticDir    string
	initialized  bool
}

// New creates a new pubfront App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	return a
}

// Init opens the response cache, creates the CMS client and registers
// middleware and routes. Start calls it; tests and the preload command call
// it directly. Calling it again is a no-op.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.Config.GraphQLEndpoint == "" {
		return errors.New("pubfront: GraphQLEndpoint is required")
	}

	if a.cache == nil {
		backend, err := responsecache.Open(responsecache.Config{
			Kind:         a.Config.CacheBackend,
			Size:         a.Config.CacheSize,
			DatabasePath: a.Config.CacheDatabasePath,
			RedisURL:     a.Config.RedisURL,
		})
		if err != nil {
			return fmt.Errorf("pubfront: init cache: %w", err)
		}
		a.cache = backend
	}
	if s, ok := a.cache.(*responsecache.SQLite); ok {
		a.stopCleanup = s.StartCleanup(time.Hour)
	}

	client, err := wpgraphql.NewClient(wpgraphql.Config{
		Endpoint:          a.Config.GraphQLEndpoint,
		HTTPClient:        a.httpClient,
		Cache:             a.cache,
		CacheTTL:          a.Config.CacheTTL,
		RequestsPerSecond: a.Config.RequestsPerSecond,
		Burst:             a.Config.PostsPerPage,
		Logger:            a.Logger.Named("wpgraphql"),
	})
	if err != nil {
		return fmt.Errorf("pubfront: init client: %w", err)
	}
	a.Client = client
	a.Posts = posts.NewService(client)
	a.Site = NewSiteCache(a.Posts, a.Config.SettingsTTL)

	if a.Config.RevalidateSecret != "" {
		a.limiter = NewAttemptLimiter(5, time.Minute)
		rv, err := newRevalidator(a.Logger.Named("revalidate"), a.revalidate)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		rv.Run(ctx)
		a.revalidator = rv
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// Start initializes the App and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("listening",
		zap.String("addr", a.Config.Addr),
		zap.String("endpoint", a.Config.GraphQLEndpoint),
		zap.String("cache", a.Config.CacheBackend),
	)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Preload fetches the first listing page and the site settings so they are
// in the response cache before the first visitor arrives. The entries are
// stored without expiry; the revalidation webhook purges them.
func (a *App) Preload(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}
	ctx = wpgraphql.WithCacheTTL(ctx, 0)
	page, err := a.Posts.GetPosts(ctx, posts.FirstPage(a.Config.PostsPerPage))
	if err != nil {
		return fmt.Errorf("pubfront: preload posts: %w", err)
	}
	if _, err := a.Site.Settings(ctx); err != nil {
		a.Logger.Warn("preload settings failed", zap.Error(err))
	}
	a.Logger.Info("preloaded first page", zap.Int("posts", len(page.Posts)))
	return nil
}

func (a *App) revalidate(ctx context.Context, ev RevalidateEvent) error {
	if err := a.Client.Purge(ctx); err != nil {
		return fmt.Errorf("pubfront: purge response cache: %w", err)
	}
	a.Site.Invalidate()
	a.Logger.Info("response cache purged",
		zap.String("slug", ev.Slug),
		zap.String("request_id", ev.RequestID),
	)
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// The embedded stylesheet is served under /public/ and falls through to
	// the user's static dir for everything else.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/style.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)
	e.GET("/metrics", a.metricsHandler())

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/posts/:slug/", a.handlePost)
	e.GET("/authors/:slug/", a.handleAuthor)
	e.GET("/categories/:id/", a.handleCategory)

	if a.revalidator != nil {
		e.POST("/api/revalidate", a.handleRevalidate)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var result *multierror.Error
	if a.revalidator != nil {
		if err := a.revalidator.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close revalidator: %w", err))
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close cache: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// siteConfig is the view config for a request: the configured values with
// the CMS title, tagline and language layered on top.
func (a *App) siteConfig(settings posts.SiteSettings) views.SiteConfig {
	cfg := views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Language:    settings.Language,
	}
	if settings.Title != "" {
		cfg.Name = settings.Title
	}
	if settings.Description != "" {
		cfg.Description = settings.Description
	}
	return cfg
}
