// Package website is the Northpoint IT marketing site: service pages, a blog
// backed by the content service, enquiry forms, an admin area and the
// sitemap and feed endpoints.
package website

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/northpoint/website/content"
	"github.com/northpoint/website/internal/metrics"
	"github.com/northpoint/website/mail"
	"github.com/northpoint/website/sitemap"
	"github.com/northpoint/website/views"
)

// App wires the content service, sitemap generator, mail relay and views
// into an Echo server.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *content.Service
	Sitemap *sitemap.Generator
	Mail    *mail.Client
	Metrics *metrics.Metrics
	Log     *zap.SugaredLogger

	loginLimiter  *Limiter
	formLimiter   *Limiter
	sitemapSource sitemap.Source
	customRoutes  []func(*App)
	now           func() time.Time
}

// New builds the App and registers middleware and routes. svc may be an
// unconfigured content service; pages then render their empty states.
func New(cfg SiteConfig, svc *content.Service, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if cfg.SessionSecret == "" {
		return nil, errors.New("website: SessionSecret is required")
	}
	if svc == nil {
		return nil, errors.New("website: content service is required")
	}

	a := &App{
		Config:  cfg,
		Echo:    echo.New(),
		Content: svc,
		Log:     zap.NewNop().Sugar(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	src := a.sitemapSource
	if src == nil {
		src = sitemap.ContentSource(svc)
	}
	a.Sitemap = sitemap.New(cfg.URL, src, a.Log.Named("sitemap"))
	a.Sitemap.Now = a.now

	a.loginLimiter = NewLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow, a.now)
	a.formLimiter = NewLimiter(cfg.FormMaxPerWindow, cfg.FormWindow, a.now)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		a.Log.Infow("listening", "addr", a.Config.Addr, "url", a.Config.URL, "content_configured", a.Content.Configured())
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("website: shutdown: %w", err)
	}
	return nil
}

// Close stops the background limiter sweeps.
func (a *App) Close() error {
	a.loginLimiter.Stop()
	a.formLimiter.Stop()
	return nil
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)
	if a.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
	}

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/services", a.handleServices)
	e.GET("/services/:service", a.handleService)
	e.GET("/projects", a.handleProjects)
	e.GET("/leeds", a.handleLeeds)
	e.GET("/contact", a.handleContactPage)
	e.POST("/contact", a.handleEnquiry(mail.ContactForm))
	e.POST("/consultation", a.handleEnquiry(mail.ConsultationForm))
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/:slug", a.handlePost)
	e.POST("/blog/:slug/comments", a.handleCreateComment)

	// Admin
	e.GET("/admin", a.handleAdmin)
	e.POST("/admin/login", a.handleAdminLogin)
	e.POST("/admin/logout", handleAdminLogout)

	admin := e.Group("/admin", requireAdmin)
	admin.GET("/posts/new", a.handleAdminNewPost)
	admin.POST("/posts", a.handleAdminCreatePost)
	admin.GET("/edit/:slug", a.handleAdminEditPost)
	admin.POST("/posts/:id", a.handleAdminUpdatePost)
	admin.DELETE("/posts/:id", a.handleAdminDeletePost)
	admin.POST("/posts/:id/publish", a.handleAdminPublish)
	admin.GET("/images", a.handleImageList)
	admin.POST("/images", a.handleImageUpload)
	admin.DELETE("/images/:id", a.handleImageDelete)
	admin.GET("/comments", a.handleCommentList)
	admin.POST("/comments/:id/approval", a.handleCommentApproval)
	admin.DELETE("/comments/:id", a.handleCommentDelete)
}
