package website

import (
	"time"

	"go.uber.org/zap"

	"github.com/northpoint/website/internal/metrics"
	"github.com/northpoint/website/mail"
	"github.com/northpoint/website/sitemap"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string // Site name (default "Northpoint IT")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Meta description and RSS description

	Addr      string // Listen address (default ":3000")
	StaticDir string // Static assets served under /public (default "public")

	AdminUser         string // Admin username (default "admin")
	AdminPassword     string // Plain admin password, compared in constant time
	AdminPasswordHash string // bcrypt hash; takes precedence over AdminPassword
	SessionSecret     string // Required: session encryption secret
	CookieSecure      bool   // Set true for HTTPS

	LoginMaxAttempts int           // Failed logins per window (default 5)
	LoginWindow      time.Duration // default 1min
	FormMaxPerWindow int           // Comment and enquiry submissions per window (default 5)
	FormWindow       time.Duration // default 10min

	RequestsPerMinute int // Per-IP request budget; 0 disables the limiter
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Northpoint IT"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.AdminUser == "" {
		c.AdminUser = "admin"
	}
	if c.LoginMaxAttempts == 0 {
		c.LoginMaxAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
	if c.FormMaxPerWindow == 0 {
		c.FormMaxPerWindow = 5
	}
	if c.FormWindow == 0 {
		c.FormWindow = 10 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the application logger (default zap.NewNop).
func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) {
		a.Metrics = m
	}
}

// WithMail sets the relay used by the contact and consultation forms.
func WithMail(c *mail.Client) Option {
	return func(a *App) {
		a.Mail = c
	}
}

// WithSitemapSource overrides where the sitemap reads published posts from.
// By default it reads through the content service.
func WithSitemapSource(src sitemap.Source) Option {
	return func(a *App) {
		a.sitemapSource = src
	}
}

// WithClock replaces time.Now for the sitemap and limiters.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
