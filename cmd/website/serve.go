package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/northpoint/website"
	"github.com/northpoint/website/content"
	"github.com/northpoint/website/internal/config"
	"github.com/northpoint/website/internal/logging"
	"github.com/northpoint/website/internal/metrics"
	"github.com/northpoint/website/mail"
)

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()
	if cfg.Admin.GeneratedSecret {
		log.Warnw("ADMIN_SESSION_SECRET is not set; using a random secret, admin sessions end on restart")
	}

	m := metrics.New("website")
	d, err := buildContent(cfg, log, content.WithErrorHook(m.RecordContentError))
	if err != nil {
		return err
	}
	defer d.close()

	opts := []website.Option{
		website.WithLogger(log.Named("http")),
		website.WithMetrics(m),
		website.WithMail(&mail.Client{
			ServiceID:  cfg.Mail.ServiceID,
			TemplateID: cfg.Mail.TemplateID,
			PublicKey:  cfg.Mail.PublicKey,
		}),
	}
	if d.sitemap != nil {
		opts = append(opts, website.WithSitemapSource(d.sitemap))
	}

	app, err := website.New(siteConfig(cfg), d.content, opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Start(ctx)
}

func siteConfig(cfg *config.Config) website.SiteConfig {
	return website.SiteConfig{
		Name:              cfg.Site.Name,
		URL:               cfg.Site.URL,
		Description:       cfg.Site.Description,
		Addr:              cfg.Addr,
		StaticDir:         cfg.Site.StaticDir,
		AdminUser:         cfg.Admin.User,
		AdminPassword:     cfg.Admin.Password,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		SessionSecret:     cfg.Admin.SessionSecret,
		CookieSecure:      cfg.Admin.CookieSecure,
		LoginMaxAttempts:  cfg.Security.LoginMaxAttempts,
		LoginWindow:       cfg.Security.LoginWindow,
		FormMaxPerWindow:  cfg.Security.FormMaxPerWindow,
		FormWindow:        cfg.Security.FormWindow,
		RequestsPerMinute: cfg.Security.RateLimitRPM,
	}
}
