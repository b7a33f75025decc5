package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/northpoint/website/content"
	"github.com/northpoint/website/internal/config"
	"github.com/northpoint/website/localstore"
	"github.com/northpoint/website/sitemap"
	"github.com/northpoint/website/sqlitestore"
	"github.com/northpoint/website/supabase"
)

// deps are the content collaborators built from configuration.
type deps struct {
	content *content.Service
	sitemap sitemap.Source // nil means read through content
	close   func() error
}

// buildContent never fails on missing hosted-store credentials: the site
// runs with an unconfigured content service instead.
func buildContent(cfg *config.Config, log *zap.SugaredLogger, opts ...content.Option) (*deps, error) {
	opts = append([]content.Option{content.WithLogger(log.Named("content"))}, opts...)
	hc := &http.Client{Timeout: 15 * time.Second}

	switch cfg.Content.Backend {
	case config.BackendSQLite:
		store, err := sqlitestore.Open(cfg.Content.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		files := localstore.New(cfg.Content.UploadsDir, "/public/uploads/")
		log.Infow("content backend: sqlite", "path", cfg.Content.DatabasePath, "uploads", cfg.Content.UploadsDir)
		return &deps{content: content.NewService(store, files, opts...), close: store.Close}, nil

	default:
		d := &deps{close: func() error { return nil }}
		client, err := supabase.New(supabase.Config{
			URL:        cfg.Content.SupabaseURL,
			AnonKey:    cfg.Content.SupabaseAnonKey,
			HTTPClient: hc,
		})
		if err != nil {
			log.Warnw("content store unavailable; running without content", "reason", err)
			d.content = content.Unconfigured(err.Error(), opts...)
		} else {
			log.Infow("content backend: supabase", "url", cfg.Content.SupabaseURL)
			d.content = content.NewService(client, client, opts...)
		}

		if cfg.Content.SupabaseServiceKey != "" {
			server, err := supabase.NewServerPosts(cfg.Content.SupabaseURL, cfg.Content.SupabaseServiceKey, hc)
			if err != nil {
				log.Warnw("server-side sitemap source disabled", "error", err)
			} else {
				d.sitemap = server
			}
		}
		return d, nil
	}
}
