package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/northpoint/website/internal/config"
	"github.com/northpoint/website/internal/logging"
	"github.com/northpoint/website/sitemap"
)

// runSitemap renders the sitemap once, for static hosting or a build step.
func runSitemap(args []string) error {
	fs := flag.NewFlagSet("sitemap", flag.ContinueOnError)
	out := fs.String("o", "", "write to `file` instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.NewSugar(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	d, err := buildContent(cfg, log)
	if err != nil {
		return err
	}
	defer d.close()

	src := d.sitemap
	if src == nil {
		src = sitemap.ContentSource(d.content)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	doc := sitemap.New(cfg.Site.URL, src, log.Named("sitemap")).Generate(ctx)

	if *out == "" {
		_, err = os.Stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(*out, doc, 0o644); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	log.Infow("sitemap written", "file", *out, "bytes", len(doc))
	return nil
}

func runHashPassword(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(io.LimitReader(in, 1024))
	if err != nil {
		return err
	}
	pass := strings.TrimRight(string(raw), "\r\n")
	if pass == "" {
		return fmt.Errorf("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(hash))
	return err
}
