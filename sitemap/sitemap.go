// Package sitemap renders the site's XML sitemap from a fixed list of static
// pages plus every published blog post.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Namespace is the sitemap protocol 0.9 namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const (
	isoDate        = "2006-01-02"
	postChangeFreq = "monthly"
	postPriority   = "0.6"
)

// Page is a static route with its crawl hints.
type Page struct {
	Path       string
	ChangeFreq string
	Priority   string
}

// StaticPages is the hand-maintained list of static routes, in output order.
var StaticPages = []Page{
	{Path: "/", ChangeFreq: "weekly", Priority: "1.0"},
	{Path: "/services", ChangeFreq: "monthly", Priority: "0.9"},
	{Path: "/services/it-support", ChangeFreq: "monthly", Priority: "0.8"},
	{Path: "/services/cloud-solutions", ChangeFreq: "monthly", Priority: "0.8"},
	{Path: "/services/cyber-security", ChangeFreq: "monthly", Priority: "0.8"},
	{Path: "/services/web-development", ChangeFreq: "monthly", Priority: "0.8"},
	{Path: "/contact", ChangeFreq: "monthly", Priority: "0.7"},
	{Path: "/projects", ChangeFreq: "monthly", Priority: "0.8"},
	{Path: "/leeds", ChangeFreq: "monthly", Priority: "0.8"},
}

// Post is the part of a published post the sitemap needs.
type Post struct {
	Slug string `json:"slug"`
	Date string `json:"date"`
}

// Source lists published posts.
type Source interface {
	PublishedPosts(ctx context.Context) ([]Post, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Post, error)

// PublishedPosts implements Source.
func (f SourceFunc) PublishedPosts(ctx context.Context) ([]Post, error) { return f(ctx) }

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Generator builds sitemap documents.
type Generator struct {
	BaseURL string
	Pages   []Page
	Source  Source
	Now     func() time.Time
	Logger  *zap.SugaredLogger
}

// New returns a Generator over StaticPages.
func New(baseURL string, src Source, log *zap.SugaredLogger) *Generator {
	return &Generator{BaseURL: baseURL, Pages: StaticPages, Source: src, Now: time.Now, Logger: log}
}

// Generate renders the sitemap. It never fails: when the post source errors
// the document holds only the static pages.
func (g *Generator) Generate(ctx context.Context) []byte {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	log := g.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	today := now().Format(isoDate)
	base := strings.TrimRight(g.BaseURL, "/")

	set := urlSet{XMLNS: Namespace}
	for _, p := range g.Pages {
		set.URLs = append(set.URLs, entry{
			Loc:        base + p.Path,
			LastMod:    today,
			ChangeFreq: p.ChangeFreq,
			Priority:   p.Priority,
		})
	}

	if g.Source != nil {
		posts, err := g.Source.PublishedPosts(ctx)
		if err != nil {
			log.Warnw("sitemap: published posts unavailable; emitting static pages only", "error", err)
			posts = nil
		}
		for _, p := range posts {
			if strings.TrimSpace(p.Slug) == "" {
				continue
			}
			set.URLs = append(set.URLs, entry{
				Loc:        base + "/blog/" + p.Slug,
				LastMod:    LastMod(p.Date, today),
				ChangeFreq: postChangeFreq,
				Priority:   postPriority,
			})
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		log.Errorw("sitemap: encode failed", "error", err)
		return []byte(xml.Header + `<urlset xmlns="` + Namespace + `"></urlset>` + "\n")
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

var postDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	isoDate,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999",
}

// LastMod reformats a post date as YYYY-MM-DD, falling back when it cannot be parsed.
func LastMod(date, fallback string) string {
	date = strings.TrimSpace(date)
	for _, layout := range postDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format(isoDate)
		}
	}
	return fallback
}
