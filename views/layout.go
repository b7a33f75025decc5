package views

import (
	"github.com/a-h/templ"
)

var nav = []struct{ Path, Label string }{
	{"/services", "Services"},
	{"/projects", "Projects"},
	{"/blog", "Blog"},
	{"/leeds", "Leeds"},
	{"/contact", "Contact"},
}

// Page wraps body in the site shell.
func Page(cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return component(func(h *html) {
		title := cfg.Name
		if meta.Title != "" {
			title = meta.Title + " | " + cfg.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		canonical := buildURL(cfg.URL, meta.Path)

		h.raw(`<!doctype html><html lang="en-GB"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.printf(`<title>%s</title>`, title)
		h.printf(`<meta name="description" content="%s">`, desc)
		if meta.NoIndex {
			h.raw(`<meta name="robots" content="noindex, nofollow">`)
		}
		h.printf(`<link rel="canonical" href="%s">`, canonical)
		h.printf(`<meta property="og:title" content="%s">`, title)
		h.printf(`<meta property="og:description" content="%s">`, desc)
		h.printf(`<meta property="og:type" content="%s">`, ogType)
		h.printf(`<meta property="og:url" content="%s">`, canonical)
		h.printf(`<link rel="alternate" type="application/rss+xml" title="%s" href="/feed.xml">`, cfg.Name)
		h.raw(`<link rel="stylesheet" href="/public/site.css">`)
		h.raw(`</head><body>`)

		h.printf(`<header class="site-header"><a class="brand" href="/">%s</a><nav>`, cfg.Name)
		for _, n := range nav {
			h.printf(`<a href="%s">%s</a>`, n.Path, n.Label)
		}
		h.raw(`</nav></header><main>`)
		h.render(body)
		h.raw(`</main>`)

		h.printf(`<footer class="site-footer"><p>%s</p>`, cfg.Name)
		h.raw(`<p><a href="/contact">Get in touch</a> · <a href="/sitemap.xml">Sitemap</a> · <a href="/feed.xml">RSS</a></p></footer>`)
		h.raw(`</body></html>`)
	})
}

// JSONLD embeds a structured data block.
func JSONLD(doc string) templ.Component {
	return component(func(h *html) {
		h.raw(`<script type="application/ld+json">`)
		h.raw(doc)
		h.raw(`</script>`)
	})
}

// Fragments renders components in order.
func Fragments(parts ...templ.Component) templ.Component {
	return component(func(h *html) {
		for _, p := range parts {
			h.render(p)
		}
	})
}
