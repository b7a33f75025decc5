package views

import (
	"github.com/a-h/templ"

	"github.com/northpoint/website/content"
)

// BlogIndex lists published posts. An empty list renders the
// "no articles yet" state whatever the reason.
func BlogIndex(cfg SiteConfig, posts []content.BlogPost) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Blog</h1>`)
		if len(posts) == 0 {
			h.raw(`<p class="empty">No articles yet. Check back soon.</p>`)
			return
		}
		postCards(h, posts)
	})
	return Page(cfg, PageMeta{Title: "Blog", Path: "/blog"}, body)
}

func postCards(h *html, posts []content.BlogPost) {
	h.raw(`<ul class="posts">`)
	for _, p := range posts {
		h.printf(`<li><a href="%s"><h3>%s</h3></a>`, p.Link(), p.Title)
		h.printf(`<p class="meta">%s · %s · %s</p>`, p.Date, p.ReadTime, p.Author)
		h.printf(`<p>%s</p></li>`, p.Excerpt)
	}
	h.raw(`</ul>`)
}

// PostView is everything the article page renders.
type PostView struct {
	Post     content.BlogPost
	Comments []content.BlogComment
	Related  []content.BlogPost
	CSRF     string
	Flash    Flash
}

// PostPage renders an article. Content is stored markup and is written unescaped.
func PostPage(cfg SiteConfig, v PostView) templ.Component {
	p := v.Post
	body := component(func(h *html) {
		h.printf(`<article><h1>%s</h1>`, p.Title)
		h.printf(`<p class="meta">%s · %s · %s</p>`, p.Author, p.Date, p.ReadTime)
		if len(p.Tags) > 0 {
			h.raw(`<ul class="tags">`)
			for _, t := range p.Tags {
				h.printf(`<li>%s</li>`, t)
			}
			h.raw(`</ul>`)
		}
		h.raw(`<div class="content">`)
		h.render(templ.Raw(p.Content))
		h.raw(`</div></article>`)

		if len(v.Related) > 0 {
			h.raw(`<aside><h2>Related articles</h2>`)
			postCards(h, v.Related)
			h.raw(`</aside>`)
		}

		h.printf(`<section id="comments"><h2>Comments (%d)</h2>`, len(v.Comments))
		for _, c := range v.Comments {
			h.printf(`<div class="comment"><p class="meta">%s · %s</p><p>%s</p></div>`,
				c.Name, c.CreatedAt.Format(content.DisplayDate), c.Comment)
		}
		h.flash(v.Flash)
		h.printf(`<form method="post" action="/blog/%s/comments">`, p.Slug)
		h.csrf(v.CSRF)
		h.raw(`<label>Name <input name="name" required></label>`)
		h.raw(`<label>Email <input type="email" name="email" required></label>`)
		h.raw(`<label>Comment <textarea name="comment" required></textarea></label>`)
		h.raw(`<button type="submit">Post comment</button></form></section>`)

		h.render(JSONLD(BlogPostingJsonLD(cfg, p)))
	})
	return Page(cfg, PageMeta{Title: p.Title, Description: p.Excerpt, Path: "/blog/" + p.Slug, OGType: "article"}, body)
}

// NotFound is the 404 page.
func NotFound(cfg SiteConfig, message string) templ.Component {
	if message == "" {
		message = "The page you were looking for does not exist."
	}
	body := component(func(h *html) {
		h.printf(`<h1>Not found</h1><p>%s</p><p><a href="/">Back to the home page</a></p>`, message)
	})
	return Page(cfg, PageMeta{Title: "Not found", NoIndex: true}, body)
}

// ErrorLoading is shown when content exists but could not be fetched.
func ErrorLoading(cfg SiteConfig, message string) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Error loading</h1><p>Something went wrong while loading this page. Please try again shortly.</p>`)
		if message != "" {
			h.printf(`<p class="detail">%s</p>`, message)
		}
	})
	return Page(cfg, PageMeta{Title: "Error loading", NoIndex: true}, body)
}

// ServerError is the generic 5xx page.
func ServerError(cfg SiteConfig) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Something went wrong</h1><p>We have been notified. Please try again later.</p>`)
	})
	return Page(cfg, PageMeta{Title: "Error", NoIndex: true}, body)
}
