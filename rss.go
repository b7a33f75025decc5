package website

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/northpoint/website/content"
)

const feedItems = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	posts := a.Content.ListPublishedPosts(c.Request().Context()).Items
	if len(posts) > feedItems {
		posts = posts[:feedItems]
	}
	return a.renderRSS(c, posts)
}

func (a *App) renderRSS(c echo.Context, posts []content.BlogPost) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Excerpt,
			Categories:  p.Tags,
			PubDate:     pubDate(p),
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base, "blog"),
			Description: a.Config.Description,
			Language:    "en-gb",
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// pubDate prefers the display date and falls back to the row timestamp.
func pubDate(p content.BlogPost) string {
	for _, layout := range []string{content.DisplayDate, "2006-01-02"} {
		if t, err := time.Parse(layout, p.Date); err == nil {
			return t.Format(time.RFC1123Z)
		}
	}
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt.Format(time.RFC1123Z)
	}
	return ""
}
