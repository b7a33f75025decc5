package website

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const sitemapCacheControl = "public, max-age=3600"

// handleSitemap always answers 200; an unreachable store yields the
// static-only document.
func (a *App) handleSitemap(c echo.Context) error {
	doc := a.Sitemap.Generate(c.Request().Context())
	c.Response().Header().Set("Cache-Control", sitemapCacheControl)
	return c.Blob(http.StatusOK, "application/xml", doc)
}
