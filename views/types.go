package views

// SiteConfig holds the site-wide settings every page needs.
type SiteConfig struct {
	Name        string // SITE_NAME
	URL         string // SITE_URL, no trailing slash
	Description string // SITE_DESCRIPTION
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	Path        string // canonical path, joined onto SiteConfig.URL
	OGType      string // "website" or "article"
	NoIndex     bool
}

// Flash is a one-line status message shown above a form or table.
type Flash struct {
	Error bool
	Text  string
}

// FormState is what the contact and consultation forms are re-rendered with.
type FormState struct {
	CSRF    string
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
	Flash   Flash
	Sent    bool
}
