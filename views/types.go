package views

// SiteConfig holds the site-wide settings every page needs. Handlers fill it
// from the App config, overridden by the CMS general settings when available.
type SiteConfig struct {
	Name        string // SITE_NAME or generalSettings.title
	URL         string // SITE_URL
	Description string // SITE_DESCRIPTION or generalSettings.description
	Author      string // SITE_AUTHOR
	Language    string // generalSettings.language, e.g. "en-US"
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
	JSONLD      string // ld+json block, optional
	NoIndex     bool
}
