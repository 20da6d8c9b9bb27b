package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pubfront/posts"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostHref is the site-relative link to a post.
func PostHref(slug string) string {
	return posts.PostPathBySlug(url.PathEscape(slug)) + "/"
}

// AuthorHref is the site-relative link to an author archive.
func AuthorHref(slug string) string {
	return "/authors/" + url.PathEscape(slug) + "/"
}

// CategoryHref is the site-relative link to a category archive.
func CategoryHref(id int) string {
	return "/categories/" + itoa(id) + "/"
}

// PostURL is the absolute canonical URL of a post.
func PostURL(cfg SiteConfig, slug string) string {
	return BuildURL(cfg.URL, "posts", slug)
}

// FormatDate renders a WordPress date as "January 2, 2006", or returns it
// unchanged when it cannot be parsed.
func FormatDate(s string) string {
	t, ok := posts.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("January 2, 2006")
}

// htmlLang converts a WordPress locale ("en_US") into a BCP 47 tag ("en-US").
func htmlLang(lang string) string {
	if lang == "" {
		return "en"
	}
	return strings.ReplaceAll(lang, "_", "-")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
// The post author wins over the configured site author.
func BlogPostingJsonLD(cfg SiteConfig, post posts.Post) string {
	postURL := PostURL(cfg, post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      PlainText(post.Title),
		"datePublished": post.Date,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.Modified != "" {
		data["dateModified"] = post.Modified
	}
	if post.Excerpt != nil {
		data["description"] = PlainText(*post.Excerpt)
	}
	author := cfg.Author
	if post.Author != nil && post.Author.Name != "" {
		author = post.Author.Name
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if post.FeaturedImage != nil {
		data["image"] = post.FeaturedImage.SourceURL
	}
	if len(post.Categories) > 0 {
		names := make([]string, len(post.Categories))
		for i, c := range post.Categories {
			names[i] = c.Name
		}
		data["keywords"] = strings.Join(names, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
