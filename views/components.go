package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/eringen/pubfront/posts"
	"github.com/eringen/pubfront/wpgraphql"
)

// write adapts a buffer-filling function to templ.Component. The page is
// rendered completely before anything reaches w, so a failing fragment never
// leaves half a document on the wire.
func write(fn func(ctx context.Context, buf *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := fn(ctx, &buf); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func esc(s string) string {
	return html.EscapeString(s)
}

// Layout wraps body in the document shell.
func Layout(cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return write(func(ctx context.Context, buf *bytes.Buffer) error {
		title := cfg.Name
		if meta.Title != "" && meta.Title != cfg.Name {
			title = meta.Title + " | " + cfg.Name
		}
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		buf.WriteString(`<!DOCTYPE html><html lang="` + esc(htmlLang(cfg.Language)) + `"><head>`)
		buf.WriteString(`<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		buf.WriteString(`<title>` + esc(title) + `</title>`)
		if description != "" {
			buf.WriteString(`<meta name="description" content="` + esc(description) + `"/>`)
			buf.WriteString(`<meta property="og:description" content="` + esc(description) + `"/>`)
		}
		buf.WriteString(`<meta property="og:title" content="` + esc(title) + `"/>`)
		buf.WriteString(`<meta property="og:type" content="` + esc(ogType) + `"/>`)
		buf.WriteString(`<meta property="og:site_name" content="` + esc(cfg.Name) + `"/>`)
		if meta.URL != "" {
			buf.WriteString(`<link rel="canonical" href="` + esc(meta.URL) + `"/>`)
			buf.WriteString(`<meta property="og:url" content="` + esc(meta.URL) + `"/>`)
		}
		if meta.Image != "" {
			buf.WriteString(`<meta property="og:image" content="` + esc(meta.Image) + `"/>`)
		}
		if meta.NoIndex {
			buf.WriteString(`<meta name="robots" content="noindex"/>`)
		}
		buf.WriteString(`<link rel="alternate" type="application/rss+xml" title="` + esc(cfg.Name) + `" href="/feed.xml"/>`)
		buf.WriteString(`<link rel="stylesheet" href="/public/style.css"/>`)
		if meta.JSONLD != "" {
			// JSON from encoding/json escapes <, > and &, so it cannot close the script element.
			buf.WriteString(`<script type="application/ld+json">` + meta.JSONLD + `</script>`)
		}
		buf.WriteString(`</head><body>`)
		writeHeader(buf, cfg)
		buf.WriteString(`<main class="container">`)
		if err := body.Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`</main>`)
		buf.WriteString(`<footer class="site-footer"><a href="/feed.xml">RSS</a></footer>`)
		buf.WriteString(`</body></html>`)
		return nil
	})
}

func writeHeader(buf *bytes.Buffer, cfg SiteConfig) {
	buf.WriteString(`<header class="site-header"><a class="site-title" href="/">` + esc(cfg.Name) + `</a>`)
	if cfg.Description != "" {
		buf.WriteString(`<p class="site-description">` + esc(cfg.Description) + `</p>`)
	}
	buf.WriteString(`</header>`)
}

// Home is the full listing page.
func Home(cfg SiteConfig, page posts.Page) templ.Component {
	meta := PageMeta{
		Title:  cfg.Name,
		URL:    BuildURL(cfg.URL),
		JSONLD: WebsiteJsonLD(cfg),
	}
	return Layout(cfg, meta, PostList(page))
}

// PostList renders the listing fragment: the post cards followed by the
// pagination controls.
func PostList(page posts.Page) templ.Component {
	return write(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<section id="posts" class="post-list">`)
		if len(page.Posts) == 0 {
			buf.WriteString(`<p class="empty">No posts yet.</p>`)
		}
		for _, p := range page.Posts {
			if err := PostCard(p).Render(ctx, buf); err != nil {
				return err
			}
		}
		if err := Pagination(page.PageInfo).Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`</section>`)
		return nil
	})
}

// PostCard renders a post summary. The excerpt is shown only when the post
// has one; a malformed excerpt fails the render.
func PostCard(p posts.Post) templ.Component {
	return write(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<article class="post-card">`)
		if p.IsSticky {
			buf.WriteString(`<span class="sticky-badge">Featured</span>`)
		}
		buf.WriteString(`<h2><a href="` + esc(PostHref(p.Slug)) + `">` + esc(PlainText(p.Title)) + `</a></h2>`)
		writeByline(buf, p)
		if p.Excerpt != nil {
			excerpt, err := posts.SanitizeExcerpt(*p.Excerpt)
			if err != nil {
				return err
			}
			buf.WriteString(`<div class="excerpt">` + SafeHTML(excerpt) + `</div>`)
		}
		buf.WriteString(`</article>`)
		return nil
	})
}

func writeByline(buf *bytes.Buffer, p posts.Post) {
	buf.WriteString(`<p class="byline">`)
	if p.Date != "" {
		buf.WriteString(`<time datetime="` + esc(p.Date) + `">` + esc(FormatDate(p.Date)) + `</time>`)
	}
	if a := p.Author; a != nil && a.Name != "" {
		buf.WriteString(` by `)
		if a.Avatar != nil && a.Avatar.URL != "" {
			buf.WriteString(`<img class="avatar" src="` + esc(a.Avatar.URL) + `" alt="" width="` + itoa(a.Avatar.Width) + `" height="` + itoa(a.Avatar.Height) + `" loading="lazy"/>`)
		}
		if a.Slug != "" {
			buf.WriteString(`<a href="` + esc(AuthorHref(a.Slug)) + `">` + esc(a.Name) + `</a>`)
		} else {
			buf.WriteString(esc(a.Name))
		}
	}
	buf.WriteString(`</p>`)
}

// Pagination renders Previous only when a previous page exists and Next only
// when a next page exists. Links carry the opaque cursors unchanged.
func Pagination(info *posts.PageInfo) templ.Component {
	return write(func(ctx context.Context, buf *bytes.Buffer) error {
		if info == nil || (!info.HasPreviousPage && !info.HasNextPage) {
			return nil
		}
		buf.WriteString(`<nav class="pagination">`)
		if info.HasPreviousPage && info.StartCursor != nil {
			writePageLink(buf, "before", *info.StartCursor, "prev", "Previous")
		}
		if info.HasNextPage && info.EndCursor != nil {
			writePageLink(buf, "after", *info.EndCursor, "next", "Next")
		}
		buf.WriteString(`</nav>`)
		return nil
	})
}

func writePageLink(buf *bytes.Buffer, param, cursor, rel, label string) {
	href := "/?" + url.Values{param: {cursor}}.Encode()
	buf.WriteString(`<a rel="` + rel + `" href="` + esc(href) + `">` + esc(label) + `</a>`)
}

// PostPage is the post detail page with its related posts.
func PostPage(cfg SiteConfig, post posts.Post, related []posts.RelatedPost) templ.Component {
	meta := PageMeta{
		Title:  PlainText(post.Title),
		URL:    PostURL(cfg, post.Slug),
		OGType: "article",
		JSONLD: BlogPostingJsonLD(cfg, post),
	}
	if post.Excerpt != nil {
		meta.Description = PlainText(*post.Excerpt)
	}
	if post.FeaturedImage != nil {
		meta.Image = post.FeaturedImage.SourceURL
	}
	return Layout(cfg, meta, postBody(post, related))
}

func postBody(post posts.Post, related []posts.RelatedPost) templ.Component {
	return write(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<article class="post">`)
		buf.WriteString(`<h1>` + esc(PlainText(post.Title)) + `</h1>`)
		writeByline(buf, post)
		if img := post.FeaturedImage; img != nil && img.SourceURL != "" {
			buf.WriteString(`<figure class="featured-image"><img src="` + esc(img.SourceURL) + `" alt="` + esc(img.AltText) + `"`)
			if img.SrcSet != "" {
				buf.WriteString(` srcset="` + esc(img.SrcSet) + `"`)
			}
			if img.Sizes != "" {
				buf.WriteString(` sizes="` + esc(img.Sizes) + `"`)
			}
			buf.WriteString(`/>`)
			if img.Caption != "" {
				buf.WriteString(`<figcaption>` + SafeHTML(img.Caption) + `</figcaption>`)
			}
			buf.WriteString(`</figure>`)
		}
		if post.Content != nil {
			buf.WriteString(`<div class="content">` + SafeHTML(*post.Content) + `</div>`)
		}
		if len(post.Categories) > 0 {
			buf.WriteString(`<ul class="categories">`)
			for _, c := range post.Categories {
				buf.WriteString(`<li><a href="` + esc(CategoryHref(c.CategoryID)) + `">` + esc(c.Name) + `</a></li>`)
			}
			buf.WriteString(`</ul>`)
		}
		buf.WriteString(`</article>`)
		if len(related) > 0 {
			buf.WriteString(`<aside class="related"><h2>Related posts</h2><ul>`)
			for _, r := range related {
				buf.WriteString(`<li><a href="` + esc(PostHref(r.Slug)) + `">` + esc(PlainText(r.Title)) + `</a></li>`)
			}
			buf.WriteString(`</ul></aside>`)
		}
		return nil
	})
}

// Archive lists the posts of one author or category.
func Archive(cfg SiteConfig, heading, canonical string, list []posts.Post) templ.Component {
	meta := PageMeta{
		Title: heading,
		URL:   canonical,
	}
	return Layout(cfg, meta, write(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<h1>` + esc(heading) + `</h1>`)
		return PostList(posts.Page{Posts: list, HasPosts: true}).Render(ctx, buf)
	}))
}

// FetchError replaces the listing when the CMS could not be reached. The
// message is the JSON form of the error.
func FetchError(cfg SiteConfig, err error) templ.Component {
	return Layout(cfg, PageMeta{Title: "Error", NoIndex: true}, fetchErrorBody(err))
}

func fetchErrorBody(err error) templ.Component {
	return write(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<p class="error">Error: ` + esc(wpgraphql.SerializeError(err)) + `</p>`)
		return nil
	})
}

func NotFound(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Not found", NoIndex: true}, write(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<h1>Page not found</h1><p><a href="/">Back to all posts</a></p>`)
		return nil
	}))
}

func ServerError(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Server error", NoIndex: true}, write(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<h1>Something went wrong</h1><p>Please try again in a moment.</p>`)
		return nil
	}))
}
