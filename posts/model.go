// Package posts turns WPGraphQL responses into flat view models and holds the
// listing logic on top of them: cursor pagination, sticky ordering, related
// and recent posts.
package posts

// Post is the flattened view of a WordPress post. Optional parts of the
// backend shape stay nil when the query did not return them.
type Post struct {
	ID            string
	PostID        int
	Slug          string
	Title         string
	Excerpt       *string
	Content       *string
	Date          string
	Modified      string
	IsSticky      bool
	Author        *Author
	Categories    []Category
	FeaturedImage *Image
}

type Author struct {
	ID     string
	Name   string
	Slug   string
	Avatar *Avatar
}

// Avatar always carries an https URL, see UpdateUserAvatar.
type Avatar struct {
	URL    string
	Width  int
	Height int
}

type Category struct {
	ID         string
	CategoryID int
	Name       string
	Slug       string
}

type Image struct {
	ID        string
	AltText   string
	Caption   string
	SourceURL string
	SrcSet    string
	Sizes     string
}

// PageInfo describes where a page sits in the full result set. Cursors are
// opaque backend tokens and are only ever echoed back.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// Page is a normalized posts response. HasPosts is false when the response
// had no posts connection at all; PageInfo is nil when none was selected.
type Page struct {
	Posts    []Post
	HasPosts bool
	PageInfo *PageInfo
}

// RelatedPost is the minimal link data shown under a post.
type RelatedPost struct {
	Title string
	Slug  string
}

// CategoryRef points at a category by its numeric WordPress id.
type CategoryRef struct {
	CategoryID int
}

// SiteSettings is the site title, tagline and language configured in WordPress.
type SiteSettings struct {
	Title       string
	Description string
	Language    string
}

// PostPathBySlug returns the front-end path of a post.
func PostPathBySlug(slug string) string {
	return "/posts/" + slug
}
