package wpgraphql

// The Raw* types mirror the WPGraphQL wire format one to one. They are decoded
// straight from the response body and converted into view models by the posts
// package; nothing outside of that conversion should read them.

// RawPageInfo is the pageInfo block of a cursor connection.
type RawPageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// RawPostEdge wraps a single post node.
type RawPostEdge struct {
	Node *RawPost `json:"node"`
}

// RawPostConnection is the edges/pageInfo envelope returned by posts queries.
// PageInfo is nil for queries that do not select it.
type RawPostConnection struct {
	Edges    []RawPostEdge `json:"edges"`
	PageInfo *RawPageInfo  `json:"pageInfo"`
}

// PostsResponse is the data block of every query selecting `posts`.
type PostsResponse struct {
	Posts *RawPostConnection `json:"posts"`
}

// PostBySlugResponse is the data block of QueryPostBySlug.
type PostBySlugResponse struct {
	PostBy *RawPost `json:"postBy"`
}

// GeneralSettingsResponse is the data block of QueryGeneralSettings.
type GeneralSettingsResponse struct {
	GeneralSettings *RawGeneralSettings `json:"generalSettings"`
}

// RawPost is a post node as selected by the PostFields fragment.
type RawPost struct {
	ID            string                 `json:"id"`
	PostID        int                    `json:"postId"`
	Slug          string                 `json:"slug"`
	Title         string                 `json:"title"`
	Excerpt       *string                `json:"excerpt"`
	Content       *string                `json:"content"`
	Date          string                 `json:"date"`
	Modified      string                 `json:"modified"`
	IsSticky      bool                   `json:"isSticky"`
	Author        *RawAuthorEdge         `json:"author"`
	Categories    *RawCategoryConnection `json:"categories"`
	FeaturedImage *RawImageEdge          `json:"featuredImage"`
}

// RawAuthorEdge is the node wrapper around a post's author.
type RawAuthorEdge struct {
	Node *RawAuthor `json:"node"`
}

type RawAuthor struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Slug   string     `json:"slug"`
	Avatar *RawAvatar `json:"avatar"`
}

type RawAvatar struct {
	URL    *string `json:"url"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

type RawCategoryConnection struct {
	Edges []RawCategoryEdge `json:"edges"`
}

type RawCategoryEdge struct {
	Node *RawCategory `json:"node"`
}

type RawCategory struct {
	ID         string `json:"id"`
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

// RawImageEdge is the node wrapper around a featured image.
type RawImageEdge struct {
	Node *RawImage `json:"node"`
}

type RawImage struct {
	ID        string  `json:"id"`
	AltText   *string `json:"altText"`
	Caption   *string `json:"caption"`
	SourceURL string  `json:"sourceUrl"`
	SrcSet    *string `json:"srcSet"`
	Sizes     *string `json:"sizes"`
}

// RawGeneralSettings holds the WordPress site title and tagline.
type RawGeneralSettings struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
}
