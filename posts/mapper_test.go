package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubfront/wpgraphql"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func rawFixture() wpgraphql.RawPost {
	return wpgraphql.RawPost{
		ID:       "cG9zdDox",
		PostID:   1,
		Slug:     "hello-world",
		Title:    "Hello world",
		Excerpt:  strPtr("<p>Welcome [&hellip;]</p>"),
		Date:     "2024-01-01T10:00:00",
		IsSticky: true,
		Author: &wpgraphql.RawAuthorEdge{Node: &wpgraphql.RawAuthor{
			ID:   "dXNlcjox",
			Name: "Ada",
			Slug: "ada",
			Avatar: &wpgraphql.RawAvatar{
				URL:    strPtr("http://secure.gravatar.com/avatar/abc?s=96"),
				Width:  intPtr(96),
				Height: intPtr(96),
			},
		}},
		Categories: &wpgraphql.RawCategoryConnection{Edges: []wpgraphql.RawCategoryEdge{
			{Node: &wpgraphql.RawCategory{ID: "dGVybTo3", CategoryID: 7, Name: "Go", Slug: "go"}},
			{Node: &wpgraphql.RawCategory{ID: "dGVybTo4", CategoryID: 8, Name: "Web", Slug: "web"}},
		}},
		FeaturedImage: &wpgraphql.RawImageEdge{Node: &wpgraphql.RawImage{
			ID:        "bWVkaWE6MQ==",
			AltText:   strPtr("a gopher"),
			SourceURL: "https://cms.example.com/gopher.png",
		}},
	}
}

func TestMapPostDataFlattens(t *testing.T) {
	p := MapPostData(rawFixture())

	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, 1, p.PostID)
	assert.True(t, p.IsSticky)

	require.NotNil(t, p.Author)
	assert.Equal(t, "Ada", p.Author.Name)
	require.NotNil(t, p.Author.Avatar)
	assert.Equal(t, "https://secure.gravatar.com/avatar/abc?s=96", p.Author.Avatar.URL)
	assert.Equal(t, 96, p.Author.Avatar.Width)

	require.Len(t, p.Categories, 2)
	assert.Equal(t, Category{ID: "dGVybTo3", CategoryID: 7, Name: "Go", Slug: "go"}, p.Categories[0])

	require.NotNil(t, p.FeaturedImage)
	assert.Equal(t, "https://cms.example.com/gopher.png", p.FeaturedImage.SourceURL)
	assert.Equal(t, "a gopher", p.FeaturedImage.AltText)
}

func TestMapPostDataDoesNotMutateInput(t *testing.T) {
	raw := rawFixture()
	avatarURL := raw.Author.Node.Avatar.URL
	categories := raw.Categories
	image := raw.FeaturedImage

	p := MapPostData(raw)
	p.Author.Name = "changed"
	*p.Excerpt = "changed"
	p.Categories[0].Name = "changed"

	assert.Equal(t, "http://secure.gravatar.com/avatar/abc?s=96", *raw.Author.Node.Avatar.URL)
	assert.Same(t, avatarURL, raw.Author.Node.Avatar.URL)
	assert.Equal(t, "Ada", raw.Author.Node.Name)
	assert.Same(t, categories, raw.Categories)
	assert.Equal(t, "Go", raw.Categories.Edges[0].Node.Name)
	assert.Same(t, image, raw.FeaturedImage)
	assert.Equal(t, "<p>Welcome [&hellip;]</p>", *raw.Excerpt)
}

func TestMapPostDataLeavesAbsentFieldsAbsent(t *testing.T) {
	p := MapPostData(wpgraphql.RawPost{Slug: "bare"})

	assert.Nil(t, p.Author)
	assert.Nil(t, p.Categories)
	assert.Nil(t, p.FeaturedImage)
	assert.Nil(t, p.Excerpt)
	assert.Nil(t, p.Content)
}

func TestMapPostDataAuthorWithoutAvatar(t *testing.T) {
	raw := wpgraphql.RawPost{Author: &wpgraphql.RawAuthorEdge{Node: &wpgraphql.RawAuthor{Name: "Bo"}}}

	p := MapPostData(raw)
	require.NotNil(t, p.Author)
	assert.Equal(t, "Bo", p.Author.Name)
	assert.Nil(t, p.Author.Avatar)
}

func TestUpdateUserAvatar(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com/a.png", "https://example.com/a.png"},
		{"https://example.com/a.png", "https://example.com/a.png"},
		{"", ""},
	}
	for _, tt := range tests {
		got := UpdateUserAvatar(wpgraphql.RawAvatar{URL: strPtr(tt.in)})
		assert.Equal(t, tt.want, got.URL, "UpdateUserAvatar(%q)", tt.in)

		again := UpdateUserAvatar(wpgraphql.RawAvatar{URL: strPtr(got.URL)})
		assert.Equal(t, got.URL, again.URL, "UpdateUserAvatar should be idempotent")
	}
}

func TestPostPathBySlug(t *testing.T) {
	assert.Equal(t, "/posts/hello-world", PostPathBySlug("hello-world"))
}
