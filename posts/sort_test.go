package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func slugs(ps []Post) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Slug
	}
	return out
}

func TestSortStickyPosts(t *testing.T) {
	in := []Post{
		{Slug: "a"},
		{Slug: "b", IsSticky: true},
		{Slug: "c"},
		{Slug: "d", IsSticky: true},
	}

	got := SortStickyPosts(in)
	assert.Equal(t, []string{"b", "d", "a", "c"}, slugs(got))
	assert.Equal(t, []string{"a", "b", "c", "d"}, slugs(in), "input must keep its order")
}

func TestSortStickyPostsNoSticky(t *testing.T) {
	in := []Post{{Slug: "x"}, {Slug: "y"}, {Slug: "z"}}
	assert.Equal(t, []string{"x", "y", "z"}, slugs(SortStickyPosts(in)))
	assert.Empty(t, SortStickyPosts(nil))
}

func TestSortByDate(t *testing.T) {
	in := []Post{
		{Slug: "old", Date: "2023-05-01T08:00:00"},
		{Slug: "new", Date: "2024-03-01T08:00:00"},
		{Slug: "broken", Date: "yesterday"},
		{Slug: "mid", Date: "2024-01-01T08:00:00"},
		{Slug: "mid-twin", Date: "2024-01-01T08:00:00"},
	}

	got := SortByDate(in)
	assert.Equal(t, []string{"new", "mid", "mid-twin", "old", "broken"}, slugs(got))
	assert.Equal(t, "old", in[0].Slug)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2024-01-01T10:00:00",
		"2024-01-01T10:00:00Z",
		"2024-01-01T10:00:00+02:00",
		"2024-01-01 10:00:00",
		"2024-01-01",
	} {
		d, ok := ParseDate(s)
		assert.True(t, ok, "ParseDate(%q)", s)
		assert.Equal(t, 2024, d.Year())
	}

	_, ok := ParseDate("01/01/2024")
	assert.False(t, ok)
}
