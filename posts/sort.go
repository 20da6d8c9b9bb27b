package posts

import (
	"slices"
	"time"
)

// wpDateLayouts are tried in order; WordPress returns local time without a zone.
var wpDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a WordPress post date. ok is false for unknown formats.
func ParseDate(s string) (t time.Time, ok bool) {
	for _, layout := range wpDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByDate returns a copy of posts ordered newest first. Posts with an
// unparseable date sort last; equal dates keep their input order.
func SortByDate(posts []Post) []Post {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b Post) int {
		ta, _ := ParseDate(a.Date)
		tb, _ := ParseDate(b.Date)
		return tb.Compare(ta)
	})
	return out
}

// SortStickyPosts returns a copy of posts with sticky posts moved ahead of
// the rest. Relative order inside each group is preserved.
func SortStickyPosts(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.IsSticky {
			out = append(out, p)
		}
	}
	for _, p := range posts {
		if !p.IsSticky {
			out = append(out, p)
		}
	}
	return out
}
