package posts

import (
	"context"

	"github.com/eringen/pubfront/wpgraphql"
)

// Variables are the cursor arguments of the paginated posts query. Exactly
// one pair is set; the other is sent as explicit nulls.
type Variables struct {
	First  *int    `json:"first"`
	After  *string `json:"after"`
	Last   *int    `json:"last"`
	Before *string `json:"before"`
}

// FirstPage requests the first pageSize posts.
func FirstPage(pageSize int) Variables {
	return Variables{First: &pageSize}
}

// After requests pageSize posts following cursor. An empty cursor is sent as null.
func After(pageSize int, cursor string) Variables {
	return Variables{First: &pageSize, After: nullable(cursor)}
}

// Before requests pageSize posts preceding cursor. An empty cursor is sent as null.
func Before(pageSize int, cursor string) Variables {
	return Variables{Last: &pageSize, Before: nullable(cursor)}
}

// NextPage builds the variables for the page after info.
func NextPage(pageSize int, info *PageInfo) Variables {
	var cursor string
	if info != nil && info.EndCursor != nil {
		cursor = *info.EndCursor
	}
	return After(pageSize, cursor)
}

// PreviousPage builds the variables for the page before info.
func PreviousPage(pageSize int, info *PageInfo) Variables {
	var cursor string
	if info != nil && info.StartCursor != nil {
		cursor = *info.StartCursor
	}
	return Before(pageSize, cursor)
}

// MergePage keeps previous unless next carries at least one edge, so an empty
// terminal page never replaces content that is already shown.
func MergePage(previous, next *wpgraphql.PostsResponse) *wpgraphql.PostsResponse {
	if next != nil && next.Posts != nil && len(next.Posts.Edges) > 0 {
		return next
	}
	return previous
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Fetcher loads one raw page; *Service implements it.
type Fetcher interface {
	FetchPosts(ctx context.Context, vars Variables) (*wpgraphql.PostsResponse, error)
}

// Paginator is the page-level cursor controller. It holds the page currently
// on screen and moves forward or backward from it. A Paginator belongs to a
// single request and is not safe for concurrent use.
type Paginator struct {
	fetcher  Fetcher
	pageSize int

	current *wpgraphql.PostsResponse
	vars    Variables
}

// NewPaginator creates a Paginator that fetches pageSize posts per page.
func NewPaginator(f Fetcher, pageSize int) *Paginator {
	return &Paginator{fetcher: f, pageSize: pageSize}
}

// Load fetches vars and makes the result the current view unconditionally.
func (p *Paginator) Load(ctx context.Context, vars Variables) (Page, error) {
	data, err := p.fetcher.FetchPosts(ctx, vars)
	if err != nil {
		return Page{}, err
	}
	p.current = data
	p.vars = vars
	return NormalizePosts(p.current), nil
}

// FetchMore fetches vars and replaces the current view only when the result
// has posts. The returned Page is whatever is on screen afterwards.
func (p *Paginator) FetchMore(ctx context.Context, vars Variables) (Page, error) {
	data, err := p.fetcher.FetchPosts(ctx, vars)
	if err != nil {
		return Page{}, err
	}
	if merged := MergePage(p.current, data); merged == data {
		p.current = data
		p.vars = vars
	}
	return NormalizePosts(p.current), nil
}

// Next moves to the page after the current one.
func (p *Paginator) Next(ctx context.Context) (Page, error) {
	return p.FetchMore(ctx, NextPage(p.pageSize, p.Page().PageInfo))
}

// Previous moves to the page before the current one.
func (p *Paginator) Previous(ctx context.Context) (Page, error) {
	return p.FetchMore(ctx, PreviousPage(p.pageSize, p.Page().PageInfo))
}

// Page returns the current view.
func (p *Paginator) Page() Page {
	return NormalizePosts(p.current)
}

// Variables returns the variables that produced the current view.
func (p *Paginator) Variables() Variables {
	return p.vars
}
