// Package wpgraphqltest runs an in-process WPGraphQL look-alike for tests.
// Queries are validated against a real schema, so a typo in a query document
// fails the test instead of silently decoding to zero values.
package wpgraphqltest

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Post is a post stored by the fake backend. Exported fields are resolved by
// name, so they follow the schema's field names.
type Post struct {
	ID            graphql.ID
	PostID        int32
	Slug          string
	Title         string
	Excerpt       *string
	Content       *string
	Date          string
	Modified      string
	IsSticky      bool
	Author        *AuthorEdge
	Categories    *CategoryConnection
	FeaturedImage *ImageEdge
}

type AuthorEdge struct{ Node *User }

type User struct {
	ID     graphql.ID
	Name   string
	Slug   string
	Avatar *Avatar
}

type Avatar struct {
	URL    *string
	Width  *int32
	Height *int32
}

type CategoryConnection struct{ Edges []*CategoryEdge }

type CategoryEdge struct{ Node *Category }

type Category struct {
	ID         graphql.ID
	CategoryID int32
	Name       string
	Slug       string
}

type ImageEdge struct{ Node *MediaItem }

type MediaItem struct {
	ID        graphql.ID
	AltText   *string
	Caption   *string
	SourceURL string
	SrcSet    *string
	Sizes     *string
}

type GeneralSettings struct {
	Title       string
	Description string
	Language    string
}

type PostConnection struct {
	Edges    []*PostEdge
	PageInfo *PageInfo
}

type PostEdge struct {
	Cursor string
	Node   *Post
}

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// Server serves the fake schema over HTTP.
type Server struct {
	*httptest.Server

	mu       sync.RWMutex
	posts    []*Post // newest first
	settings GeneralSettings

	requests   atomic.Int32
	failStatus atomic.Int32
	gate       chan struct{}
}

// NewServer starts a server holding posts, which must be ordered newest first.
// It is closed when the test ends.
func NewServer(t testing.TB, posts ...*Post) *Server {
	t.Helper()

	s := &Server{
		posts: posts,
		settings: GeneralSettings{
			Title:       "Fake Press",
			Description: "Just another WordPress site",
			Language:    "en-US",
		},
	}
	gqlSchema := graphql.MustParseSchema(schema, &resolver{s: s}, graphql.UseFieldResolvers())
	h := &relay.Handler{Schema: gqlSchema}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.mu.RLock()
		gate := s.gate
		s.mu.RUnlock()
		if gate != nil {
			<-gate
		}
		if status := s.failStatus.Swap(0); status != 0 {
			http.Error(w, http.StatusText(int(status)), int(status))
			return
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// Endpoint is the GraphQL URL to configure clients with.
func (s *Server) Endpoint() string { return s.URL + "/graphql" }

// Requests reports how many HTTP requests reached the server.
func (s *Server) Requests() int { return int(s.requests.Load()) }

// FailNext makes the next request answer with status instead of a GraphQL response.
func (s *Server) FailNext(status int) { s.failStatus.Store(int32(status)) }

// Hold blocks every request until release is called. Release runs at test
// cleanup at the latest.
func (s *Server) Hold(t testing.TB) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	release = func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
	t.Cleanup(release)
	return release
}

// SetPosts replaces the stored posts.
func (s *Server) SetPosts(posts ...*Post) {
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
}

// SetSettings replaces the general settings.
func (s *Server) SetSettings(gs GeneralSettings) {
	s.mu.Lock()
	s.settings = gs
	s.mu.Unlock()
}

// NewPost builds a post with the fields every query selects filled in.
// Dates use the WordPress "2006-01-02T15:04:05" format.
func NewPost(id int, slug, title, date string) *Post {
	excerpt := "<p>" + title + " excerpt [&hellip;]</p>\n"
	content := "<p>" + title + " content</p>"
	return &Post{
		ID:       graphql.ID(base64.StdEncoding.EncodeToString([]byte("post:" + strconv.Itoa(id)))),
		PostID:   int32(id),
		Slug:     slug,
		Title:    title,
		Excerpt:  &excerpt,
		Content:  &content,
		Date:     date,
		Modified: date,
	}
}

// WithAuthor sets the post author, with an http avatar URL like Gravatar returns.
func (p *Post) WithAuthor(name, slug string) *Post {
	avatar := "http://secure.gravatar.com/avatar/" + slug + "?s=96"
	size := int32(96)
	p.Author = &AuthorEdge{Node: &User{
		ID:     graphql.ID("user:" + slug),
		Name:   name,
		Slug:   slug,
		Avatar: &Avatar{URL: &avatar, Width: &size, Height: &size},
	}}
	return p
}

// WithCategory appends a category.
func (p *Post) WithCategory(id int, name, slug string) *Post {
	if p.Categories == nil {
		p.Categories = &CategoryConnection{}
	}
	p.Categories.Edges = append(p.Categories.Edges, &CategoryEdge{Node: &Category{
		ID:         graphql.ID("term:" + strconv.Itoa(id)),
		CategoryID: int32(id),
		Name:       name,
		Slug:       slug,
	}})
	return p
}

// WithImage sets the featured image.
func (p *Post) WithImage(url, alt string) *Post {
	p.FeaturedImage = &ImageEdge{Node: &MediaItem{
		ID:        graphql.ID("media:" + url),
		AltText:   &alt,
		SourceURL: url,
	}}
	return p
}

// Sticky marks the post as sticky.
func (p *Post) Sticky() *Post {
	p.IsSticky = true
	return p
}

type resolver struct{ s *Server }

type postsArgs struct {
	First  *int32
	After  *string
	Last   *int32
	Before *string
	Where  *postsWhere
}

type postsWhere struct {
	AuthorName *string
	CategoryID *int32
}

func (r *resolver) Posts(args postsArgs) *PostConnection {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]*Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		if args.Where != nil && !matches(p, args.Where) {
			continue
		}
		items = append(items, p)
	}

	lo, hi := 0, len(items)
	if args.After != nil {
		if i, ok := decodeCursor(*args.After); ok {
			lo = min(i+1, hi)
		}
	}
	if args.Before != nil {
		if i, ok := decodeCursor(*args.Before); ok && i < hi {
			hi = max(i, lo)
		}
	}
	if args.First != nil && int(*args.First) < hi-lo {
		hi = lo + int(*args.First)
	}
	if args.Last != nil && int(*args.Last) < hi-lo {
		lo = hi - int(*args.Last)
	}

	conn := &PostConnection{
		Edges: make([]*PostEdge, 0, hi-lo),
		PageInfo: &PageInfo{
			HasPreviousPage: lo > 0,
			HasNextPage:     hi < len(items),
		},
	}
	for i := lo; i < hi; i++ {
		conn.Edges = append(conn.Edges, &PostEdge{Cursor: encodeCursor(i), Node: items[i]})
	}
	if n := len(conn.Edges); n > 0 {
		start, end := conn.Edges[0].Cursor, conn.Edges[n-1].Cursor
		conn.PageInfo.StartCursor = &start
		conn.PageInfo.EndCursor = &end
	}
	return conn
}

func (r *resolver) PostBy(args struct{ Slug string }) *Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.posts {
		if p.Slug == args.Slug {
			return p
		}
	}
	return nil
}

func (r *resolver) GeneralSettings() *GeneralSettings {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	gs := r.s.settings
	return &gs
}

func matches(p *Post, w *postsWhere) bool {
	if w.AuthorName != nil {
		if p.Author == nil || p.Author.Node == nil || !strings.EqualFold(p.Author.Node.Slug, *w.AuthorName) {
			return false
		}
	}
	if w.CategoryID != nil {
		if p.Categories == nil {
			return false
		}
		found := false
		for _, e := range p.Categories.Edges {
			if e.Node != nil && e.Node.CategoryID == *w.CategoryID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Cursor returns the cursor the server issues for the post at offset i of a
// result set.
func Cursor(i int) string { return encodeCursor(i) }

// Cursors follow the graphql-relay "arrayconnection:<offset>" convention.
func encodeCursor(i int) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("arrayconnection:%d", i)))
}

func decodeCursor(c string) (int, bool) {
	b, err := base64.StdEncoding.DecodeString(c)
	if err != nil {
		return 0, false
	}
	n, ok := strings.CutPrefix(string(b), "arrayconnection:")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(n)
	if err != nil {
		return 0, false
	}
	return i, true
}
