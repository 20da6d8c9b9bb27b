package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/pubfront/wpgraphql"
)

// ErrNotFound is returned when no post matches a slug.
var ErrNotFound = errors.New("posts: not found")

// DefaultRelatedCount is how many related posts GetRelatedPosts returns by default.
const DefaultRelatedCount = 5

// Querier runs GraphQL operations; *wpgraphql.Client implements it.
type Querier interface {
	Query(ctx context.Context, req wpgraphql.Request, out any) error
}

// Service fetches posts from the CMS and returns view models.
type Service struct {
	client Querier
}

// NewService creates a Service that queries through client.
func NewService(client Querier) *Service {
	return &Service{client: client}
}

// GetPostBySlug returns the post with slug, including its content.
func (s *Service) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	var data wpgraphql.PostBySlugResponse
	err := s.client.Query(ctx, wpgraphql.Request{
		Query:         wpgraphql.QueryPostBySlug,
		OperationName: "PostBySlug",
		Variables:     map[string]any{"slug": slug},
	}, &data)
	if err != nil {
		return Post{}, fmt.Errorf("get post %q: %w", slug, err)
	}
	if data.PostBy == nil {
		return Post{}, ErrNotFound
	}
	return MapPostData(*data.PostBy), nil
}

// GetAllPosts returns every published post in backend order.
func (s *Service) GetAllPosts(ctx context.Context) ([]Post, error) {
	return s.list(ctx, wpgraphql.Request{
		Query:         wpgraphql.QueryAllPosts,
		OperationName: "AllPosts",
	})
}

// GetPostsByAuthorSlug returns the posts written by the author with slug.
func (s *Service) GetPostsByAuthorSlug(ctx context.Context, slug string) ([]Post, error) {
	return s.list(ctx, wpgraphql.Request{
		Query:         wpgraphql.QueryPostsByAuthorSlug,
		OperationName: "PostsByAuthorSlug",
		Variables:     map[string]any{"slug": slug},
	})
}

// GetPostsByCategoryID returns the posts filed under the category.
func (s *Service) GetPostsByCategoryID(ctx context.Context, categoryID int) ([]Post, error) {
	return s.list(ctx, wpgraphql.Request{
		Query:         wpgraphql.QueryPostsByCategoryID,
		OperationName: "PostsByCategoryId",
		Variables:     map[string]any{"categoryId": categoryID},
	})
}

// FetchPosts runs the paginated posts query and returns the raw response, so
// callers can decide whether a result replaces the one on screen.
func (s *Service) FetchPosts(ctx context.Context, vars Variables) (*wpgraphql.PostsResponse, error) {
	var data wpgraphql.PostsResponse
	err := s.client.Query(ctx, wpgraphql.Request{
		Query:         wpgraphql.QueryPaginatedPosts,
		OperationName: "PaginatedPosts",
		Variables:     vars,
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPosts returns one normalized page for vars.
func (s *Service) GetPosts(ctx context.Context, vars Variables) (Page, error) {
	data, err := s.FetchPosts(ctx, vars)
	if err != nil {
		return Page{}, err
	}
	return NormalizePosts(data), nil
}

// GetRecentPosts returns the count most recent posts.
func (s *Service) GetRecentPosts(ctx context.Context, count int) ([]Post, error) {
	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	sorted := SortByDate(all)
	if count >= 0 && len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted, nil
}

// GetRelatedPosts returns up to count posts from category, newest first,
// leaving out the post with postID. A nil category yields no posts; a
// count <= 0 means DefaultRelatedCount.
func (s *Service) GetRelatedPosts(ctx context.Context, category *CategoryRef, postID int, count int) ([]RelatedPost, error) {
	if category == nil {
		return []RelatedPost{}, nil
	}
	if count <= 0 {
		count = DefaultRelatedCount
	}
	posts, err := s.GetPostsByCategoryID(ctx, category.CategoryID)
	if err != nil {
		return nil, err
	}
	filtered := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.PostID != postID {
			filtered = append(filtered, p)
		}
	}
	sorted := SortByDate(filtered)
	if len(sorted) > count {
		sorted = sorted[:count]
	}
	related := make([]RelatedPost, len(sorted))
	for i, p := range sorted {
		related[i] = RelatedPost{Title: p.Title, Slug: p.Slug}
	}
	return related, nil
}

// GetSiteSettings returns the WordPress general settings.
func (s *Service) GetSiteSettings(ctx context.Context) (SiteSettings, error) {
	var data wpgraphql.GeneralSettingsResponse
	err := s.client.Query(ctx, wpgraphql.Request{
		Query:         wpgraphql.QueryGeneralSettings,
		OperationName: "GeneralSettings",
	}, &data)
	if err != nil {
		return SiteSettings{}, err
	}
	if data.GeneralSettings == nil {
		return SiteSettings{}, nil
	}
	return SiteSettings{
		Title:       data.GeneralSettings.Title,
		Description: data.GeneralSettings.Description,
		Language:    data.GeneralSettings.Language,
	}, nil
}

func (s *Service) list(ctx context.Context, req wpgraphql.Request) ([]Post, error) {
	var data wpgraphql.PostsResponse
	if err := s.client.Query(ctx, req, &data); err != nil {
		return nil, err
	}
	return NormalizePosts(&data).Posts, nil
}
