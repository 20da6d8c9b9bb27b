package posts

import "github.com/eringen/pubfront/wpgraphql"

// NormalizePosts converts a posts response into a Page. A nil response or
// one without a posts connection yields an empty Page instead of an error.
func NormalizePosts(data *wpgraphql.PostsResponse) Page {
	if data == nil || data.Posts == nil {
		return Page{}
	}
	page := Page{
		Posts:    mapEdges(data.Posts.Edges),
		HasPosts: true,
	}
	if pi := data.Posts.PageInfo; pi != nil {
		page.PageInfo = &PageInfo{
			HasNextPage:     pi.HasNextPage,
			HasPreviousPage: pi.HasPreviousPage,
			StartCursor:     copyString(pi.StartCursor),
			EndCursor:       copyString(pi.EndCursor),
		}
	}
	return page
}

func mapEdges(edges []wpgraphql.RawPostEdge) []Post {
	out := make([]Post, 0, len(edges))
	for _, e := range edges {
		var node wpgraphql.RawPost
		if e.Node != nil {
			node = *e.Node
		}
		out = append(out, MapPostData(node))
	}
	return out
}
