package posts

import (
	"strings"

	"github.com/eringen/pubfront/wpgraphql"
)

// MapPostData flattens a raw post node. Author, categories and featured image
// lose their edge/node wrappers and the avatar URL is upgraded to https.
// The raw value is only read, never modified.
func MapPostData(raw wpgraphql.RawPost) Post {
	p := Post{
		ID:       raw.ID,
		PostID:   raw.PostID,
		Slug:     raw.Slug,
		Title:    raw.Title,
		Excerpt:  copyString(raw.Excerpt),
		Content:  copyString(raw.Content),
		Date:     raw.Date,
		Modified: raw.Modified,
		IsSticky: raw.IsSticky,
	}

	if raw.Author != nil {
		a := &Author{}
		if n := raw.Author.Node; n != nil {
			a.ID = n.ID
			a.Name = n.Name
			a.Slug = n.Slug
			if n.Avatar != nil {
				avatar := UpdateUserAvatar(*n.Avatar)
				a.Avatar = &avatar
			}
		}
		p.Author = a
	}

	if raw.Categories != nil {
		p.Categories = make([]Category, 0, len(raw.Categories.Edges))
		for _, e := range raw.Categories.Edges {
			if e.Node == nil {
				continue
			}
			p.Categories = append(p.Categories, Category{
				ID:         e.Node.ID,
				CategoryID: e.Node.CategoryID,
				Name:       e.Node.Name,
				Slug:       e.Node.Slug,
			})
		}
	}

	if raw.FeaturedImage != nil && raw.FeaturedImage.Node != nil {
		n := raw.FeaturedImage.Node
		p.FeaturedImage = &Image{
			ID:        n.ID,
			AltText:   deref(n.AltText),
			Caption:   deref(n.Caption),
			SourceURL: n.SourceURL,
			SrcSet:    deref(n.SrcSet),
			Sizes:     deref(n.Sizes),
		}
	}

	return p
}

// UpdateUserAvatar rewrites an http:// avatar URL to https://. Gravatar
// answers http with a redirect, which browsers report as mixed content.
func UpdateUserAvatar(raw wpgraphql.RawAvatar) Avatar {
	a := Avatar{
		URL:    strings.Replace(deref(raw.URL), "http://", "https://", 1),
		Width:  derefInt(raw.Width),
		Height: derefInt(raw.Height),
	}
	return a
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
