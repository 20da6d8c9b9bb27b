package pubfront

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfront/posts"
	"github.com/eringen/pubfront/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        rssGUID  `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

func (a *App) renderRSS(c echo.Context, cfg views.SiteConfig, recent []posts.Post) error {
	base := cfg.URL
	items := make([]rssItem, 0, len(recent))
	for _, p := range recent {
		pubDate := ""
		if t, ok := posts.ParseDate(p.Date); ok {
			pubDate = t.Format(time.RFC1123Z)
		}
		description := ""
		if p.Excerpt != nil {
			if excerpt, err := posts.SanitizeExcerpt(*p.Excerpt); err == nil {
				description = views.PlainText(excerpt)
			}
		}
		item := rssItem{
			Title:       views.PlainText(p.Title),
			Link:        views.BuildURL(base, "posts", p.Slug),
			Description: description,
			PubDate:     pubDate,
			GUID:        rssGUID{IsPermaLink: false, Value: p.ID},
		}
		if item.GUID.Value == "" {
			item.GUID = rssGUID{IsPermaLink: true, Value: item.Link}
		}
		for _, cat := range p.Categories {
			item.Categories = append(item.Categories, cat.Name)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        views.BuildURL(base),
			Description: cfg.Description,
			Language:    cfg.Language,
			Items:       items,
		},
	}
	out, err := xml.Marshal(feed)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", append([]byte(xml.Header), out...))
}
