package views

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// contentPolicy is applied to every CMS-supplied HTML fragment before it is
// written to a page. bluemonday policies are safe for concurrent use.
var contentPolicy = newContentPolicy()

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "section")
	p.AllowAttrs("src", "alt", "title", "width", "height", "srcset", "sizes", "loading").OnElements("img")
	p.AllowAttrs("class").Globally()
	p.RequireNoFollowOnFullyQualifiedLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// SafeHTML sanitizes CMS HTML for inclusion in a page.
func SafeHTML(raw string) string {
	return contentPolicy.Sanitize(raw)
}

// PlainText strips markup and entities from an HTML fragment and collapses
// whitespace. Used for meta descriptions, feed summaries and JSON-LD.
func PlainText(fragment string) string {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return ""
	}
	if !strings.ContainsAny(trimmed, "<&") {
		return strings.Join(strings.Fields(trimmed), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
