package posts

import (
	"fmt"
	"regexp"
	"strings"
)

// reHellip matches the "[&hellip;]" read-more marker WordPress appends to
// generated excerpts, with at most one whitespace in front of it.
var reHellip = regexp.MustCompile(`\s?\[&hellip;\]`)

// SanitizeExcerpt replaces the WordPress read-more marker with "..." and then
// collapses the "...." that results when the excerpt already ended in a period.
// Excerpts arrive from decoded JSON, so anything but a string is rejected.
func SanitizeExcerpt(excerpt any) (string, error) {
	s, ok := excerpt.(string)
	if !ok {
		return "", fmt.Errorf("failed to sanitize excerpt: invalid type %T", excerpt)
	}
	if loc := reHellip.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + "..." + s[loc[1]:]
	}
	return strings.Replace(s, "....", "...", 1), nil
}
