package conv

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips every HTML element from user supplied text and
// collapses whitespace, leaving plain text safe to replay in any channel.
func SanitizeText(s string) string {
	stripped := strictPolicy.Sanitize(s)
	return strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")
}
