package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

const (
	mdExtensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags    = html.CommonFlags | html.HrefTargetBlank
)

// https://core.telegram.org/bots/api#html-style
var telegramPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "tg")
	return p
}()

// MarkdownToTelegramHTML renders an answer for Telegram's HTML parse mode.
// Headings and lists lose their tags and keep their text.
func MarkdownToTelegramHTML(md string) string {
	doc := parser.NewWithExtensions(mdExtensions).Parse([]byte(md))
	rendered := markdown.Render(doc, html.NewRenderer(html.RendererOptions{Flags: htmlFlags}))
	return strings.TrimSpace(string(telegramPolicy.SanitizeBytes(rendered)))
}
