package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{name: "empty", md: "", want: ""},
		{name: "plain", md: "Bonito is 300 km from Campo Grande.", want: "Bonito is 300 km from Campo Grande."},
		{name: "bold label", md: "**Sources**:", want: "<strong>Sources</strong>:"},
		{name: "italic", md: "*Aquário Natural*", want: "<em>Aquário Natural</em>"},
		{name: "strikethrough", md: "~~closed on Mondays~~", want: "<del>closed on Mondays</del>"},
		{name: "inline code", md: "`/stats fetch`", want: "<code>/stats fetch</code>"},
		{
			name: "code block with language",
			md:   "```text\n/correct the bus leaves at 7\n```",
			want: "<pre><code class=\"language-text\">/correct the bus leaves at 7\n</code></pre>",
		},
		{name: "blockquote", md: "> reserve in advance", want: "<blockquote>\nreserve in advance\n</blockquote>"},
		{
			name: "source link keeps href only",
			md:   "[Bioparque Pantanal](https://bioparquepantanal.ms.gov.br)",
			want: "<a href=\"https://bioparquepantanal.ms.gov.br\">Bioparque Pantanal</a>",
		},
		{name: "heading flattened", md: "# Pantanal", want: "Pantanal"},
		{name: "script removed", md: "<script>alert('x')</script>", want: ""},
		{
			name: "mixed",
			md:   "**Rio da Prata** has *clear* water, see `/help`",
			want: "<strong>Rio da Prata</strong> has <em>clear</em> water, see <code>/help</code>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkdownToTelegramHTML(tt.md))
		})
	}
}
