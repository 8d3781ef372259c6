package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "Hotel Deville Prime, next to the airport",
			want:  "Hotel Deville Prime, next to the airport",
		},
		{
			name:  "tags stripped",
			input: "<b>Hotel</b> <a href=\"x\">Deville</a>",
			want:  "Hotel Deville",
		},
		{
			name:  "script content dropped",
			input: "<script>alert(1)</script>Use the shuttle",
			want:  "Use the shuttle",
		},
		{
			name:  "entities decoded",
			input: "Bed &amp; breakfast",
			want:  "Bed & breakfast",
		},
		{
			name:  "whitespace collapsed",
			input: "  two \n\n lines  ",
			want:  "two lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.input))
		})
	}
}
