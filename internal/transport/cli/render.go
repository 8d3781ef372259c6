package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/service/trace"
	"github.com/sandevgo/guata/internal/service/ui"
)

// Render formats a response for the terminal. The reasoning trace is
// included when showTrace is set.
func Render(resp core.Response, showTrace bool) string {
	var sb strings.Builder

	sb.WriteString(resp.Answer)
	sb.WriteString("\n\n")

	badge := fmt.Sprintf("[%s · confidence %d · %s]", resp.Path, resp.Confidence, resp.ProcessingTime.Round(time.Millisecond))
	sb.WriteString(ui.ConfidenceStyle(resp.Confidence).Render(badge))
	sb.WriteString("\n")

	for _, s := range resp.Sources {
		line := "  - " + s.Label
		if s.URL != "" {
			line += " " + s.URL
		}
		sb.WriteString(ui.DescStyle.Render(line))
		sb.WriteString("\n")
	}

	if showTrace && len(resp.ReasoningTrace) > 0 {
		sb.WriteString("\n")
		sb.WriteString(ui.DescStyle.Render(strings.TrimRight(trace.Format(resp.ReasoningTrace), "\n")))
		sb.WriteString("\n")
	}

	if len(resp.FollowUps) > 0 {
		sb.WriteString("\n")
		for _, f := range resp.FollowUps {
			sb.WriteString(ui.UsageStyle.Render("› " + f))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
