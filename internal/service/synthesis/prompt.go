package synthesis

import (
	"fmt"
	"strings"

	"github.com/sandevgo/guata/internal/core"
)

const trustedLevel = 0.7

const rules = `You are Guatá, a tourism guide for Mato Grosso do Sul, Brazil.
Rules:
- Use only the facts in the SOURCES section. If they do not answer the question, say so.
- Never invent names of hotels, restaurants, attractions, prices, phone numbers or URLs.
- Only cite URLs that appear in SOURCES.
- Answer in the language of the question.`

const outputFormat = `Respond with a single JSON object and nothing else:
{"answer": "<text>", "confidence": <integer 0-100>, "sources": ["<label of each source used>"]}`

// Input is everything synthesis needs for one answer.
type Input struct {
	Query   string
	Sources []core.Source
	History []core.Message
	Profile *core.Profile
	First   bool
	Topic   string
}

// BuildPrompt assembles the chat messages for the generative backend.
// Sources are added in rank order while they fit the token budget.
func (s *Synthesizer) BuildPrompt(in Input) ([]core.Message, []core.Source) {
	var head strings.Builder
	head.WriteString(rules)
	head.WriteString("\n")
	if in.First {
		head.WriteString("- This is the first message: greet the traveler and introduce yourself in one short sentence.\n")
	} else {
		head.WriteString("- The conversation is ongoing: do not greet or introduce yourself again.\n")
	}
	head.WriteString(personalization(in.Profile))

	history := in.History
	if len(history) > s.cfg.HistoryMessages {
		history = history[len(history)-s.cfg.HistoryMessages:]
	}

	used := s.count(head.String()) + s.count(outputFormat) + s.count(in.Query)
	for _, m := range history {
		used += s.count(m.Content)
	}

	var (
		blocks []string
		kept   []core.Source
	)
	for i, src := range in.Sources {
		block := sourceBlock(i+1, src)
		n := s.count(block)
		if used+n > s.cfg.TokenBudget {
			break
		}
		used += n
		blocks = append(blocks, block)
		kept = append(kept, src)
	}

	var sys strings.Builder
	sys.WriteString(head.String())
	sys.WriteString("\nSOURCES:\n")
	if len(blocks) == 0 {
		sys.WriteString("(none)\n")
	}
	for _, b := range blocks {
		sys.WriteString(b)
	}
	sys.WriteString("\n")
	sys.WriteString(outputFormat)

	msgs := make([]core.Message, 0, len(history)+2)
	msgs = append(msgs, core.Message{Role: core.RoleSystem, Content: sys.String()})
	msgs = append(msgs, history...)
	msgs = append(msgs, core.Message{Role: core.RoleUser, Content: in.Query})
	return msgs, kept
}

func personalization(p *core.Profile) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Personalization:\n")
	if p.PreferredTone != "" {
		fmt.Fprintf(&sb, "- Preferred tone: %s.\n", p.PreferredTone)
	}
	if p.TrustLevel > trustedLevel {
		sb.WriteString("- The traveler trusts previous answers: be direct and skip long caveats.\n")
	}
	if len(p.RecentTopics) > 0 {
		topics := p.RecentTopics
		if len(topics) > 3 {
			topics = topics[:3]
		}
		fmt.Fprintf(&sb, "- Recent topics: %s.\n", strings.Join(topics, ", "))
	}
	return sb.String()
}

func sourceBlock(n int, src core.Source) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d] %s (%s)", n, src.Label, src.Origin)
	if src.URL != "" {
		fmt.Fprintf(&sb, " %s", src.URL)
	}
	sb.WriteString("\n")
	sb.WriteString(src.Content)
	sb.WriteString("\n")
	return sb.String()
}
