// Package classify implements the keyword heuristics that turn a traveler's
// message into intent, topic, category and mood signals.
package classify

import (
	"regexp"
	"strings"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/text"
)

var vaguePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(um|uma|a|an)\s+[\p{L}\p{N}\s]{1,20}[?.!]?$`),
	regexp.MustCompile(`^(o|a|the)\s+(mais|most)\s+[\p{L}\s]{1,15}[?.!]?$`),
	regexp.MustCompile(`^(qual|onde|como|quando|which|where|how|when)\s*[?.]?$`),
	regexp.MustCompile(`^(perto|próximo|melhor|barato|near|nearby|best|cheap|cheaper)\s*[?.]?$`),
}

// Heuristic is the keyword-driven core.Classifier.
type Heuristic struct{}

func New() *Heuristic {
	return &Heuristic{}
}

var _ core.Classifier = (*Heuristic)(nil)

func (h *Heuristic) Analyze(s string) core.Analysis {
	cleaned := text.Clean(s)

	a := core.Analysis{
		Intent:    "information",
		Topic:     core.TopicGeneral,
		Category:  h.Category(s),
		Sentiment: "neutral",
		Entities:  []string{},
	}

	if g, ok := firstGroup(cleaned, intents); ok {
		a.Intent = g
	}
	if g, ok := firstGroup(cleaned, topics); ok {
		a.Topic = g
	}

	pos, neg := countMatches(cleaned, positiveWords), countMatches(cleaned, negativeWords)
	switch {
	case pos > neg:
		a.Sentiment = "positive"
	case neg > pos:
		a.Sentiment = "negative"
	}

	for _, e := range append(append([]string{}, cities...), attractions...) {
		if matches(cleaned, e) {
			a.Entities = append(a.Entities, e)
		}
	}

	a.Vague = IsVague(s)
	a.Specific = len([]rune(strings.TrimSpace(s))) > 20 || countMatches(cleaned, specificKeywords) > 0
	return a
}

// IsVague reports whether s is a short follow-up that only makes sense with
// the previous turn's topic.
func IsVague(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, re := range vaguePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (h *Heuristic) Category(s string) string {
	if g, ok := firstGroup(text.Clean(s), categories); ok {
		return g
	}
	return CategoryGeneral
}

// CorrectionKind picks the kind with the most marker hits. Ties go to the
// earlier kind and no hits at all means factual.
func (h *Heuristic) CorrectionKind(s string) core.CorrectionKind {
	cleaned := text.Clean(s)
	best, bestHits := core.CorrectionFactual, 0
	for _, k := range correctionKinds {
		if n := countMatches(cleaned, k.keywords); n > bestHits {
			best, bestHits = k.kind, n
		}
	}
	return best
}

func (h *Heuristic) Interests(s string) []string {
	cleaned := text.Clean(s)
	var out []string
	for _, g := range interests {
		if countMatches(cleaned, g.keywords) > 0 {
			out = append(out, g.name)
		}
	}
	return out
}

func (h *Heuristic) Emotion(s string) core.EmotionalState {
	cleaned := text.Clean(s)
	for _, e := range emotions {
		if countMatches(cleaned, e.keywords) > 0 {
			return e.state
		}
	}
	trimmed := strings.TrimSpace(s)
	switch {
	case strings.Contains(trimmed, "!!"):
		return core.EmotionExcited
	case strings.HasSuffix(trimmed, "?"):
		return core.EmotionCurious
	}
	return core.EmotionNeutral
}

func (h *Heuristic) Tone(s string) (core.Tone, bool) {
	cleaned := text.Clean(s)
	for _, t := range tones {
		if countMatches(cleaned, t.keywords) > 0 {
			return t.tone, true
		}
	}
	if strings.Count(s, "!") >= 2 {
		return core.ToneEnthusiastic, true
	}
	return "", false
}

func firstGroup(cleaned string, groups []group) (string, bool) {
	for _, g := range groups {
		if countMatches(cleaned, g.keywords) > 0 {
			return g.name, true
		}
	}
	return "", false
}

func countMatches(cleaned string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if matches(cleaned, kw) {
			n++
		}
	}
	return n
}

// matches looks for kw at a word boundary of an already cleaned string.
// Keywords of up to four letters must match a whole word, longer ones match
// as a word prefix so plurals still hit.
func matches(cleaned, kw string) bool {
	k := text.Clean(kw)
	if k == "" {
		return false
	}
	padded := " " + cleaned + " "
	if len([]rune(k)) <= 4 {
		return strings.Contains(padded, " "+k+" ")
	}
	return strings.Contains(padded, " "+k)
}
