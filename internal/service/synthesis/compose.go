package synthesis

import (
	"fmt"
	"strings"

	"github.com/sandevgo/guata/internal/core"
)

const (
	introLine    = "Hi! I'm Guatá, your travel guide to Mato Grosso do Sul."
	noSourceLine = "I could not find verified information about that yet."
	disclaimer   = "Prices, schedules and opening hours change often, so please confirm with the provider before you go."
	closingLine  = "Would you like more details about any of these?"
	apology      = "Sorry, I had a problem preparing your answer. Please try again in a moment."
	maxExtras    = 2
)

// Compose builds an answer from the best ranked sources without a
// generative backend.
func Compose(in Input) string {
	var parts []string

	if len(in.Sources) == 0 {
		parts = append(parts,
			noSourceLine,
			"You can ask me about lodging, food, attractions, events or transport in Campo Grande, Bonito and the Pantanal.",
		)
		return introduceIf(in.First, strings.Join(parts, "\n\n"))
	}

	best := in.Sources[0]
	parts = append(parts, fmt.Sprintf("%s (source: %s)", strings.TrimSpace(best.Content), best.Label))

	var extras []string
	for _, s := range in.Sources[1:] {
		if len(extras) == maxExtras {
			break
		}
		extras = append(extras, fmt.Sprintf("- %s: %s", s.Title, compact(s.Content)))
	}
	if len(extras) > 0 {
		parts = append(parts, "Also worth knowing:\n"+strings.Join(extras, "\n"))
	}

	parts = append(parts, disclaimer, closingLine)
	return introduceIf(in.First, strings.Join(parts, "\n\n"))
}

func introduceIf(first bool, answer string) string {
	if first {
		return Introduce(answer)
	}
	return answer
}

// Introduce puts the guide's greeting in front of answer.
func Introduce(answer string) string {
	return introLine + "\n\n" + answer
}

// Apology is the answer returned when the pipeline fails.
func Apology() string {
	return apology
}

var interestFollowUps = map[string][]string{
	"ecotourism": {"Which Bonito rivers are best for floating?", "When is the best season to see Pantanal wildlife?"},
	"gastronomy": {"Where can I try sobá in Campo Grande?", "Which regional fish dishes should I taste?"},
	"adventure":  {"Which Bonito tours include rappelling or diving?", "Are there trails near Campo Grande?"},
	"culture":    {"Which museums are worth visiting in Campo Grande?", "Are there festivals during my trip?"},
}

var topicFollowUps = map[string][]string{
	"lodging":  {"Do you prefer staying near the airport or downtown?", "Should I look for places with airport transfer?"},
	"pantanal": {"Would you like a Pantanal lodge or a day trip?", "Do you want tips on the best season for wildlife?"},
}

var (
	defaultFollowUps = []string{"What else would you like to know about Mato Grosso do Sul?", "Do you want suggestions for attractions nearby?"}
	errorFollowUps   = []string{"Could you rephrase your question?", "Would you like general tips about Campo Grande?"}
)

// FollowUps suggests next questions from the newest interest, then the
// current topic, then a default pair.
func FollowUps(p *core.Profile, topic string) []string {
	if p != nil && len(p.Interests) > 0 {
		if f, ok := interestFollowUps[p.Interests[len(p.Interests)-1]]; ok {
			return clone(f)
		}
	}
	if f, ok := topicFollowUps[topic]; ok {
		return clone(f)
	}
	return clone(defaultFollowUps)
}

func ErrorFollowUps() []string {
	return clone(errorFollowUps)
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
