package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/guata/internal/core"
)

func TestHeuristic_Analyze(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantIntent   string
		wantTopic    string
		wantCategory string
		wantEntities []string
		wantSpecific bool
	}{
		{
			name:         "lodging near airport",
			input:        "Lodging near the airport",
			wantIntent:   "information",
			wantTopic:    "lodging",
			wantCategory: "hotel",
			wantEntities: []string{},
			wantSpecific: true,
		},
		{
			name:         "portuguese dining recommendation",
			input:        "Qual o melhor restaurante em Bonito?",
			wantIntent:   "recommendation",
			wantTopic:    "dining",
			wantCategory: "restaurant",
			wantEntities: []string{"bonito"},
			wantSpecific: true,
		},
		{
			name:         "transport question",
			input:        "How do I get from the airport to downtown?",
			wantIntent:   "information",
			wantTopic:    "transport",
			wantCategory: CategoryGeneral,
			wantEntities: []string{},
			wantSpecific: true,
		},
		{
			name:         "greeting",
			input:        "oi",
			wantIntent:   "information",
			wantTopic:    core.TopicGeneral,
			wantCategory: CategoryGeneral,
			wantEntities: []string{},
			wantSpecific: false,
		},
	}

	h := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Analyze(tt.input)
			assert.Equal(t, tt.wantIntent, got.Intent)
			assert.Equal(t, tt.wantTopic, got.Topic)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantEntities, got.Entities)
			assert.Equal(t, tt.wantSpecific, got.Specific)
		})
	}
}

func TestHeuristic_Sentiment(t *testing.T) {
	h := New()
	assert.Equal(t, "positive", h.Analyze("The tour was amazing, loved it").Sentiment)
	assert.Equal(t, "negative", h.Analyze("O hotel era péssimo").Sentiment)
	assert.Equal(t, "neutral", h.Analyze("Where is the bus station").Sentiment)
}

func TestIsVague(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"um hotel", true},
		{"a cheap one?", true},
		{"onde?", true},
		{"perto", true},
		{"the most famous", true},
		{"Lodging near the airport", false},
		{"What are the best restaurants in Campo Grande?", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVague(tt.input))
		})
	}
}

func TestHeuristic_CorrectionKind(t *testing.T) {
	tests := []struct {
		input string
		want  core.CorrectionKind
	}{
		{"Actually, that hotel closed in 2023", core.CorrectionFactual},
		{"That's not what I asked", core.CorrectionRelevance},
		{"You forgot to mention the price", core.CorrectionCompleteness},
		{"Too rude, be more polite", core.CorrectionTone},
		{"Hotel Deville is the one by the terminal", core.CorrectionFactual},
	}

	h := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, h.CorrectionKind(tt.input))
		})
	}
}

func TestHeuristic_Interests(t *testing.T) {
	h := New()
	assert.Equal(t, []string{"ecotourism", "gastronomy"}, h.Interests("I love hiking and local food"))
	assert.Empty(t, h.Interests("hello there"))
}

func TestHeuristic_Emotion(t *testing.T) {
	tests := []struct {
		input string
		want  core.EmotionalState
	}{
		{"I need a hotel today", core.EmotionUrgent},
		{"Thanks, perfect", core.EmotionHappy},
		{"Why is the Pantanal flooded", core.EmotionCurious},
		{"Is it open on Sunday?", core.EmotionCurious},
		{"Bonito!!", core.EmotionExcited},
		{"Hello", core.EmotionNeutral},
	}

	h := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Emotion(tt.input))
		})
	}
}

func TestHeuristic_Tone(t *testing.T) {
	h := New()

	tone, ok := h.Tone("Could you kindly help me")
	assert.True(t, ok)
	assert.Equal(t, core.ToneFormal, tone)

	tone, ok = h.Tone("hey, what's up")
	assert.True(t, ok)
	assert.Equal(t, core.ToneCasual, tone)

	_, ok = h.Tone("Hello")
	assert.False(t, ok)
}

func TestMatches(t *testing.T) {
	assert.True(t, matches("two hotels downtown", "hotel"))
	assert.False(t, matches("hiking trail", "hi"))
	assert.False(t, matches("tourism office", "tour"))
	assert.True(t, matches("i can t wait", "can't wait"))
}
