package core

import "context"

// AIProvider is the generative-text backend.
type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// SearchProvider is the metered external search backend. Implementations
// return an error matching ErrQuotaExhausted when the provider answers 429.
type SearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// Classifier turns free text into the heuristic signals the pipeline needs.
type Classifier interface {
	Analyze(text string) Analysis
	Category(text string) string
	CorrectionKind(text string) CorrectionKind
	Interests(text string) []string
	Emotion(text string) EmotionalState
	Tone(text string) (Tone, bool)
}

type Analysis struct {
	Intent    string   `json:"intent"`
	Topic     string   `json:"topic"`
	Category  string   `json:"category"`
	Sentiment string   `json:"sentiment"`
	Entities  []string `json:"entities"`
	Vague     bool     `json:"vague"`
	Specific  bool     `json:"specific"`
}

const TopicGeneral = "general"
