package core

import "time"

const (
	GuataName          = "Guata"
	GuataUserAgent     = "Guata-Assistant/0.1"
	GuataRepositoryURL = "https://github.com/sandevgo/guata"
	GuataVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Source is a piece of evidence used to build an answer.
type Source struct {
	Label     string  `json:"label"`
	Title     string  `json:"title,omitempty"`
	Content   string  `json:"content"`
	URL       string  `json:"url,omitempty"`
	Category  string  `json:"category,omitempty"`
	Origin    string  `json:"origin"` // "knowledge", "guide", "web", "specialized", "cache", "learning"
	Relevance float64 `json:"relevance"`
}

type ReasoningStep struct {
	Index       int    `json:"step"`
	Stage       string `json:"stage"`
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	Observation string `json:"observation"`
}

// Response is what the assistant returns for one user message.
type Response struct {
	Answer         string          `json:"answer"`
	Confidence     int             `json:"confidence"`
	Sources        []Source        `json:"sources"`
	ReasoningTrace []ReasoningStep `json:"reasoning_trace"`
	FollowUps      []string        `json:"follow_ups"`
	Path           string          `json:"path"`
	ProcessingTime time.Duration   `json:"processing_time"`
}

// Answer paths taken by the pipeline.
const (
	PathCache      = "cache"
	PathLearned    = "learned"
	PathGenerative = "generative"
	PathFallback   = "fallback"
	PathFailure    = "failure"
)

// SearchResult is one ranked hit returned by the external search collaborator.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Generation is a validated payload from the generative backend.
type Generation struct {
	Answer     string   `json:"answer"`
	Confidence int      `json:"confidence"`
	Sources    []string `json:"sources"`
}
