package core

import "time"

type CorrectionKind string

const (
	CorrectionFactual      CorrectionKind = "factual"
	CorrectionTone         CorrectionKind = "tone"
	CorrectionCompleteness CorrectionKind = "completeness"
	CorrectionRelevance    CorrectionKind = "relevance"
)

type CorrectionRecord struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	SessionID     string         `json:"session_id"`
	Question      string         `json:"question"`
	PriorResponse string         `json:"prior_response"`
	Correction    string         `json:"correction"`
	Kind          CorrectionKind `json:"kind"`
	Context       string         `json:"context,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	Verified      bool           `json:"verified"`
}

// CorrectionRequest is the caller-facing input for registering a correction.
type CorrectionRequest struct {
	UserID        string `json:"user_id"`
	SessionID     string `json:"session_id"`
	Question      string `json:"question"`
	PriorResponse string `json:"prior_response"`
	Correction    string `json:"correction"`
	Context       string `json:"context,omitempty"`
}

type LearningPattern struct {
	Key              string    `json:"key"`
	ID               string    `json:"id"`
	Category         string    `json:"category"`
	Signature        []string  `json:"signature"`
	ImprovedResponse string    `json:"improved_response"`
	Confidence       float64   `json:"confidence"`
	UseCount         int       `json:"use_count"`
	LastUsed         time.Time `json:"last_used"`
	Effectiveness    float64   `json:"effectiveness"`
	CreatedAt        time.Time `json:"created_at"`
}

type Tone string

const (
	ToneFormal       Tone = "formal"
	ToneCasual       Tone = "casual"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneCalm         Tone = "calm"
)

type EmotionalState string

const (
	EmotionExcited    EmotionalState = "excited"
	EmotionCurious    EmotionalState = "curious"
	EmotionUrgent     EmotionalState = "urgent"
	EmotionConfused   EmotionalState = "confused"
	EmotionHappy      EmotionalState = "happy"
	EmotionFrustrated EmotionalState = "frustrated"
	EmotionNeutral    EmotionalState = "neutral"
)

// Profile is the per-user personalization state.
type Profile struct {
	UserID          string         `json:"user_id"`
	PreferredTone   Tone           `json:"preferred_tone"`
	Interests       []string       `json:"interests"`
	RecentTopics    []string       `json:"recent_topics"`
	EmotionalState  EmotionalState `json:"emotional_state"`
	TrustLevel      float64        `json:"trust_level"`
	Interactions    int            `json:"interactions"`
	Successful      int            `json:"successful"`
	Failed          int            `json:"failed"`
	LastInteraction time.Time      `json:"last_interaction"`
}

type LearningStats struct {
	TotalCorrections    int                    `json:"total_corrections"`
	CorrectionsByKind   map[CorrectionKind]int `json:"corrections_by_kind"`
	VerifiedCorrections int                    `json:"verified_corrections"`
	TotalPatterns       int                    `json:"total_patterns"`
	PatternsByCategory  map[string]int         `json:"patterns_by_category"`
	PatternUses         int                    `json:"pattern_uses"`
	AvgConfidence       float64                `json:"avg_confidence"`
	AvgEffectiveness    float64                `json:"avg_effectiveness"`
	Profiles            int                    `json:"profiles"`
	AvgTrust            float64                `json:"avg_trust"`
	TotalInteractions   int                    `json:"total_interactions"`
	Successful          int                    `json:"successful"`
	Failed              int                    `json:"failed"`
	SatisfactionRate    float64                `json:"satisfaction_rate"`
}
