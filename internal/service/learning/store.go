// Package learning keeps user corrections, the answer patterns derived from
// them and the per-user personalization profiles.
package learning

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/metrics"
	"github.com/sandevgo/guata/pkg/conv"
	"github.com/sandevgo/guata/pkg/log"
	"github.com/sandevgo/guata/pkg/text"
)

const (
	minCorrectionLength = 5
	maxCorrectionLength = 2000

	confidenceStep    = 0.1
	effectivenessStep = 0.2
)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	mu          sync.Mutex
	corrections []*core.CorrectionRecord
	patterns    map[string]*core.LearningPattern
	profiles    map[string]*core.Profile

	classifier core.Classifier
	cfg        config.TuningConfig
	now        func() time.Time
}

func New(cfg config.TuningConfig, classifier core.Classifier, opts ...Option) *Store {
	s := &Store{
		patterns:   make(map[string]*core.LearningPattern),
		profiles:   make(map[string]*core.Profile),
		classifier: classifier,
		cfg:        cfg,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PatternKey is the category plus the leading-words signature of a question.
func PatternKey(category string, signature []string) string {
	return category + ":" + strings.Join(signature, " ")
}

// RegisterCorrection validates and stores a correction and derives the
// learning pattern for its question. It returns the correction id.
func (s *Store) RegisterCorrection(ctx context.Context, req core.CorrectionRequest) (string, error) {
	question := strings.TrimSpace(req.Question)
	correction := conv.SanitizeText(req.Correction)

	if err := validate(question, correction, req.PriorResponse); err != nil {
		return "", err
	}

	kind := s.classifier.CorrectionKind(correction)
	category := s.classifier.Category(question)
	signature := text.Signature(question, s.cfg.LearningSignatureWords)
	key := PatternKey(category, signature)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec := &core.CorrectionRecord{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		SessionID:     req.SessionID,
		Question:      question,
		PriorResponse: req.PriorResponse,
		Correction:    correction,
		Kind:          kind,
		Context:       req.Context,
		CreatedAt:     now,
	}
	s.corrections = append(s.corrections, rec)

	s.penalizeOverride(ctx, key, req.PriorResponse)

	if p, ok := s.patterns[key]; ok {
		p.ImprovedResponse = correction
		p.Confidence = math.Min(1, p.Confidence+confidenceStep)
	} else {
		s.patterns[key] = &core.LearningPattern{
			Key:              key,
			ID:               uuid.New().String(),
			Category:         category,
			Signature:        signature,
			ImprovedResponse: correction,
			Confidence:       s.cfg.LearningInitialConfidence,
			Effectiveness:    s.cfg.LearningInitialEffectiveness,
			CreatedAt:        now,
		}
	}

	metrics.Corrections.WithLabelValues(string(kind)).Inc()
	log.FromCtx(ctx).Info().
		Str("correction", rec.ID).
		Str("kind", string(kind)).
		Str("pattern", key).
		Msg("correction registered")

	return rec.ID, nil
}

// penalizeOverride lowers the standing of another pattern whose learned
// answer is the one being corrected.
func (s *Store) penalizeOverride(ctx context.Context, key, prior string) {
	prior = strings.TrimSpace(prior)
	if prior == "" {
		return
	}
	for k, p := range s.patterns {
		if k == key || p.ImprovedResponse != prior {
			continue
		}
		p.Effectiveness = math.Max(0, p.Effectiveness-effectivenessStep)
		p.Confidence = math.Max(0, p.Confidence-confidenceStep)

		log.FromCtx(ctx).Info().
			Str("pattern", k).
			Float64("confidence", p.Confidence).
			Float64("effectiveness", p.Effectiveness).
			Msg("learned override corrected")
	}
}

func validate(question, correction, prior string) error {
	switch {
	case question == "":
		return &core.MalformedCorrectionError{Reason: "question is empty"}
	case correction == "":
		return &core.MalformedCorrectionError{Reason: "correction is empty"}
	case utf8.RuneCountInString(correction) < minCorrectionLength:
		return &core.MalformedCorrectionError{Reason: fmt.Sprintf("correction must have at least %d characters", minCorrectionLength)}
	case utf8.RuneCountInString(correction) > maxCorrectionLength:
		return &core.MalformedCorrectionError{Reason: fmt.Sprintf("correction must have at most %d characters", maxCorrectionLength)}
	case strings.EqualFold(correction, strings.TrimSpace(prior)):
		return &core.MalformedCorrectionError{Reason: "correction repeats the previous answer"}
	}
	return nil
}

// ApplyLearning finds the best eligible pattern for question and records
// its use. The best pattern shares the most signature words, then has the
// highest confidence, then was used or created most recently.
func (s *Store) ApplyLearning(ctx context.Context, question, userID string) (core.LearningPattern, bool) {
	signature := text.Signature(question, s.cfg.LearningSignatureWords)
	if len(signature) == 0 {
		return core.LearningPattern{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best       *core.LearningPattern
		bestCommon int
	)
	for _, p := range s.patterns {
		if p.Confidence < s.cfg.LearningMinConfidence || p.Effectiveness < s.cfg.LearningMinEffectiveness {
			continue
		}
		common := text.CommonWords(signature, p.Signature)
		need := math.Max(2, float64(min(len(signature), len(p.Signature)))/2)
		if float64(common) < need {
			continue
		}
		if best == nil || better(p, common, best, bestCommon) {
			best, bestCommon = p, common
		}
	}
	if best == nil {
		return core.LearningPattern{}, false
	}

	best.UseCount++
	best.LastUsed = s.now()

	log.FromCtx(ctx).Debug().
		Str("pattern", best.Key).
		Str("user", userID).
		Int("common", bestCommon).
		Msg("learned pattern applied")

	return copyPattern(best), true
}

func better(p *core.LearningPattern, common int, best *core.LearningPattern, bestCommon int) bool {
	if common != bestCommon {
		return common > bestCommon
	}
	if p.Confidence != best.Confidence {
		return p.Confidence > best.Confidence
	}
	if !lastTouched(p).Equal(lastTouched(best)) {
		return lastTouched(p).After(lastTouched(best))
	}
	return p.Key < best.Key
}

func lastTouched(p *core.LearningPattern) time.Time {
	if p.LastUsed.After(p.CreatedAt) {
		return p.LastUsed
	}
	return p.CreatedAt
}

// MarkVerified flags a correction as reviewed.
func (s *Store) MarkVerified(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.corrections {
		if c.ID == id {
			c.Verified = true
			return nil
		}
	}
	return fmt.Errorf("%w: correction %s", core.ErrNotFound, id)
}

// ForgetPattern drops a learned pattern so it is no longer applied.
func (s *Store) ForgetPattern(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patterns[key]; !ok {
		return false
	}
	delete(s.patterns, key)
	return true
}

func (s *Store) Patterns() []core.LearningPattern {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.LearningPattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		out = append(out, copyPattern(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *Store) Corrections() []core.CorrectionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.CorrectionRecord, len(s.corrections))
	for i, c := range s.corrections {
		out[i] = *c
	}
	return out
}

func copyPattern(p *core.LearningPattern) core.LearningPattern {
	out := *p
	out.Signature = append([]string(nil), p.Signature...)
	return out
}
