package learning

import (
	"context"
	"slices"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

const defaultTrust = 0.5

// UpdateEmotionalMemory folds one interaction into the user's profile and
// returns the updated copy. A nil satisfaction leaves trust unchanged.
func (s *Store) UpdateEmotionalMemory(ctx context.Context, userID, question string, success bool, satisfaction *float64) core.Profile {
	analysis := s.classifier.Analyze(question)
	interests := s.classifier.Interests(question)
	emotion := s.classifier.Emotion(question)
	tone, toneFound := s.classifier.Tone(question)

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profile(userID)

	for _, i := range interests {
		if !slices.Contains(p.Interests, i) {
			p.Interests = append(p.Interests, i)
		}
	}

	if analysis.Topic != "" && analysis.Topic != core.TopicGeneral {
		p.RecentTopics = pushTopic(p.RecentTopics, analysis.Topic, s.cfg.LearningRecentTopics)
	}

	p.EmotionalState = emotion
	if toneFound {
		p.PreferredTone = tone
	}

	p.Interactions++
	if success {
		p.Successful++
	} else {
		p.Failed++
	}

	if satisfaction != nil {
		switch {
		case *satisfaction > s.cfg.TrustRaiseAbove:
			p.TrustLevel += s.cfg.TrustRaise
		case *satisfaction < s.cfg.TrustLowerBelow:
			p.TrustLevel -= s.cfg.TrustLower
		}
		p.TrustLevel = clamp01(p.TrustLevel)
	}

	p.LastInteraction = s.now()

	log.FromCtx(ctx).Debug().
		Str("user", userID).
		Str("emotion", string(p.EmotionalState)).
		Float64("trust", p.TrustLevel).
		Msg("profile updated")

	return copyProfile(p)
}

// Profile returns the user's profile, if the user has interacted before.
func (s *Store) Profile(userID string) (core.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return core.Profile{}, false
	}
	return copyProfile(p), true
}

func (s *Store) profile(userID string) *core.Profile {
	p, ok := s.profiles[userID]
	if !ok {
		p = &core.Profile{
			UserID:         userID,
			PreferredTone:  core.ToneCasual,
			EmotionalState: core.EmotionNeutral,
			TrustLevel:     defaultTrust,
		}
		s.profiles[userID] = p
	}
	return p
}

// pushTopic puts topic first and drops the oldest past limit. Repeated
// topics are pushed again.
func pushTopic(topics []string, topic string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, topic)
	n := max(0, min(len(topics), limit-1))
	return append(out, topics[:n]...)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func copyProfile(p *core.Profile) core.Profile {
	out := *p
	out.Interests = append([]string(nil), p.Interests...)
	out.RecentTopics = append([]string(nil), p.RecentTopics...)
	return out
}

func (s *Store) Stats() core.LearningStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := core.LearningStats{
		TotalCorrections:   len(s.corrections),
		CorrectionsByKind:  make(map[core.CorrectionKind]int),
		TotalPatterns:      len(s.patterns),
		PatternsByCategory: make(map[string]int),
		Profiles:           len(s.profiles),
	}

	for _, c := range s.corrections {
		st.CorrectionsByKind[c.Kind]++
		if c.Verified {
			st.VerifiedCorrections++
		}
	}

	for _, p := range s.patterns {
		st.PatternsByCategory[p.Category]++
		st.PatternUses += p.UseCount
		st.AvgConfidence += p.Confidence
		st.AvgEffectiveness += p.Effectiveness
	}
	if n := len(s.patterns); n > 0 {
		st.AvgConfidence /= float64(n)
		st.AvgEffectiveness /= float64(n)
	}

	for _, p := range s.profiles {
		st.AvgTrust += p.TrustLevel
		st.TotalInteractions += p.Interactions
		st.Successful += p.Successful
		st.Failed += p.Failed
	}
	if n := len(s.profiles); n > 0 {
		st.AvgTrust /= float64(n)
	}
	if st.TotalInteractions > 0 {
		st.SatisfactionRate = float64(st.Successful) / float64(st.TotalInteractions)
	}

	return st
}
