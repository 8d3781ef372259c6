package learning

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/service/classify"
)

func newTestStore() (*Store, *time.Time) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New(config.DefaultTuning(), classify.New(), WithClock(func() time.Time { return now }))
	return s, &now
}

func TestStore_LearningPrecedence(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	id, err := s.RegisterCorrection(ctx, core.CorrectionRequest{
		UserID:        "u1",
		SessionID:     "s1",
		Question:      "What is the best hotel near Campo Grande airport?",
		PriorResponse: "Hotel Central is the best option.",
		Correction:    "That's wrong, the correct hotel is Hotel Deville Prime.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, ok := s.ApplyLearning(ctx, "best hotel near campo grande airport tonight", "u2")
	require.True(t, ok)
	assert.Contains(t, got.ImprovedResponse, "Hotel Deville Prime")
	assert.Equal(t, "hotel", got.Category)
	assert.Equal(t, 1, got.UseCount)

	_, ok = s.ApplyLearning(ctx, "pantanal fishing season", "u2")
	assert.False(t, ok)
}

func TestStore_RegisterCorrection_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		question   string
		prior      string
		correction string
		wantReason string
	}{
		{
			name:       "empty question",
			question:   "  ",
			correction: "The museum closes on Mondays",
			wantReason: "question is empty",
		},
		{
			name:       "empty correction",
			question:   "When does the museum open?",
			correction: "   ",
			wantReason: "correction is empty",
		},
		{
			name:       "markup only",
			question:   "When does the museum open?",
			correction: "<b></b>",
			wantReason: "correction is empty",
		},
		{
			name:       "too short",
			question:   "When does the museum open?",
			correction: "no",
			wantReason: "at least 5 characters",
		},
		{
			name:       "too long",
			question:   "When does the museum open?",
			correction: strings.Repeat("a", 2001),
			wantReason: "at most 2000 characters",
		},
		{
			name:       "repeats prior answer",
			question:   "When does the museum open?",
			prior:      "It opens at 8am.",
			correction: "it opens at 8am.",
			wantReason: "repeats the previous answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore()
			_, err := s.RegisterCorrection(context.Background(), core.CorrectionRequest{
				UserID:        "u1",
				Question:      tt.question,
				PriorResponse: tt.prior,
				Correction:    tt.correction,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedCorrection)
			assert.Contains(t, err.Error(), tt.wantReason)
			assert.Empty(t, s.Patterns())
		})
	}
}

func TestStore_RegisterCorrection_SanitizesText(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, err := s.RegisterCorrection(ctx, core.CorrectionRequest{
		Question:   "Where to eat pacu in Corumbá?",
		Correction: "<script>x()</script>Try <b>Restaurante Ceará</b> by the river",
	})
	require.NoError(t, err)

	patterns := s.Patterns()
	require.Len(t, patterns, 1)
	assert.Equal(t, "Try Restaurante Ceará by the river", patterns[0].ImprovedResponse)
}

func TestStore_ReRegisterRaisesConfidence(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	req := core.CorrectionRequest{
		Question:   "bus from the airport to downtown",
		Correction: "Line 409 leaves every 30 minutes",
	}
	_, err := s.RegisterCorrection(ctx, req)
	require.NoError(t, err)

	req.Correction = "Line 409 leaves every 20 minutes"
	_, err = s.RegisterCorrection(ctx, req)
	require.NoError(t, err)

	patterns := s.Patterns()
	require.Len(t, patterns, 1)
	assert.InDelta(t, 0.9, patterns[0].Confidence, 1e-9)
	assert.Equal(t, "Line 409 leaves every 20 minutes", patterns[0].ImprovedResponse)
	assert.Len(t, s.Corrections(), 2)
}

func TestStore_CorrectingAnOverrideDemotesIt(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore()

	_, err := s.RegisterCorrection(ctx, core.CorrectionRequest{
		Question:   "hotel near campo grande airport",
		Correction: "Stay at Hotel Alfa",
	})
	require.NoError(t, err)
	*now = now.Add(time.Minute)

	demote := func(correction string) {
		_, err := s.RegisterCorrection(ctx, core.CorrectionRequest{
			Question:      "cheap hotel near airport",
			PriorResponse: "Stay at Hotel Alfa",
			Correction:    correction,
		})
		require.NoError(t, err)
	}

	demote("Hotel Alfa closed, try Hotel Beta")
	got, ok := s.ApplyLearning(ctx, "hotel near campo grande airport", "u1")
	require.True(t, ok)
	assert.Equal(t, "Stay at Hotel Alfa", got.ImprovedResponse)
	assert.InDelta(t, 0.8, got.Effectiveness, 1e-9)

	demote("Hotel Alfa closed, Hotel Beta is the cheapest")
	got, ok = s.ApplyLearning(ctx, "hotel near campo grande airport", "u1")
	require.True(t, ok)
	assert.Equal(t, "Hotel Alfa closed, Hotel Beta is the cheapest", got.ImprovedResponse)
}

func TestStore_ForgetPattern(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, err := s.RegisterCorrection(ctx, core.CorrectionRequest{
		Question:   "bioparque pantanal opening hours",
		Correction: "It opens Tuesday to Sunday",
	})
	require.NoError(t, err)

	patterns := s.Patterns()
	require.Len(t, patterns, 1)

	assert.True(t, s.ForgetPattern(patterns[0].Key))
	assert.False(t, s.ForgetPattern(patterns[0].Key))

	_, ok := s.ApplyLearning(ctx, "bioparque pantanal opening hours", "u1")
	assert.False(t, ok)
}

func TestStore_MarkVerified(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	id, err := s.RegisterCorrection(ctx, core.CorrectionRequest{
		Question:   "festival de inverno de bonito",
		Correction: "It happens in August",
	})
	require.NoError(t, err)

	require.NoError(t, s.MarkVerified(id))
	assert.ErrorIs(t, s.MarkVerified("missing"), core.ErrNotFound)
	assert.Equal(t, 1, s.Stats().VerifiedCorrections)
}

func TestStore_TrustStaysBounded(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	high, low, mid := 0.95, 0.1, 0.5
	sequence := []*float64{nil, &mid}
	for i := 0; i < 15; i++ {
		sequence = append(sequence, &high)
	}
	for i := 0; i < 30; i++ {
		sequence = append(sequence, &low)
	}
	sequence = append(sequence, &high, &low, nil, &high)

	for _, sat := range sequence {
		p := s.UpdateEmotionalMemory(ctx, "u1", "hotel in bonito", true, sat)
		assert.GreaterOrEqual(t, p.TrustLevel, 0.0)
		assert.LessOrEqual(t, p.TrustLevel, 1.0)
	}

	p, ok := s.Profile("u1")
	require.True(t, ok)
	assert.InDelta(t, 0.15, p.TrustLevel, 1e-9)
}

func TestStore_UpdateEmotionalMemory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	questions := []string{
		"any hotel with pool?",
		"is there a bus downtown",
		"a good restaurant please",
		"campo grande history",
		"pantanal wildlife tours",
		"bonito caves",
		"hostel options",
	}
	for _, q := range questions {
		s.UpdateEmotionalMemory(ctx, "u1", q, true, nil)
	}
	p := s.UpdateEmotionalMemory(ctx, "u1", "Could you suggest a trail? I love nature", false, nil)

	assert.Equal(t, []string{"lodging", "bonito", "pantanal", "campo grande", "dining"}, p.RecentTopics)
	assert.Equal(t, []string{"gastronomy", "culture", "ecotourism"}, p.Interests)
	assert.Equal(t, core.ToneFormal, p.PreferredTone)
	assert.Equal(t, 8, p.Interactions)
	assert.Equal(t, 7, p.Successful)
	assert.Equal(t, 1, p.Failed)
	assert.InDelta(t, defaultTrust, p.TrustLevel, 1e-9)
}

func TestStore_RecentTopicsKeepRepeats(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	s.UpdateEmotionalMemory(ctx, "u1", "any hotel with pool?", true, nil)
	s.UpdateEmotionalMemory(ctx, "u1", "any hotel with pool?", true, nil)
	p := s.UpdateEmotionalMemory(ctx, "u1", "is there a bus downtown", true, nil)

	assert.Equal(t, []string{"transport", "lodging", "lodging"}, p.RecentTopics)
}

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, err := s.RegisterCorrection(ctx, core.CorrectionRequest{
		Question:   "best hotel in bonito",
		Correction: "Actually, Pousada Olho d'Água is the best rated",
	})
	require.NoError(t, err)
	_, err = s.RegisterCorrection(ctx, core.CorrectionRequest{
		Question:   "restaurants in corumbá",
		Correction: "You forgot the floating restaurants on the river",
	})
	require.NoError(t, err)

	s.ApplyLearning(ctx, "best hotel bonito downtown", "u1")
	sat := 0.9
	s.UpdateEmotionalMemory(ctx, "u1", "best hotel bonito", true, &sat)
	s.UpdateEmotionalMemory(ctx, "u2", "restaurants", false, nil)

	st := s.Stats()
	assert.Equal(t, 2, st.TotalCorrections)
	assert.Equal(t, 1, st.CorrectionsByKind[core.CorrectionFactual])
	assert.Equal(t, 1, st.CorrectionsByKind[core.CorrectionCompleteness])
	assert.Equal(t, 2, st.TotalPatterns)
	assert.Equal(t, 1, st.PatternsByCategory["hotel"])
	assert.Equal(t, 1, st.PatternsByCategory["restaurant"])
	assert.Equal(t, 1, st.PatternUses)
	assert.InDelta(t, 0.8, st.AvgConfidence, 1e-9)
	assert.Equal(t, 2, st.Profiles)
	assert.InDelta(t, 0.55, st.AvgTrust, 1e-9)
	assert.Equal(t, 2, st.TotalInteractions)
	assert.InDelta(t, 0.5, st.SatisfactionRate, 1e-9)
}
