// Package synthesis turns retrieved sources into an answer, through the
// generative backend when one is configured and deterministically otherwise.
package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

type Config struct {
	TokenBudget     int
	HistoryMessages int
	Timeout         time.Duration
}

type Synthesizer struct {
	ai    core.AIProvider
	count TokenCounter
	cfg   Config
}

// New creates a synthesizer. ai may be nil and count defaults to
// EstimateTokens.
func New(ai core.AIProvider, count TokenCounter, cfg Config) *Synthesizer {
	if count == nil {
		count = EstimateTokens
	}
	return &Synthesizer{ai: ai, count: count, cfg: cfg}
}

func (s *Synthesizer) Available() bool {
	return s.ai != nil
}

// Generate asks the backend for an answer and validates the payload. Every
// failure, including an invalid payload, wraps core.ErrGenerativeUnavailable.
func (s *Synthesizer) Generate(ctx context.Context, in Input) (core.Generation, error) {
	if s.ai == nil {
		return core.Generation{}, fmt.Errorf("%w: no backend configured", core.ErrGenerativeUnavailable)
	}

	msgs, kept := s.BuildPrompt(in)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	reply, err := s.ai.Chat(ctx, msgs)
	if err != nil {
		return core.Generation{}, fmt.Errorf("%w: %w", core.ErrGenerativeUnavailable, err)
	}

	gen, err := ParseGeneration(reply.Content, kept)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("generative payload rejected")
		return core.Generation{}, err
	}

	if !in.First {
		gen.Answer = StripIntro(gen.Answer)
	}
	return gen, nil
}

type payload struct {
	Answer     *string   `json:"answer"`
	Confidence *int      `json:"confidence"`
	Sources    *[]string `json:"sources"`
}

var (
	fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)
)

// ParseGeneration validates a raw backend reply against the answer schema:
// exactly the fields answer, confidence and sources, a non-empty answer,
// confidence within 0..100, and no URL that is missing from sources.
func ParseGeneration(raw string, sources []core.Source) (core.Generation, error) {
	body := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var p payload
	if err := dec.Decode(&p); err != nil {
		return core.Generation{}, invalid("decode: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return core.Generation{}, invalid("trailing data after object")
	}

	switch {
	case p.Answer == nil || strings.TrimSpace(*p.Answer) == "":
		return core.Generation{}, invalid("answer is missing")
	case p.Confidence == nil:
		return core.Generation{}, invalid("confidence is missing")
	case *p.Confidence < 0 || *p.Confidence > 100:
		return core.Generation{}, invalid("confidence %d out of range", *p.Confidence)
	case p.Sources == nil:
		return core.Generation{}, invalid("sources are missing")
	}

	answer := strings.TrimSpace(*p.Answer)
	for _, u := range urlPattern.FindAllString(answer, -1) {
		u = strings.TrimRight(u, ".,;:!?")
		if !knownURL(u, sources) {
			return core.Generation{}, invalid("answer cites unknown url %s", u)
		}
	}

	return core.Generation{
		Answer:     answer,
		Confidence: *p.Confidence,
		Sources:    append([]string{}, *p.Sources...),
	}, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: invalid payload: %s", core.ErrGenerativeUnavailable, fmt.Sprintf(format, args...))
}

func knownURL(u string, sources []core.Source) bool {
	u = strings.TrimSuffix(u, "/")
	for _, s := range sources {
		if s.URL == "" {
			continue
		}
		known := strings.TrimSuffix(s.URL, "/")
		if u == known || strings.HasPrefix(u, known+"/") {
			return true
		}
	}
	return false
}

var (
	greetingPattern = regexp.MustCompile(`(?i)^\s*(?:olá|ola|oi|hello|hi|hey|welcome|bem[- ]vind[oa]s?)(?:[^\p{L}\p{N}]|$)`)
	selfIntroPattern = regexp.MustCompile(`(?i)(?:sou o guat[áa]|i'?m guat[áa]|i am guat[áa])(?:[^\p{L}\p{N}]|$)`)
)

// StripIntro drops leading greeting or self-introduction lines. The answer
// is returned untouched when nothing else would remain.
func StripIntro(answer string) string {
	lines := strings.Split(answer, "\n")
	i := 0
	for i < len(lines) && (strings.TrimSpace(lines[i]) == "" || greetingPattern.MatchString(lines[i]) || selfIntroPattern.MatchString(lines[i])) {
		i++
	}
	rest := strings.TrimSpace(strings.Join(lines[i:], "\n"))
	if rest == "" {
		return answer
	}
	return rest
}

// Labels returns the citation labels of sources, in order.
func Labels(sources []core.Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Label)
	}
	return out
}

// compact trims content to its first sentence for bullet lists.
func compact(content string) string {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, ". "); i > 0 {
		return content[:i+1]
	}
	return content
}

