// Package orchestrator runs one request through the answer pipeline:
// cache, learned overrides, intent analysis, retrieval, synthesis and
// cache write-back, recording a reasoning step for each stage.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/metrics"
	"github.com/sandevgo/guata/internal/service/cache"
	"github.com/sandevgo/guata/internal/service/fetch"
	"github.com/sandevgo/guata/internal/service/learning"
	"github.com/sandevgo/guata/internal/service/retrieval"
	"github.com/sandevgo/guata/internal/service/session"
	"github.com/sandevgo/guata/internal/service/synthesis"
	"github.com/sandevgo/guata/internal/service/trace"
	"github.com/sandevgo/guata/pkg/log"
)

// Fixed confidence per answer path.
const (
	confidenceLearned    = 95
	confidenceGenerative = 90
	confidenceFallback   = 70
	confidenceFailure    = 0
)

const (
	learnedSatisfaction = 0.9
	failedSatisfaction  = 0.2
	minLearnedLength    = 10
)

const (
	OriginCache    = "cache"
	OriginLearning = "learning"
)

var errEmptyMessage = errors.New("message is empty")

// Deps are the collaborators of the pipeline. Fetch is only read for usage
// reporting; retrieval issues the gated calls itself.
type Deps struct {
	Cache      *cache.Cache
	Learning   *learning.Store
	Fetch      *fetch.Coordinator
	Retriever  *retrieval.Retriever
	Synthesis  *synthesis.Synthesizer
	Classifier core.Classifier
	Sessions   *session.Manager
}

type Orchestrator struct {
	cache      *cache.Cache
	learning   *learning.Store
	fetch      *fetch.Coordinator
	retriever  *retrieval.Retriever
	synth      *synthesis.Synthesizer
	classifier core.Classifier
	sessions   *session.Manager
	cfg        config.TuningConfig
}

var (
	_ core.Assistant = (*Orchestrator)(nil)
	_ core.Curator   = (*Orchestrator)(nil)
)

func New(cfg config.TuningConfig, deps Deps) *Orchestrator {
	sessions := deps.Sessions
	if sessions == nil {
		sessions = session.NewManager(nil, cfg.HistoryMessages)
	}
	synth := deps.Synthesis
	if synth == nil {
		synth = synthesis.New(nil, nil, synthesis.Config{
			TokenBudget:     cfg.PromptTokens,
			HistoryMessages: cfg.HistoryMessages,
			Timeout:         cfg.ExternalTimeout,
		})
	}
	return &Orchestrator{
		cache:      deps.Cache,
		learning:   deps.Learning,
		fetch:      deps.Fetch,
		retriever:  deps.Retriever,
		synth:      synth,
		classifier: deps.Classifier,
		sessions:   sessions,
		cfg:        cfg,
	}
}

type request struct {
	text        string
	sessionID   string
	userID      string
	fingerprint string
}

// ProcessMessage answers one user message. It never fails: errors and
// panics from any stage turn into a confidence 0 apology.
func (o *Orchestrator) ProcessMessage(ctx context.Context, text, sessionID, userID string) (resp core.Response) {
	start := time.Now()
	tb := trace.New()
	req := request{
		text:        strings.TrimSpace(text),
		sessionID:   sessionID,
		userID:      userID,
		fingerprint: cache.ContextFingerprint(sessionID),
	}

	ctx = log.WithFields(ctx, map[string]any{"session": sessionID, "user": userID})

	defer func() {
		if r := recover(); r != nil {
			resp = o.fail(ctx, tb, req, fmt.Errorf("panic: %v", r))
		}
		resp.ProcessingTime = time.Since(start)

		metrics.PipelineAnswers.WithLabelValues(resp.Path).Inc()
		metrics.PipelineLatency.WithLabelValues(resp.Path).Observe(resp.ProcessingTime.Seconds())

		log.FromCtx(ctx).Info().
			Str("path", resp.Path).
			Int("confidence", resp.Confidence).
			Int("sources", len(resp.Sources)).
			Dur("took", resp.ProcessingTime).
			Msg("message processed")
	}()

	resp, err := o.run(ctx, tb, req)
	if err != nil {
		return o.fail(ctx, tb, req, err)
	}
	return resp
}

func (o *Orchestrator) run(ctx context.Context, tb *trace.Builder, req request) (core.Response, error) {
	if req.text == "" {
		return core.Response{}, errEmptyMessage
	}

	if resp, ok := o.checkCache(ctx, tb, req); ok {
		return resp, nil
	}
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	if resp, ok := o.checkLearning(ctx, tb, req); ok {
		return resp, nil
	}
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	snap := o.sessions.Snapshot(ctx, req.sessionID)
	analysis, hint := o.analyze(tb, req, snap)
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	outcome := o.retrieve(ctx, tb, req, analysis, hint)
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	topic := analysis.Topic
	if hint != "" {
		topic = hint
	}

	var profile *core.Profile
	if p, ok := o.learning.Profile(req.userID); ok {
		profile = &p
	}
	in := synthesis.Input{
		Query:   req.text,
		Sources: outcome.Sources,
		History: snap.History,
		Profile: profile,
		First:   snap.First,
		Topic:   topic,
	}
	answer, confidence, path := o.synthesize(ctx, tb, in)

	o.writeBack(ctx, tb, req, answer, outcome.Sources, confidence)

	updated := o.learning.UpdateEmotionalMemory(ctx, req.userID, req.text, true, nil)
	o.sessions.Record(ctx, req.sessionID, req.text, answer, topic, path)

	return core.Response{
		Answer:         answer,
		Confidence:     confidence,
		Sources:        nonNil(outcome.Sources),
		ReasoningTrace: tb.Steps(),
		FollowUps:      synthesis.FollowUps(&updated, topic),
		Path:           path,
	}, nil
}

func (o *Orchestrator) checkCache(ctx context.Context, tb *trace.Builder, req request) (core.Response, bool) {
	entry, ok := o.cache.Lookup(ctx, req.text, req.fingerprint)
	if !ok {
		tb.Add(trace.StageCacheMiss,
			"No stored answer is close enough to this question.",
			"similarity cache lookup",
			"miss")
		return core.Response{}, false
	}

	tb.Add(trace.StageCacheHit,
		"A recent answer matches this question.",
		"similarity cache lookup",
		fmt.Sprintf("entry %s, used %d times, confidence %d", entry.ID, entry.UseCount, entry.Confidence))

	sources := make([]core.Source, 0, len(entry.Sources))
	for _, label := range entry.Sources {
		sources = append(sources, core.Source{Label: label, Origin: OriginCache, Relevance: 1})
	}

	// Entries are shared by every session, so the greeting is only added
	// for a session that has not been greeted yet.
	answer := synthesis.StripIntro(entry.Response)
	if o.sessions.Snapshot(ctx, req.sessionID).First {
		answer = synthesis.Introduce(answer)
	}

	profile := o.learning.UpdateEmotionalMemory(ctx, req.userID, req.text, true, nil)
	o.sessions.Record(ctx, req.sessionID, req.text, answer, "", core.PathCache)

	return core.Response{
		Answer:         answer,
		Confidence:     entry.Confidence,
		Sources:        sources,
		ReasoningTrace: tb.Steps(),
		FollowUps:      synthesis.FollowUps(&profile, ""),
		Path:           core.PathCache,
	}, true
}

func (o *Orchestrator) checkLearning(ctx context.Context, tb *trace.Builder, req request) (core.Response, bool) {
	pattern, ok := o.learning.ApplyLearning(ctx, req.text, req.userID)
	if !ok || len([]rune(pattern.ImprovedResponse)) < minLearnedLength {
		tb.Add(trace.StageNoLearning,
			"No correction covers this question.",
			"learned pattern lookup",
			"no match")
		return core.Response{}, false
	}

	tb.Add(trace.StageLearned,
		"A user correction already answers this question.",
		"learned pattern lookup",
		fmt.Sprintf("pattern %s, confidence %.2f, used %d times", pattern.Key, pattern.Confidence, pattern.UseCount))
	metrics.LearnedOverrides.Inc()

	satisfaction := learnedSatisfaction
	profile := o.learning.UpdateEmotionalMemory(ctx, req.userID, req.text, true, &satisfaction)
	o.sessions.Record(ctx, req.sessionID, req.text, pattern.ImprovedResponse, "", core.PathLearned)

	return core.Response{
		Answer:     pattern.ImprovedResponse,
		Confidence: confidenceLearned,
		Sources: []core.Source{{
			Label:     "learned:" + pattern.Key,
			Content:   pattern.ImprovedResponse,
			Category:  pattern.Category,
			Origin:    OriginLearning,
			Relevance: pattern.Confidence,
		}},
		ReasoningTrace: tb.Steps(),
		FollowUps:      synthesis.FollowUps(&profile, ""),
		Path:           core.PathLearned,
	}, true
}

// analyze classifies the message. Vague follow-ups return the session
// topic as a hint for retrieval.
func (o *Orchestrator) analyze(tb *trace.Builder, req request, snap session.Snapshot) (core.Analysis, string) {
	a := o.classifier.Analyze(req.text)

	var hint string
	if a.Vague && snap.Topic != "" {
		hint = snap.Topic
	}

	observation := fmt.Sprintf("intent %s, topic %s, category %s, sentiment %s", a.Intent, a.Topic, a.Category, a.Sentiment)
	if len(a.Entities) > 0 {
		observation += ", entities " + strings.Join(a.Entities, ", ")
	}
	if hint != "" {
		observation += ", inherits topic " + hint
	}
	tb.Add(trace.StageIntent,
		"Work out what the traveler is asking about.",
		"heuristic classification",
		observation)

	return a, hint
}

func (o *Orchestrator) retrieve(ctx context.Context, tb *trace.Builder, req request, a core.Analysis, hint string) retrieval.Outcome {
	out := o.retriever.Retrieve(ctx, retrieval.Request{
		Query:     req.text,
		Analysis:  a,
		TopicHint: hint,
	})

	if len(out.Denials) > 0 {
		log.FromCtx(ctx).Info().Strs("denials", out.Denials).Msg("external lookups skipped")
	}

	action := "score curated knowledge"
	if out.Lookup != "" {
		action = "specialized " + out.Lookup + " lookup and " + action
	}
	tb.Add(trace.StageRetrieval,
		"Collect sources that can answer the question.",
		action,
		fmt.Sprintf("%d sources (knowledge %d, specialized %d, web %d, guide %d), %d external lookups skipped",
			len(out.Sources), out.Knowledge, out.Specialized, out.Web, out.Guide, len(out.Denials)))

	return out
}

func (o *Orchestrator) synthesize(ctx context.Context, tb *trace.Builder, in synthesis.Input) (string, int, string) {
	if o.synth.Available() {
		gen, err := o.synth.Generate(ctx, in)
		if err == nil {
			tb.Add(trace.StageSynthesis,
				"Write the answer from the collected sources.",
				"generative synthesis",
				fmt.Sprintf("validated answer citing %d sources", len(gen.Sources)))
			return gen.Answer, confidenceGenerative, core.PathGenerative
		}
		log.FromCtx(ctx).Warn().Err(err).Msg("generative synthesis failed, composing answer")
	}

	answer := synthesis.Compose(in)
	tb.Add(trace.StageSynthesis,
		"Write the answer from the collected sources.",
		"deterministic composition",
		fmt.Sprintf("composed from %d sources", min(len(in.Sources), 3)))
	return answer, confidenceFallback, core.PathFallback
}

// writeBack caches answers that are backed by at least one source.
func (o *Orchestrator) writeBack(ctx context.Context, tb *trace.Builder, req request, answer string, sources []core.Source, confidence int) {
	if len(sources) == 0 {
		tb.Add(trace.StageCacheWrite,
			"Keep the answer for similar questions.",
			"skip cache store",
			"no sources back this answer")
		return
	}

	entry := o.cache.Store(ctx, req.text, synthesis.StripIntro(answer), synthesis.Labels(sources), confidence, req.fingerprint)
	tb.Add(trace.StageCacheWrite,
		"Keep the answer for similar questions.",
		"similarity cache store",
		"stored entry "+entry.ID)
}

func (o *Orchestrator) fail(ctx context.Context, tb *trace.Builder, req request, cause error) core.Response {
	log.FromCtx(ctx).Error().Err(cause).Msg("pipeline failed")

	tb.Add(trace.StageFailure,
		"The pipeline could not finish this request.",
		"apologize",
		"request aborted")

	satisfaction := failedSatisfaction
	o.learning.UpdateEmotionalMemory(ctx, req.userID, req.text, false, &satisfaction)

	return core.Response{
		Answer:         synthesis.Apology(),
		Confidence:     confidenceFailure,
		Sources:        []core.Source{},
		ReasoningTrace: tb.Steps(),
		FollowUps:      synthesis.ErrorFollowUps(),
		Path:           core.PathFailure,
	}
}

// RegisterCorrection stores a correction and drops cached answers for the
// corrected question so the learned override is served next. A missing
// question or prior response is taken from the session's last exchange.
func (o *Orchestrator) RegisterCorrection(ctx context.Context, req core.CorrectionRequest) (string, error) {
	if (req.Question == "" || req.PriorResponse == "") && req.SessionID != "" {
		snap := o.sessions.Snapshot(ctx, req.SessionID)
		if req.Question == "" {
			req.Question = snap.LastQuestion
		}
		if req.PriorResponse == "" {
			req.PriorResponse = snap.LastAnswer
		}
	}

	id, err := o.learning.RegisterCorrection(ctx, req)
	if err != nil {
		return "", err
	}

	removed := o.cache.Forget(ctx, req.Question)
	log.FromCtx(ctx).Info().
		Str("correction", id).
		Str("session", req.SessionID).
		Int("cache_removed", removed).
		Msg("correction registered")

	return id, nil
}

func (o *Orchestrator) Patterns() []core.LearningPattern {
	return o.learning.Patterns()
}

func (o *Orchestrator) Corrections() []core.CorrectionRecord {
	return o.learning.Corrections()
}

func (o *Orchestrator) MarkVerified(ctx context.Context, correctionID string) error {
	if err := o.learning.MarkVerified(correctionID); err != nil {
		return err
	}
	log.FromCtx(ctx).Info().Str("correction", correctionID).Msg("correction verified")
	return nil
}

// ForgetPattern stops applying a learned override. Learned answers are
// never cached, so the next matching question goes through retrieval.
func (o *Orchestrator) ForgetPattern(ctx context.Context, key string) bool {
	if !o.learning.ForgetPattern(key) {
		return false
	}
	log.FromCtx(ctx).Info().Str("pattern", key).Msg("learned pattern forgotten")
	return true
}

func (o *Orchestrator) CacheStats() core.CacheStats {
	return o.cache.Stats()
}

func (o *Orchestrator) LearningStats() core.LearningStats {
	return o.learning.Stats()
}

func (o *Orchestrator) FetchUsage() core.FetchUsage {
	if o.fetch == nil {
		return core.FetchUsage{}
	}
	return o.fetch.Usage()
}

func nonNil(s []core.Source) []core.Source {
	if s == nil {
		return []core.Source{}
	}
	return s
}
