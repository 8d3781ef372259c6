// Package trace records the per-request reasoning steps that explain how
// an answer was produced.
package trace

import (
	"fmt"
	"strings"

	"github.com/sandevgo/guata/internal/core"
)

// Stage labels, one per pipeline stage outcome.
const (
	StageCacheHit   = "cache hit"
	StageCacheMiss  = "cache miss"
	StageLearned    = "learned override"
	StageNoLearning = "no learned pattern"
	StageIntent     = "intent analysis"
	StageRetrieval  = "knowledge retrieval"
	StageSynthesis  = "synthesis"
	StageCacheWrite = "cache write"
	StageFailure    = "failure"
)

// Builder is scoped to a single request and is not safe for concurrent use.
type Builder struct {
	steps []core.ReasoningStep
}

func New() *Builder {
	return &Builder{}
}

// Add appends a step and returns its 1-based index.
func (b *Builder) Add(stage, thought, action, observation string) int {
	b.steps = append(b.steps, core.ReasoningStep{
		Index:       len(b.steps) + 1,
		Stage:       stage,
		Thought:     thought,
		Action:      action,
		Observation: observation,
	})
	return len(b.steps)
}

func (b *Builder) Len() int {
	return len(b.steps)
}

// Last returns the stage of the most recent step.
func (b *Builder) Last() string {
	if len(b.steps) == 0 {
		return ""
	}
	return b.steps[len(b.steps)-1].Stage
}

func (b *Builder) Steps() []core.ReasoningStep {
	out := make([]core.ReasoningStep, len(b.steps))
	copy(out, b.steps)
	return out
}

// Format renders steps as numbered plain-text lines.
func Format(steps []core.ReasoningStep) string {
	var sb strings.Builder
	for _, s := range steps {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", s.Index, s.Stage, s.Thought)
		if s.Action != "" {
			fmt.Fprintf(&sb, "   action: %s\n", s.Action)
		}
		if s.Observation != "" {
			fmt.Fprintf(&sb, "   observed: %s\n", s.Observation)
		}
	}
	return sb.String()
}
