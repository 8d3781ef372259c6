package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	b := New()
	assert.Equal(t, "", b.Last())

	assert.Equal(t, 1, b.Add(StageCacheMiss, "no cached answer", "lookup", "miss"))
	assert.Equal(t, 2, b.Add(StageIntent, "classify", "", ""))

	steps := b.Steps()
	assert.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Index)
	assert.Equal(t, StageIntent, b.Last())

	steps[0].Stage = "mutated"
	assert.Equal(t, StageCacheMiss, b.Steps()[0].Stage)
}

func TestFormat(t *testing.T) {
	b := New()
	b.Add(StageCacheHit, "answer found in cache", "lookup", "similarity 1.00")
	b.Add(StageSynthesis, "compose", "", "")

	want := "1. [cache hit] answer found in cache\n" +
		"   action: lookup\n" +
		"   observed: similarity 1.00\n" +
		"2. [synthesis] compose\n"
	assert.Equal(t, want, Format(b.Steps()))
}
