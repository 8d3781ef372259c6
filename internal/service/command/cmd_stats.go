package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/guata/internal/core"
)

type StatsCommand struct {
	assistant core.Assistant
	formatter *ResponseFormatter
}

func NewStatsCommand(assistant core.Assistant) *StatsCommand {
	return &StatsCommand{
		assistant: assistant,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Show cache, learning and search usage"
}

func (c *StatsCommand) Execute(ctx context.Context, req core.CommandRequest) (string, error) {
	section := ""
	if len(req.Args) > 0 {
		section = req.Args[0]
	}

	switch section {
	case "":
		return c.formatter.Combine(c.cache(), c.learning(), c.fetch()), nil
	case "cache":
		return c.cache(), nil
	case "learning":
		return c.learning(), nil
	case "fetch", "search":
		return c.fetch(), nil
	default:
		return c.formatter.Combine(
			c.formatter.Usage("/stats [cache|learning|fetch]"),
		), nil
	}
}

func (c *StatsCommand) cache() string {
	s := c.assistant.CacheStats()
	return c.formatter.Combine(
		c.formatter.Info("Answer cache"),
		c.formatter.Label("Entries", fmt.Sprintf("%d / %d", s.TotalEntries, s.Capacity)),
		c.formatter.Label("Hit rate", percent(s.HitRate)),
		c.formatter.Label("Calls saved", strconv.FormatInt(s.APICallsSaved, 10)),
		c.formatter.Label("Evictions", strconv.FormatInt(s.Evictions, 10)),
	)
}

func (c *StatsCommand) learning() string {
	s := c.assistant.LearningStats()
	return c.formatter.Combine(
		c.formatter.Info("Learning"),
		c.formatter.Label("Corrections", strconv.Itoa(s.TotalCorrections)),
		c.formatter.Label("Patterns", strconv.Itoa(s.TotalPatterns)),
		c.formatter.Label("Pattern uses", strconv.Itoa(s.PatternUses)),
		c.formatter.Label("Satisfaction", percent(s.SatisfactionRate)),
	)
}

func (c *StatsCommand) fetch() string {
	s := c.assistant.FetchUsage()
	return c.formatter.Combine(
		c.formatter.Info("Web search budget"),
		c.formatter.Label("Last minute", strconv.Itoa(s.LastMinute)),
		c.formatter.Label("Last hour", strconv.Itoa(s.LastHour)),
		c.formatter.Label("Today", fmt.Sprintf("%d / %d", s.LastDay, s.DailyLimit)),
		c.formatter.Label("Cached queries", strconv.Itoa(s.CachedKeys)),
	)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
