package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/guata/internal/core"
)

// CorrectCommand registers a correction for the last answer of the session.
type CorrectCommand struct {
	assistant core.Assistant
	formatter *ResponseFormatter
}

func NewCorrectCommand(assistant core.Assistant) *CorrectCommand {
	return &CorrectCommand{
		assistant: assistant,
		formatter: NewResponseFormatter(),
	}
}

func (c *CorrectCommand) Name() string {
	return "correct"
}

func (c *CorrectCommand) Description() string {
	return "Correct the last answer"
}

func (c *CorrectCommand) Execute(ctx context.Context, req core.CommandRequest) (string, error) {
	if req.Input == "" {
		return c.formatter.Combine(
			c.formatter.Info("Correct the last answer"),
			c.formatter.Usage("/correct <what the right answer is>"),
			c.formatter.Examples([]string{
				"/correct the Bioparque is closed on Mondays",
				"/correct the correct hotel is Hotel Jandaia",
			}),
		), nil
	}

	id, err := c.assistant.RegisterCorrection(ctx, core.CorrectionRequest{
		UserID:     req.UserID,
		SessionID:  req.SessionID,
		Correction: req.Input,
	})
	if errors.Is(err, core.ErrMalformedCorrection) {
		return c.formatter.Error("correct", err), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to register correction: %w", err)
	}

	return c.formatter.Combine(
		c.formatter.Success("Thanks, I will remember that"),
		c.formatter.Label("Correction", id),
	), nil
}
