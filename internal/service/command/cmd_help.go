package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/guata/internal/core"
)

type HelpCommand struct {
	list      func() []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(list func() []core.Command) *HelpCommand {
	return &HelpCommand{list: list, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List commands"
}

func (c *HelpCommand) Execute(ctx context.Context, req core.CommandRequest) (string, error) {
	var items []string
	for _, cmd := range c.list() {
		items = append(items, fmt.Sprintf("**/%s** %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("Ask anything about travel in Mato Grosso do Sul"),
	), nil
}
