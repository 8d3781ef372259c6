package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/guata/internal/core"
)

type Router struct {
	commands map[string]core.Command
}

var _ core.CmdRouter = (*Router)(nil)

// New registers commands plus /help.
func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	c.commands["help"] = NewHelpCommand(c.ListCommands)
	return c
}

// Execute runs input when it is a slash command. The session and user of
// req are passed through; Input and Args are filled from req.Input.
func (c *Router) Execute(ctx context.Context, req core.CommandRequest) (string, bool) {
	input := strings.TrimSpace(req.Input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// Telegram appends the bot name in groups: /stats@guata_bot
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s. Try /help.", name), true
	}

	req.Input = strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	req.Args = parts[1:]

	result, err := cmd.Execute(ctx, req)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return result, true
}

// ListCommands returns the registered commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
