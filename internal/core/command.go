package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, req CommandRequest) (string, bool)
	ListCommands() []Command
}

type CommandRequest struct {
	SessionID string
	UserID    string
	// Input is the raw text after the command name.
	Input string
	Args  []string
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, req CommandRequest) (string, error)
}
