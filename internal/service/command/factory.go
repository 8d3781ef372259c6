package command

import (
	"github.com/sandevgo/guata/internal/core"
)

func NewCommands(assistant core.Assistant) []core.Command {
	return []core.Command{
		NewCorrectCommand(assistant),
		NewStatsCommand(assistant),
	}
}
