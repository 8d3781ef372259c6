package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type option struct {
	label string
	value string
}

// condition makes a step apply only to some earlier answers.
type condition struct {
	when func(*InstallState) bool
}

func (c condition) Skip(state *InstallState) bool {
	return c.when != nil && !c.when(state)
}

// ChoiceStep picks one value from a fixed list.
type ChoiceStep struct {
	condition
	title   string
	key     string
	options []option
	cursor  int
}

func newChoiceStep(title, key string, options ...option) *ChoiceStep {
	return &ChoiceStep{title: title, key: key, options: options}
}

func (s *ChoiceStep) onlyIf(when func(*InstallState) bool) *ChoiceStep {
	s.when = when
	return s
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.options)-1 {
			s.cursor++
		}
	case "enter":
		state.EnvVars[s.key] = s.options[s.cursor].value
		return nil, nil
	}
	return s, nil
}

func (s *ChoiceStep) View(_ *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, o := range s.options {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", o.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", o.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
