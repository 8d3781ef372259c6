package installer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errRequired = errors.New("a value is required")

// InputStep reads one free-text value.
type InputStep struct {
	condition
	title    string
	key      string
	input    textinput.Model
	optional bool
	fallback string
	parse    func(string) (string, error)
	err      error
}

func newInputStep(title, key, placeholder string) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder

	return &InputStep{title: title, key: key, input: ti}
}

func (s *InputStep) secret() *InputStep {
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'
	return s
}

// optionalInput lets an empty answer leave the key unset.
func (s *InputStep) optionalInput() *InputStep {
	s.optional = true
	return s
}

// withDefault stores value when the answer is empty.
func (s *InputStep) withDefault(value string) *InputStep {
	s.fallback = value
	return s
}

func (s *InputStep) parsed(parse func(string) (string, error)) *InputStep {
	s.parse = parse
	return s
}

func (s *InputStep) onlyIf(when func(*InstallState) bool) *InputStep {
	s.when = when
	return s
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() != "enter" {
		return s, cmd
	}

	val := strings.TrimSpace(s.input.Value())
	if val == "" {
		switch {
		case s.fallback != "":
			val = s.fallback
		case s.optional:
			return nil, nil
		default:
			s.err = errRequired
			return s, cmd
		}
	}

	if s.parse != nil {
		v, err := s.parse(val)
		if err != nil {
			s.err = err
			return s, cmd
		}
		val = v
	}

	state.EnvVars[s.key] = val
	return nil, nil
}

func (s *InputStep) View(_ *InstallState) string {
	hint := ""
	switch {
	case s.fallback != "":
		hint = fmt.Sprintf(" (default %s)", s.fallback)
	case s.optional:
		hint = " (optional, press enter to skip)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s:\n\n%s\n\n", s.title, hint, s.input.View())
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString("(press enter to confirm)\n")
	return b.String()
}
