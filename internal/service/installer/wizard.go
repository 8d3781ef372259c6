// Package installer is the interactive setup that writes <runtime>/.env.
package installer

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandevgo/guata/internal/service/ui"
)

var (
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var ErrInterrupted = errors.New("installation interrupted")

// Step is one screen of the wizard. Update returns nil once the step has
// its answer.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd)
	View(state *InstallState) string
}

type skipper interface {
	Skip(state *InstallState) bool
}

type Options struct {
	RuntimePath string
	Overwrite   bool
}

type model struct {
	steps    []Step
	current  int
	state    *InstallState
	opts     Options
	envPath  string
	quitting bool
	err      error
}

func newModel(steps []Step, opts Options) model {
	m := model{
		steps: steps,
		state: NewInstallState(),
		opts:  opts,
	}
	m.current = m.nextStep(0)
	return m
}

// nextStep returns the first step at or after i that applies to the
// answers so far.
func (m model) nextStep(i int) int {
	for i < len(m.steps) {
		if s, ok := m.steps[i].(skipper); !ok || !s.Skip(m.state) {
			return i
		}
		i++
	}
	return i
}

func (m model) Init() tea.Cmd {
	if m.current < len(m.steps) {
		return m.steps[m.current].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.quitting || m.current >= len(m.steps) {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.current].Update(msg, m.state)
	if next != nil {
		m.steps[m.current] = next
		return m, cmd
	}

	m.current = m.nextStep(m.current + 1)
	if m.current < len(m.steps) {
		return m, m.steps[m.current].Init()
	}

	Finalize(m.state)
	m.envPath, m.err = SaveEnv(m.opts.RuntimePath, m.state.EnvVars, m.opts.Overwrite)
	return m, tea.Quit
}

func (m model) View() string {
	if m.quitting {
		return "Installation cancelled.\n"
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	if m.current >= len(m.steps) {
		return fmt.Sprintf("Configuration saved to %s\n", m.envPath)
	}
	return ui.TitleStyle.Render("Setting up Guatá") + "\n" + m.steps[m.current].View(m.state)
}

// RunWizard asks for the settings and writes them to <runtime>/.env. It
// returns the path written.
func RunWizard(opts Options) (string, error) {
	if !opts.Overwrite {
		if _, err := os.Stat(EnvPath(opts.RuntimePath)); err == nil {
			return "", fmt.Errorf("%w at %s, use --force to replace it", ErrEnvExists, EnvPath(opts.RuntimePath))
		}
	}

	p := tea.NewProgram(newModel(getSteps(), opts), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return "", err
	}

	final := m.(model)
	if final.quitting {
		return "", ErrInterrupted
	}
	if final.err != nil {
		return "", final.err
	}
	return final.envPath, nil
}
