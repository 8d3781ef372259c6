package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func runWizard(dir string, msgs ...tea.Msg) model {
	var m tea.Model = newModel(getSteps(), Options{RuntimePath: dir})
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m.(model)
}

func currentKey(t *testing.T, m model) string {
	t.Helper()
	require.Less(t, m.current, len(m.steps))
	switch s := m.steps[m.current].(type) {
	case *InputStep:
		return s.key
	case *ChoiceStep:
		return s.key
	}
	t.Fatalf("unexpected step %T", m.steps[m.current])
	return ""
}

func TestWizard_WritesEnv(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want map[string]string
	}{
		{
			name: "sqlite, openai and google search",
			keys: []tea.Msg{
				enter,
				down, enter,
				typed("sk-test"), enter,
				typed("gpt-4o-mini"), enter,
				enter,
				typed("AIza-test"), enter,
				typed("cx-1"), enter,
				enter,
			},
			want: map[string]string{
				"GUATA_STORAGE":           "sqlite",
				"GUATA_LLM_PROVIDER":      "openai",
				"OPENAI_API_KEY":          "sk-test",
				"GUATA_LLM_MODEL":         "gpt-4o-mini",
				"GOOGLE_SEARCH_API_KEY":   "AIza-test",
				"GOOGLE_SEARCH_ENGINE_ID": "cx-1",
				"ENABLE_TELEGRAM":         "false",
				"ENABLE_HTTP":             "true",
			},
		},
		{
			name: "redis, ollama, mcp search and telegram",
			keys: []tea.Msg{
				down, enter,
				enter,
				enter,
				down, down, down, down, enter,
				enter,
				typed("llama3.1"), enter,
				down, enter,
				typed("http://localhost:8080/mcp"), enter,
				enter,
				typed("123456:ABC"), enter,
				typed("42, 43"), enter,
			},
			want: map[string]string{
				"GUATA_STORAGE":          "redis",
				"REDIS_ADDR":             "localhost:6379",
				"GUATA_LLM_PROVIDER":     "ollama",
				"OLLAMA_BASE_URL":        "http://localhost:11434",
				"GUATA_LLM_MODEL":        "llama3.1",
				"SEARCH_MCP_URL":         "http://localhost:8080/mcp",
				"SEARCH_MCP_TOOL":        "web_search",
				"TELEGRAM_TOKEN":         "123456:ABC",
				"TELEGRAM_ALLOWED_USERS": "42,43",
				"ENABLE_TELEGRAM":        "true",
				"ENABLE_HTTP":            "true",
			},
		},
		{
			name: "memory, composer only and offline guide",
			keys: []tea.Msg{
				down, down, enter,
				enter,
				down, down, enter,
				enter,
			},
			want: map[string]string{
				"GUATA_STORAGE":      "memory",
				"GUATA_LLM_PROVIDER": "none",
				"ENABLE_TELEGRAM":    "false",
				"ENABLE_HTTP":        "true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			m := runWizard(dir, tt.keys...)
			require.NoError(t, m.err)
			require.Equal(t, len(m.steps), m.current)
			assert.Equal(t, EnvPath(dir), m.envPath)

			got, err := godotenv.Read(m.envPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWizard_RequiredInputBlocks(t *testing.T) {
	m := runWizard(t.TempDir(), enter, down, down, enter, enter)

	assert.Equal(t, "ANTHROPIC_API_KEY", currentKey(t, m))
	assert.Contains(t, m.View(), errRequired.Error())
	assert.NotContains(t, m.state.EnvVars, "ANTHROPIC_API_KEY")
}

func TestWizard_RejectsBadURL(t *testing.T) {
	m := runWizard(t.TempDir(), enter, down, down, down, down, down, enter, typed("api.example.com"), enter)

	assert.Equal(t, "CUSTOM_OPENAI_BASE_URL", currentKey(t, m))
	assert.Contains(t, m.View(), "is not an http(s) URL")
}

func TestWizard_CtrlCWritesNothing(t *testing.T) {
	dir := t.TempDir()

	m := runWizard(dir, enter, ctrlC)

	assert.True(t, m.quitting)
	assert.Equal(t, "Installation cancelled.\n", m.View())
	assert.NoFileExists(t, EnvPath(dir))
}

func TestParseUserIDs(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "42", want: "42"},
		{input: " 42 , 43,, ", want: "42,43"},
		{input: "42,@guata", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseUserIDs(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinalize(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keySearch] = searchNone
	state.EnvVars["TELEGRAM_TOKEN"] = "123456:ABC"
	state.EnvVars["REDIS_PASSWORD"] = ""

	Finalize(state)

	assert.Equal(t, map[string]string{
		"TELEGRAM_TOKEN":  "123456:ABC",
		"ENABLE_TELEGRAM": "true",
		"ENABLE_HTTP":     "true",
	}, state.EnvVars)
}

func TestSaveEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runtime")
	vars := map[string]string{"GUATA_STORAGE": "sqlite"}

	path, err := SaveEnv(dir, vars, false)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = SaveEnv(dir, map[string]string{"GUATA_STORAGE": "redis"}, false)
	assert.ErrorIs(t, err, ErrEnvExists)

	_, err = SaveEnv(dir, map[string]string{"GUATA_STORAGE": "redis"}, true)
	require.NoError(t, err)

	got, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", got["GUATA_STORAGE"])
}
