// Package session tracks per-conversation context: recent messages, the
// current topic and the last exchange.
package session

import (
	"context"
	"sync"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

const memoryHistoryLimit = 50

type State struct {
	ID           string
	Topic        string
	LastQuestion string
	LastAnswer   string
	LastPath     string
	Turns        int
}

type Snapshot struct {
	State
	History []core.Message
	First   bool
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*State
	history  map[string][]core.Message

	repo   core.MessagesRepository
	window int
}

// NewManager keeps history in repo when given, in memory otherwise.
// window is the number of messages returned with a snapshot.
func NewManager(repo core.MessagesRepository, window int) *Manager {
	return &Manager{
		sessions: make(map[string]*State),
		history:  make(map[string][]core.Message),
		repo:     repo,
		window:   window,
	}
}

func (m *Manager) Snapshot(ctx context.Context, id string) Snapshot {
	m.mu.Lock()
	st := State{ID: id}
	if s, ok := m.sessions[id]; ok {
		st = *s
	}
	var history []core.Message
	if m.repo == nil {
		h := m.history[id]
		if len(h) > m.window {
			h = h[len(h)-m.window:]
		}
		history = append(history, h...)
	}
	m.mu.Unlock()

	if m.repo != nil {
		msgs, err := m.repo.GetMessages(ctx, id, m.window)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("session", id).Msg("failed to load session history")
		}
		history = msgs
	}

	return Snapshot{
		State:   st,
		History: history,
		First:   st.Turns == 0 && len(history) == 0,
	}
}

// Record stores one exchange. An empty topic keeps the current one.
func (m *Manager) Record(ctx context.Context, id, question, answer, topic, path string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = &State{ID: id}
		m.sessions[id] = s
	}
	if topic != "" && topic != core.TopicGeneral {
		s.Topic = topic
	}
	s.LastQuestion = question
	s.LastAnswer = answer
	s.LastPath = path
	s.Turns++

	if m.repo == nil {
		h := append(m.history[id],
			core.Message{Role: core.RoleUser, Content: question},
			core.Message{Role: core.RoleAssistant, Content: answer},
		)
		if len(h) > memoryHistoryLimit {
			h = h[len(h)-memoryHistoryLimit:]
		}
		m.history[id] = h
	}
	m.mu.Unlock()

	if m.repo == nil {
		return
	}
	for _, msg := range []core.Message{
		{Role: core.RoleUser, Content: question},
		{Role: core.RoleAssistant, Content: answer},
	} {
		if err := m.repo.AddMessage(ctx, id, msg); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("session", id).Msg("failed to save session message")
			return
		}
	}
}
