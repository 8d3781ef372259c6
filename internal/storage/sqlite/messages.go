package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (h *MessagesRepo) AddMessage(ctx context.Context, sessionID string, msg core.Message) error {
	query := `INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)`
	if _, err := h.db.ExecContext(ctx, query, sessionID, msg.Role, msg.Content); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (h *MessagesRepo) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	// Fetch the LAST 'limit' messages by ordering DESC
	query := `SELECT role, content FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		var content sql.NullString
		if err := rows.Scan(&msg.Role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Content = content.String
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Back to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}

// DeleteSession drops the stored history of one session.
func (h *MessagesRepo) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
