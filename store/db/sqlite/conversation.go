package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/unv3iled/cortex/store"
)

const conversationFields = `id, uid, user_id, title, context_summary, created_ts, updated_ts`

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	now := time.Now().Unix()

	stmt := `INSERT INTO conversation (uid, user_id, title, context_summary, created_ts, updated_ts)
		VALUES (` + placeholders(6) + `)
		RETURNING ` + conversationFields

	conversation := &store.Conversation{}
	err := d.db.QueryRowContext(ctx, stmt,
		shortuuid.New(), create.UserID, create.Title, create.ContextSummary, now, now,
	).Scan(scanConversationDest(conversation)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}

	query := `SELECT ` + conversationFields + ` FROM conversation WHERE ` + joinAnd(where) +
		` ORDER BY updated_ts DESC, id DESC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	list := []*store.Conversation{}
	for rows.Next() {
		conversation := &store.Conversation{}
		if err := rows.Scan(scanConversationDest(conversation)...); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		list = append(list, conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	set, args := []string{}, []any{}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.ContextSummary; v != nil {
		set, args = append(set, "context_summary = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `UPDATE conversation SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING ` + conversationFields

	conversation := &store.Conversation{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(scanConversationDest(conversation)...); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}
	return conversation, nil
}

func (d *DB) DeleteConversation(ctx context.Context, delete *store.DeleteConversation) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM conversation WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func (d *DB) CreateConversationMessage(ctx context.Context, create *store.ConversationMessage) (*store.ConversationMessage, error) {
	stmt := `INSERT INTO conversation_message (conversation_id, role, content, created_ts)
		VALUES (` + placeholders(4) + `)
		RETURNING id, conversation_id, role, content, created_ts`

	message := &store.ConversationMessage{}
	err := d.db.QueryRowContext(ctx, stmt,
		create.ConversationID, create.Role, create.Content, time.Now().Unix(),
	).Scan(
		&message.ID, &message.ConversationID, &message.Role, &message.Content, &message.CreatedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation_message: %w", err)
	}
	return message, nil
}

func (d *DB) ListConversationMessages(ctx context.Context, find *store.FindConversationMessage) ([]*store.ConversationMessage, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ConversationID; v != nil {
		where, args = append(where, "conversation_id = ?"), append(args, *v)
	}

	query := `SELECT id, conversation_id, role, content, created_ts FROM conversation_message WHERE ` +
		joinAnd(where) + ` ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation_messages: %w", err)
	}
	defer rows.Close()

	list := []*store.ConversationMessage{}
	for rows.Next() {
		message := &store.ConversationMessage{}
		if err := rows.Scan(
			&message.ID, &message.ConversationID, &message.Role, &message.Content, &message.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation_message: %w", err)
		}
		list = append(list, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func scanConversationDest(conversation *store.Conversation) []any {
	return []any{
		&conversation.ID, &conversation.UID, &conversation.UserID,
		&conversation.Title, &conversation.ContextSummary,
		&conversation.CreatedTs, &conversation.UpdatedTs,
	}
}
