package store

// Conversation represents an assistant chat thread.
type Conversation struct {
	ID             int32
	UID            string
	UserID         int32
	Title          string
	ContextSummary string
	CreatedTs      int64
	UpdatedTs      int64
}

// FindConversation specifies the conditions for finding conversations.
type FindConversation struct {
	ID     *int32
	UID    *string
	UserID *int32
}

// UpdateConversation specifies the data for updating a conversation.
type UpdateConversation struct {
	ID             int32
	Title          *string
	ContextSummary *string
}

// DeleteConversation specifies the conversation to delete.
type DeleteConversation struct {
	ID int32
}

// ConversationMessage represents one message in a conversation.
type ConversationMessage struct {
	ID             int32
	ConversationID int32
	Role           string // user or assistant
	Content        string
	CreatedTs      int64
}

// FindConversationMessage specifies the conditions for finding messages.
type FindConversationMessage struct {
	ConversationID *int32
}
