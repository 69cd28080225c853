package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unv3iled/cortex/store"
)

type createConversationRequest struct {
	Title string `json:"title"`
}

// CreateConversation starts a new companion conversation.
func (s *APIV1Service) CreateConversation(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	request := &createConversationRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	if request.Title == "" {
		request.Title = "New conversation"
	}

	conversation, err := s.Store.CreateConversation(ctx, &store.Conversation{
		UserID: userID,
		Title:  request.Title,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to create conversation")
	}
	return c.JSON(http.StatusOK, conversation)
}

// ListConversations returns the user's conversations, most recent first.
func (s *APIV1Service) ListConversations(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	conversations, err := s.Store.ListConversations(ctx, &store.FindConversation{UserID: &userID})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to list conversations")
	}
	return c.JSON(http.StatusOK, conversations)
}

// DeleteConversation removes a conversation and its messages.
func (s *APIV1Service) DeleteConversation(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	conversation, err := s.findOwnedConversation(c, userID)
	if err != nil || conversation == nil {
		return err
	}
	if err := s.Store.DeleteConversation(ctx, &store.DeleteConversation{ID: conversation.ID}); err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to delete conversation")
	}
	return c.NoContent(http.StatusNoContent)
}

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreateConversationMessage appends a message to a conversation.
func (s *APIV1Service) CreateConversationMessage(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	conversation, err := s.findOwnedConversation(c, userID)
	if err != nil || conversation == nil {
		return err
	}

	request := &createMessageRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	if request.Content == "" {
		return replyError(c, http.StatusBadRequest, "content is required")
	}
	switch request.Role {
	case "user", "assistant":
	default:
		return replyError(c, http.StatusBadRequest, "unsupported role")
	}

	message, err := s.Store.CreateConversationMessage(ctx, &store.ConversationMessage{
		ConversationID: conversation.ID,
		Role:           request.Role,
		Content:        request.Content,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to store message")
	}
	return c.JSON(http.StatusOK, message)
}

// ListConversationMessages returns a conversation's messages in order.
func (s *APIV1Service) ListConversationMessages(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	conversation, err := s.findOwnedConversation(c, userID)
	if err != nil || conversation == nil {
		return err
	}

	messages, err := s.Store.ListConversationMessages(ctx, &store.FindConversationMessage{
		ConversationID: &conversation.ID,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, "failed to list messages")
	}
	return c.JSON(http.StatusOK, messages)
}

// findOwnedConversation resolves :uid and enforces ownership. On failure it
// writes the response and returns (nil, err-from-reply).
func (s *APIV1Service) findOwnedConversation(c echo.Context, userID int32) (*store.Conversation, error) {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	conversations, err := s.Store.ListConversations(ctx, &store.FindConversation{UID: &uid})
	if err != nil {
		return nil, replyError(c, http.StatusInternalServerError, "failed to get conversation")
	}
	if len(conversations) == 0 || conversations[0].UserID != userID {
		return nil, replyError(c, http.StatusNotFound, "conversation not found")
	}
	return conversations[0], nil
}
