package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)
	Migrate(ctx context.Context) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// TasteProfile model related methods.
	UpsertTasteProfile(ctx context.Context, upsert *UpsertTasteProfile) (*TasteProfile, error)
	GetTasteProfile(ctx context.Context, find *FindTasteProfile) (*TasteProfile, error)
	ListTasteProfiles(ctx context.Context, find *FindTasteProfile) ([]*TasteProfile, error)

	// Match model related methods. UpsertMatch expects a canonicalized
	// pair (UserA < UserB) and must never overwrite status on conflict.
	UpsertMatch(ctx context.Context, upsert *UpsertMatch) (*Match, error)
	ListMatches(ctx context.Context, find *FindMatch) ([]*Match, error)
	UpdateMatch(ctx context.Context, update *UpdateMatch) (*Match, error)

	// Recommendation model related methods.
	CreateRecommendation(ctx context.Context, create *Recommendation) (*Recommendation, error)
	ListRecommendations(ctx context.Context, find *FindRecommendation) ([]*Recommendation, error)
	UpdateRecommendationInsights(ctx context.Context, update *UpdateRecommendationInsights) error

	// RecommendationFeedback model related methods.
	CreateRecommendationFeedback(ctx context.Context, create *RecommendationFeedback) (*RecommendationFeedback, error)
	ListRecommendationFeedback(ctx context.Context, find *FindRecommendationFeedback) ([]*RecommendationFeedback, error)

	// SpotifySnapshot model related methods.
	UpsertSpotifySnapshot(ctx context.Context, upsert *UpsertSpotifySnapshot) (*SpotifySnapshot, error)
	ListSpotifySnapshots(ctx context.Context, find *FindSpotifySnapshot) ([]*SpotifySnapshot, error)

	// Conversation model related methods.
	CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error)
	ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error)
	UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error)
	DeleteConversation(ctx context.Context, delete *DeleteConversation) error

	// ConversationMessage model related methods.
	CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error)
	ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error)
}
