package store

import (
	"context"
	"fmt"
	"time"

	"github.com/unv3iled/cortex/internal/profile"
	"github.com/unv3iled/cortex/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	userCache *cache.Cache // cache for users
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	store := &Store{
		driver:      driver,
		profile:     profile,
		cacheConfig: cacheConfig,
		userCache:   cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.userCache.Close()

	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns a single user or nil when not found.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil {
		if cached, ok := s.userCache.Get(userCacheKey(*find.ID)); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	user := users[0]
	s.userCache.Set(userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}
	s.userCache.Delete(userCacheKey(delete.ID))
	return nil
}

func (s *Store) UpsertTasteProfile(ctx context.Context, upsert *UpsertTasteProfile) (*TasteProfile, error) {
	return s.driver.UpsertTasteProfile(ctx, upsert)
}

func (s *Store) GetTasteProfile(ctx context.Context, find *FindTasteProfile) (*TasteProfile, error) {
	return s.driver.GetTasteProfile(ctx, find)
}

func (s *Store) ListTasteProfiles(ctx context.Context, find *FindTasteProfile) ([]*TasteProfile, error) {
	return s.driver.ListTasteProfiles(ctx, find)
}

// UpsertMatch canonicalizes the pair orientation before delegating so the
// unordered-pair invariant holds regardless of which side triggered the run.
func (s *Store) UpsertMatch(ctx context.Context, upsert *UpsertMatch) (*Match, error) {
	if upsert.UserA > upsert.UserB {
		upsert.UserA, upsert.UserB = upsert.UserB, upsert.UserA
	}
	return s.driver.UpsertMatch(ctx, upsert)
}

func (s *Store) ListMatches(ctx context.Context, find *FindMatch) ([]*Match, error) {
	return s.driver.ListMatches(ctx, find)
}

func (s *Store) UpdateMatch(ctx context.Context, update *UpdateMatch) (*Match, error) {
	return s.driver.UpdateMatch(ctx, update)
}

func (s *Store) CreateRecommendation(ctx context.Context, create *Recommendation) (*Recommendation, error) {
	return s.driver.CreateRecommendation(ctx, create)
}

func (s *Store) ListRecommendations(ctx context.Context, find *FindRecommendation) ([]*Recommendation, error) {
	return s.driver.ListRecommendations(ctx, find)
}

func (s *Store) UpdateRecommendationInsights(ctx context.Context, update *UpdateRecommendationInsights) error {
	return s.driver.UpdateRecommendationInsights(ctx, update)
}

func (s *Store) CreateRecommendationFeedback(ctx context.Context, create *RecommendationFeedback) (*RecommendationFeedback, error) {
	return s.driver.CreateRecommendationFeedback(ctx, create)
}

func (s *Store) ListRecommendationFeedback(ctx context.Context, find *FindRecommendationFeedback) ([]*RecommendationFeedback, error) {
	return s.driver.ListRecommendationFeedback(ctx, find)
}

func (s *Store) UpsertSpotifySnapshot(ctx context.Context, upsert *UpsertSpotifySnapshot) (*SpotifySnapshot, error) {
	return s.driver.UpsertSpotifySnapshot(ctx, upsert)
}

func (s *Store) ListSpotifySnapshots(ctx context.Context, find *FindSpotifySnapshot) ([]*SpotifySnapshot, error) {
	return s.driver.ListSpotifySnapshots(ctx, find)
}

func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	return s.driver.CreateConversation(ctx, create)
}

func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

func (s *Store) UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error) {
	return s.driver.UpdateConversation(ctx, update)
}

func (s *Store) DeleteConversation(ctx context.Context, delete *DeleteConversation) error {
	return s.driver.DeleteConversation(ctx, delete)
}

func (s *Store) CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error) {
	return s.driver.CreateConversationMessage(ctx, create)
}

func (s *Store) ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error) {
	return s.driver.ListConversationMessages(ctx, find)
}

func userCacheKey(id int32) string {
	return fmt.Sprintf("user:%d", id)
}
