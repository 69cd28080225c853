package store

// Recommendation represents one cross-domain recommendation item
// returned by the recommendation provider and persisted per row.
type Recommendation struct {
	ID              int32
	UID             string
	UserID          int32
	UserPrompt      string
	Category        string
	Payload         string // JSON: the transformed provider item
	ConfidenceScore float64
	Insights        string // AI-generated commentary, attached after the fact
	CreatedTs       int64
}

// FindRecommendation specifies the conditions for finding recommendations.
type FindRecommendation struct {
	UserID   *int32
	Category *string
	Limit    *int
}

// UpdateRecommendationInsights attaches insight text to a user's most
// recent recommendation.
type UpdateRecommendationInsights struct {
	UserID   int32
	Insights string
}

// RecommendationFeedback represents explicit user feedback on a
// recommendation (like, dismiss, rating).
type RecommendationFeedback struct {
	ID               int32
	RecommendationID int32
	UserID           int32
	FeedbackType     string
	FeedbackValue    *int32
	Notes            string
	CreatedTs        int64
}

// FindRecommendationFeedback specifies the conditions for finding feedback.
type FindRecommendationFeedback struct {
	RecommendationID *int32
	UserID           *int32
}
