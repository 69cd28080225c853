package store

// TasteProfile represents a user's sparse preference vector plus the
// cultural summary generated by the enrichment pipeline.
type TasteProfile struct {
	UserID          int32
	Vector          string // JSON object: category key -> non-negative weight
	CulturalSummary string
	CreatedTs       int64
	UpdatedTs       int64
}

// FindTasteProfile specifies the conditions for finding taste profiles.
// ExcludeUserID lists every profile except the given user's, skipping
// rows whose vector is empty.
type FindTasteProfile struct {
	UserID        *int32
	ExcludeUserID *int32
}

// UpsertTasteProfile specifies the data for upserting a taste profile.
type UpsertTasteProfile struct {
	UserID          int32
	Vector          string // JSON object
	CulturalSummary string
}
