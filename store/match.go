package store

// Match status values. A re-run never moves a match backwards from
// accepted to pending.
const (
	MatchStatusPending  = "pending"
	MatchStatusAccepted = "accepted"
)

// Match represents a discovered taste-twin pair. The (UserA, UserB) pair
// is unordered: the store canonicalizes orientation before writing so a
// run by either side lands on the same row.
type Match struct {
	ID              int32
	UID             string
	UserA           int32
	UserB           int32
	SimilarityScore float64
	Status          string
	CreatedTs       int64
	UpdatedTs       int64
}

// FindMatch specifies the conditions for finding matches.
type FindMatch struct {
	ID     *int32
	UID    *string
	UserID *int32 // matches where the user is on either side
}

// UpsertMatch specifies the data for upserting a match record.
// On insert the status is set to pending; on conflict only the
// similarity score is updated.
type UpsertMatch struct {
	UserA           int32
	UserB           int32
	SimilarityScore float64
}

// UpdateMatch specifies the data for updating a match (status transitions).
type UpdateMatch struct {
	ID     int32
	Status *string
}
