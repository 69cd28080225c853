package store

// User represents a registered account with its profile display fields.
type User struct {
	ID           int32
	UID          string
	Email        string
	PasswordHash string
	DisplayName  string
	Age          *int32
	Location     string
	Bio          string
	AvatarURL    string

	// Spotify link state. Tokens are stored on the user row so the sync
	// runner can refresh them without a separate credentials table.
	SpotifyID           string
	SpotifyConnected    bool
	SpotifyAccessToken  string
	SpotifyRefreshToken string

	OnboardedTs *int64
	CreatedTs   int64
	UpdatedTs   int64
}

// FindUser specifies the conditions for finding users.
type FindUser struct {
	ID    *int32
	UID   *string
	Email *string
	IDs   []int32
}

// UpdateUser specifies the data for updating a user.
type UpdateUser struct {
	ID                  int32
	Email               *string
	PasswordHash        *string
	DisplayName         *string
	Age                 *int32
	Location            *string
	Bio                 *string
	AvatarURL           *string
	SpotifyID           *string
	SpotifyConnected    *bool
	SpotifyAccessToken  *string
	SpotifyRefreshToken *string
	OnboardedTs         *int64
}

// DeleteUser specifies the user to delete.
type DeleteUser struct {
	ID int32
}
