package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unv3iled/cortex/store"
)

const userFields = `id, uid, email, password_hash, display_name, age, location, bio, avatar_url, spotify_id, spotify_connected, spotify_access_token, spotify_refresh_token, onboarded_ts, created_ts, updated_ts`

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	now := time.Now().Unix()

	stmt := `INSERT INTO user_account (uid, email, password_hash, display_name, age, location, bio, avatar_url, created_ts, updated_ts)
		VALUES (` + placeholders(10) + `)
		RETURNING ` + userFields

	user := &store.User{}
	err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.Email, create.PasswordHash, create.DisplayName,
		create.Age, create.Location, create.Bio, create.AvatarURL, now, now,
	).Scan(scanUserDest(user)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error) {
	set, args := []string{}, []any{}
	if v := update.Email; v != nil {
		set, args = append(set, "email = ?"), append(args, *v)
	}
	if v := update.PasswordHash; v != nil {
		set, args = append(set, "password_hash = ?"), append(args, *v)
	}
	if v := update.DisplayName; v != nil {
		set, args = append(set, "display_name = ?"), append(args, *v)
	}
	if v := update.Age; v != nil {
		set, args = append(set, "age = ?"), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "location = ?"), append(args, *v)
	}
	if v := update.Bio; v != nil {
		set, args = append(set, "bio = ?"), append(args, *v)
	}
	if v := update.AvatarURL; v != nil {
		set, args = append(set, "avatar_url = ?"), append(args, *v)
	}
	if v := update.SpotifyID; v != nil {
		set, args = append(set, "spotify_id = ?"), append(args, *v)
	}
	if v := update.SpotifyConnected; v != nil {
		set, args = append(set, "spotify_connected = ?"), append(args, *v)
	}
	if v := update.SpotifyAccessToken; v != nil {
		set, args = append(set, "spotify_access_token = ?"), append(args, *v)
	}
	if v := update.SpotifyRefreshToken; v != nil {
		set, args = append(set, "spotify_refresh_token = ?"), append(args, *v)
	}
	if v := update.OnboardedTs; v != nil {
		set, args = append(set, "onboarded_ts = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `UPDATE user_account SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING ` + userFields

	user := &store.User{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(scanUserDest(user)...); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}
	if len(find.IDs) > 0 {
		list := []string{}
		for _, id := range find.IDs {
			list = append(list, "?")
			args = append(args, id)
		}
		where = append(where, fmt.Sprintf("id IN (%s)", strings.Join(list, ", ")))
	}

	query := `SELECT ` + userFields + ` FROM user_account WHERE ` + joinAnd(where) + ` ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	list := []*store.User{}
	for rows.Next() {
		user := &store.User{}
		if err := rows.Scan(scanUserDest(user)...); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteUser(ctx context.Context, delete *store.DeleteUser) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM user_account WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func scanUserDest(user *store.User) []any {
	return []any{
		&user.ID, &user.UID, &user.Email, &user.PasswordHash, &user.DisplayName,
		&user.Age, &user.Location, &user.Bio, &user.AvatarURL,
		&user.SpotifyID, &user.SpotifyConnected, &user.SpotifyAccessToken, &user.SpotifyRefreshToken,
		&user.OnboardedTs, &user.CreatedTs, &user.UpdatedTs,
	}
}
