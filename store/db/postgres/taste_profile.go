package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/unv3iled/cortex/store"
)

func (d *DB) UpsertTasteProfile(ctx context.Context, upsert *store.UpsertTasteProfile) (*store.TasteProfile, error) {
	now := time.Now().Unix()

	stmt := `INSERT INTO taste_profile (user_id, vector, cultural_summary, created_ts, updated_ts)
		VALUES (` + placeholders(0, 5) + `)
		ON CONFLICT (user_id) DO UPDATE SET
			vector = EXCLUDED.vector,
			cultural_summary = EXCLUDED.cultural_summary,
			updated_ts = EXCLUDED.updated_ts
		RETURNING user_id, vector, cultural_summary, created_ts, updated_ts`

	result := &store.TasteProfile{}
	err := d.db.QueryRowContext(ctx, stmt, upsert.UserID, upsert.Vector, upsert.CulturalSummary, now, now).Scan(
		&result.UserID,
		&result.Vector,
		&result.CulturalSummary,
		&result.CreatedTs,
		&result.UpdatedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert taste_profile: %w", err)
	}
	return result, nil
}

func (d *DB) GetTasteProfile(ctx context.Context, find *store.FindTasteProfile) (*store.TasteProfile, error) {
	if find.UserID == nil {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `SELECT user_id, vector, cultural_summary, created_ts, updated_ts FROM taste_profile WHERE user_id = ` + placeholder(1)

	result := &store.TasteProfile{}
	err := d.db.QueryRowContext(ctx, query, *find.UserID).Scan(
		&result.UserID,
		&result.Vector,
		&result.CulturalSummary,
		&result.CreatedTs,
		&result.UpdatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get taste_profile: %w", err)
	}
	return result, nil
}

func (d *DB) ListTasteProfiles(ctx context.Context, find *store.FindTasteProfile) ([]*store.TasteProfile, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ExcludeUserID; v != nil {
		where, args = append(where, "user_id != "+placeholder(len(args)+1)), append(args, *v)
		// Absent or empty vectors are not candidates.
		where = append(where, "vector != ''", "vector != '{}'", "vector != 'null'")
	}

	query := `SELECT user_id, vector, cultural_summary, created_ts, updated_ts FROM taste_profile WHERE ` +
		joinAnd(where) + ` ORDER BY user_id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list taste_profiles: %w", err)
	}
	defer rows.Close()

	list := []*store.TasteProfile{}
	for rows.Next() {
		profile := &store.TasteProfile{}
		if err := rows.Scan(
			&profile.UserID,
			&profile.Vector,
			&profile.CulturalSummary,
			&profile.CreatedTs,
			&profile.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan taste_profile: %w", err)
		}
		list = append(list, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
