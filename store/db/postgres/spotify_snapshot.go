package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unv3iled/cortex/store"
)

func (d *DB) UpsertSpotifySnapshot(ctx context.Context, upsert *store.UpsertSpotifySnapshot) (*store.SpotifySnapshot, error) {
	stmt := `INSERT INTO spotify_snapshot (user_id, data_type, name, payload, last_synced_ts)
		VALUES (` + placeholders(0, 5) + `)
		ON CONFLICT (user_id, data_type) DO UPDATE SET
			name = EXCLUDED.name,
			payload = EXCLUDED.payload,
			last_synced_ts = EXCLUDED.last_synced_ts
		RETURNING id, user_id, data_type, name, payload, last_synced_ts`

	snapshot := &store.SpotifySnapshot{}
	err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID, upsert.DataType, upsert.Name, upsert.Payload, time.Now().Unix(),
	).Scan(
		&snapshot.ID, &snapshot.UserID, &snapshot.DataType,
		&snapshot.Name, &snapshot.Payload, &snapshot.LastSyncedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert spotify_snapshot: %w", err)
	}
	return snapshot, nil
}

func (d *DB) ListSpotifySnapshots(ctx context.Context, find *store.FindSpotifySnapshot) ([]*store.SpotifySnapshot, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DataType; v != nil {
		where, args = append(where, "data_type = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, user_id, data_type, name, payload, last_synced_ts FROM spotify_snapshot WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY data_type`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list spotify_snapshots: %w", err)
	}
	defer rows.Close()

	list := []*store.SpotifySnapshot{}
	for rows.Next() {
		snapshot := &store.SpotifySnapshot{}
		if err := rows.Scan(
			&snapshot.ID, &snapshot.UserID, &snapshot.DataType,
			&snapshot.Name, &snapshot.Payload, &snapshot.LastSyncedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan spotify_snapshot: %w", err)
		}
		list = append(list, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
