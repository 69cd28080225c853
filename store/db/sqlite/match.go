package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/unv3iled/cortex/store"
)

const matchFields = `id, uid, user_a, user_b, similarity_score, status, created_ts, updated_ts`

// UpsertMatch inserts or rescores a match row. The unique (user_a, user_b)
// index resolves concurrent runs from both sides of a pair: last writer
// wins on the score, status is only ever set at insert time.
func (d *DB) UpsertMatch(ctx context.Context, upsert *store.UpsertMatch) (*store.Match, error) {
	now := time.Now().Unix()

	stmt := `INSERT INTO taste_match (uid, user_a, user_b, similarity_score, status, created_ts, updated_ts)
		VALUES (` + placeholders(7) + `)
		ON CONFLICT (user_a, user_b) DO UPDATE SET
			similarity_score = excluded.similarity_score,
			updated_ts = excluded.updated_ts
		RETURNING ` + matchFields

	match := &store.Match{}
	err := d.db.QueryRowContext(ctx, stmt,
		shortuuid.New(), upsert.UserA, upsert.UserB, upsert.SimilarityScore, store.MatchStatusPending, now, now,
	).Scan(scanMatchDest(match)...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert taste_match: %w", err)
	}
	return match, nil
}

func (d *DB) ListMatches(ctx context.Context, find *store.FindMatch) ([]*store.Match, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where = append(where, "(user_a = ? OR user_b = ?)")
		args = append(args, *v, *v)
	}

	query := `SELECT ` + matchFields + ` FROM taste_match WHERE ` + joinAnd(where) +
		` ORDER BY similarity_score DESC, id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list taste_matches: %w", err)
	}
	defer rows.Close()

	list := []*store.Match{}
	for rows.Next() {
		match := &store.Match{}
		if err := rows.Scan(scanMatchDest(match)...); err != nil {
			return nil, fmt.Errorf("failed to scan taste_match: %w", err)
		}
		list = append(list, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateMatch(ctx context.Context, update *store.UpdateMatch) (*store.Match, error) {
	set, args := []string{}, []any{}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `UPDATE taste_match SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING ` + matchFields

	match := &store.Match{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(scanMatchDest(match)...); err != nil {
		return nil, fmt.Errorf("failed to update taste_match: %w", err)
	}
	return match, nil
}

func scanMatchDest(match *store.Match) []any {
	return []any{
		&match.ID, &match.UID, &match.UserA, &match.UserB,
		&match.SimilarityScore, &match.Status, &match.CreatedTs, &match.UpdatedTs,
	}
}
