package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/unv3iled/cortex/store"
)

const recommendationFields = `id, uid, user_id, user_prompt, category, payload, confidence_score, insights, created_ts`

func (d *DB) CreateRecommendation(ctx context.Context, create *store.Recommendation) (*store.Recommendation, error) {
	stmt := `INSERT INTO recommendation (uid, user_id, user_prompt, category, payload, confidence_score, created_ts)
		VALUES (` + placeholders(0, 7) + `)
		RETURNING ` + recommendationFields

	rec := &store.Recommendation{}
	err := d.db.QueryRowContext(ctx, stmt,
		shortuuid.New(), create.UserID, create.UserPrompt, create.Category,
		create.Payload, create.ConfidenceScore, time.Now().Unix(),
	).Scan(scanRecommendationDest(rec)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation: %w", err)
	}
	return rec, nil
}

func (d *DB) ListRecommendations(ctx context.Context, find *store.FindRecommendation) ([]*store.Recommendation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "category = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT ` + recommendationFields + ` FROM recommendation WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_ts DESC, id DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	list := []*store.Recommendation{}
	for rows.Next() {
		rec := &store.Recommendation{}
		if err := rows.Scan(scanRecommendationDest(rec)...); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateRecommendationInsights attaches insight text to the user's most
// recent recommendation row.
func (d *DB) UpdateRecommendationInsights(ctx context.Context, update *store.UpdateRecommendationInsights) error {
	stmt := `UPDATE recommendation SET insights = ` + placeholder(1) + `
		WHERE id = (SELECT id FROM recommendation WHERE user_id = ` + placeholder(2) + ` ORDER BY created_ts DESC, id DESC LIMIT 1)`
	if _, err := d.db.ExecContext(ctx, stmt, update.Insights, update.UserID); err != nil {
		return fmt.Errorf("failed to update recommendation insights: %w", err)
	}
	return nil
}

func (d *DB) CreateRecommendationFeedback(ctx context.Context, create *store.RecommendationFeedback) (*store.RecommendationFeedback, error) {
	stmt := `INSERT INTO recommendation_feedback (recommendation_id, user_id, feedback_type, feedback_value, notes, created_ts)
		VALUES (` + placeholders(0, 6) + `)
		RETURNING id, recommendation_id, user_id, feedback_type, feedback_value, notes, created_ts`

	feedback := &store.RecommendationFeedback{}
	err := d.db.QueryRowContext(ctx, stmt,
		create.RecommendationID, create.UserID, create.FeedbackType,
		create.FeedbackValue, create.Notes, time.Now().Unix(),
	).Scan(
		&feedback.ID, &feedback.RecommendationID, &feedback.UserID,
		&feedback.FeedbackType, &feedback.FeedbackValue, &feedback.Notes, &feedback.CreatedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation_feedback: %w", err)
	}
	return feedback, nil
}

func (d *DB) ListRecommendationFeedback(ctx context.Context, find *store.FindRecommendationFeedback) ([]*store.RecommendationFeedback, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.RecommendationID; v != nil {
		where, args = append(where, "recommendation_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, recommendation_id, user_id, feedback_type, feedback_value, notes, created_ts
		FROM recommendation_feedback WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation_feedback: %w", err)
	}
	defer rows.Close()

	list := []*store.RecommendationFeedback{}
	for rows.Next() {
		feedback := &store.RecommendationFeedback{}
		if err := rows.Scan(
			&feedback.ID, &feedback.RecommendationID, &feedback.UserID,
			&feedback.FeedbackType, &feedback.FeedbackValue, &feedback.Notes, &feedback.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation_feedback: %w", err)
		}
		list = append(list, feedback)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func scanRecommendationDest(rec *store.Recommendation) []any {
	return []any{
		&rec.ID, &rec.UID, &rec.UserID, &rec.UserPrompt, &rec.Category,
		&rec.Payload, &rec.ConfidenceScore, &rec.Insights, &rec.CreatedTs,
	}
}
