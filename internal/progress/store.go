package progress

import (
	"database/sql"
	"fmt"

	"github.com/certprep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordInteraction inserts one interaction. A duplicate
// (user, content, occurred_at) key folds into the existing row: time
// spent accumulates, score and kind are overwritten. Returns whether
// the event merged into a prior record.
func (s *Store) RecordInteraction(rec models.InteractionRecord) (bool, error) {
	var inserted bool
	err := s.db.QueryRow(
		`INSERT INTO user_progress (user_id, content_id, progress_kind, score, time_spent_seconds, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, content_id, occurred_at) DO UPDATE SET
			progress_kind      = EXCLUDED.progress_kind,
			score              = EXCLUDED.score,
			time_spent_seconds = user_progress.time_spent_seconds + EXCLUDED.time_spent_seconds
		 RETURNING (xmax = 0)`,
		rec.UserID, rec.ContentID, rec.ProgressKind, nullableScore(rec.Score),
		rec.TimeSpentSeconds, rec.Timestamp,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("record interaction: %w", err)
	}
	return !inserted, nil
}

// GetInteractions returns a user's records in chronological order. A
// non-empty certification joins the catalog so only interactions with
// content for that certification are returned.
func (s *Store) GetInteractions(userID, certification string) ([]models.InteractionRecord, error) {
	query := `
		SELECT p.user_id, p.content_id, p.progress_kind, p.score, p.time_spent_seconds, p.occurred_at
		FROM user_progress p`
	args := []interface{}{userID}
	if certification != "" {
		query += `
		JOIN content_items c ON c.content_id = p.content_id
		WHERE p.user_id = $1 AND c.certification_type = $2`
		args = append(args, certification)
	} else {
		query += `
		WHERE p.user_id = $1`
	}
	query += ` ORDER BY p.occurred_at, p.id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var records []models.InteractionRecord
	for rows.Next() {
		var rec models.InteractionRecord
		var score sql.NullFloat64
		if err := rows.Scan(
			&rec.UserID, &rec.ContentID, &rec.ProgressKind,
			&score, &rec.TimeSpentSeconds, &rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if score.Valid {
			v := score.Float64
			rec.Score = &v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetUserStats aggregates a user's study activity for the stats endpoint.
func (s *Store) GetUserStats(userID string) (*models.ProgressStats, error) {
	stats := &models.ProgressStats{ByKind: map[models.ProgressKind]int{}}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COUNT(score),
		        COALESCE(AVG(score), 0),
		        COALESCE(SUM(time_spent_seconds), 0)
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalInteractions, &stats.GradedAttempts, &stats.AverageScore, &stats.TotalTimeSeconds)
	if err != nil {
		return nil, fmt.Errorf("progress stats: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT progress_kind, COUNT(*) FROM user_progress WHERE user_id = $1 GROUP BY progress_kind`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("progress stats by kind: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind models.ProgressKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		stats.ByKind[kind] = count
	}
	return stats, rows.Err()
}

func nullableScore(score *float64) interface{} {
	if score == nil {
		return nil
	}
	return *score
}
