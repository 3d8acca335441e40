package repository

import (
	"context"
	"time"

	"mccb-go/internal/database"
)

type TimelineDataPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type SessionDataPoint struct {
	Date         string    `json:"date"`
	AverageScore float64   `json:"averageScore"`
	Completeness float64   `json:"completeness"`
	CreatedAt    time.Time `json:"-"`
}

// GetScoreTimeline pulls the per-administration chart series for one
// instrument type straight from the stored rows. The jsonb COALESCE chain
// approximates the in-memory score precedence closely enough for charting;
// the authoritative number always comes from the engine. Zero values fall
// through just like in the engine, so re-imported rows with 0 fillers chart
// correctly.
func GetScoreTimeline(ctx context.Context, userID int, testType string) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint

	query := `
		SELECT
			test_date AS date,
			COALESCE(
				NULLIF(NULLIF(scores->>'percentage', '')::float, 0),
				NULLIF(NULLIF(scores->>'accuracy', '')::float, 0),
				CASE
					WHEN NULLIF(scores->>'max', '')::float > 0
					THEN NULLIF(NULLIF(scores->>'total', '')::float, 0) / (scores->>'max')::float * 100
				END,
				NULLIF(NULLIF(scores->>'total', '')::float, 0),
				NULLIF(NULLIF(scores->>'score', '')::float, 0),
				0
			) AS value
		FROM record_rows
		WHERE user_id = ? AND test_type = ?
		ORDER BY test_date;
	`

	err := database.DB.WithContext(ctx).Raw(query, userID, testType).Scan(&data).Error
	return data, err
}

// GetSessionHistory returns the stored complete-session summaries in
// chronological order for the session-average chart.
func GetSessionHistory(ctx context.Context, userID int) ([]SessionDataPoint, error) {
	var data []SessionDataPoint

	query := `
		SELECT date, average_score, completeness, created_at
		FROM session_rows
		WHERE user_id = ?
		ORDER BY date;
	`

	err := database.DB.WithContext(ctx).Raw(query, userID).Scan(&data).Error
	return data, err
}
