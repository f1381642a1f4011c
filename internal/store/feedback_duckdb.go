// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // registers the duckdb driver

	"github.com/tomtom215/lunara/internal/logging"
	"github.com/tomtom215/lunara/internal/models"
)

const feedbackSchema = `
CREATE TABLE IF NOT EXISTS feedback (
	id          VARCHAR PRIMARY KEY,
	user_id     VARCHAR NOT NULL,
	food_id     VARCHAR NOT NULL,
	tracking_id VARCHAR,
	action      VARCHAR NOT NULL,
	reason      VARCHAR,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_user ON feedback(user_id, created_at);
`

// DuckDBFeedbackStore is an append-only feedback log on DuckDB. Besides the
// FeedbackStore interface it answers aggregate questions in SQL.
type DuckDBFeedbackStore struct {
	conn *sql.DB
}

// OpenDuckDBFeedbackStore opens the database at path, or an in-memory
// database when path is empty, and creates the schema.
func OpenDuckDBFeedbackStore(ctx context.Context, path string) (*DuckDBFeedbackStore, error) {
	connStr := ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false"
	if path != "" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		connStr = path + "?access_mode=read_write&autoinstall_known_extensions=false&autoload_known_extensions=false"
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, feedbackSchema); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create feedback schema: %w", err)
	}

	return &DuckDBFeedbackStore{conn: conn}, nil
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close database")
	}
}

// Ping checks the database connection.
func (s *DuckDBFeedbackStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close releases the database.
func (s *DuckDBFeedbackStore) Close() error {
	return s.conn.Close()
}

// AppendFeedback inserts a record.
func (s *DuckDBFeedbackStore) AppendFeedback(ctx context.Context, rec *models.FeedbackRecord) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO feedback (id, user_id, food_id, tracking_id, action, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.FoodID, rec.TrackingID, string(rec.Action), string(rec.Reason), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// RecentFeedback returns up to n records for the user, newest first.
func (s *DuckDBFeedbackStore) RecentFeedback(ctx context.Context, userID string, n int) ([]models.FeedbackRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, food_id, tracking_id, action, reason, created_at
		 FROM feedback WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var out []models.FeedbackRecord
	for rows.Next() {
		var rec models.FeedbackRecord
		var tracking, reason sql.NullString
		var action string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.FoodID, &tracking, &action, &reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		rec.TrackingID = tracking.String
		rec.Action = models.FeedbackAction(action)
		rec.Reason = models.FeedbackReason(reason.String)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// recentFeedbackCTE limits an aggregate to the user's newest records.
const recentFeedbackCTE = `
	WITH recent AS (
		SELECT food_id, action, reason
		FROM feedback
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	)`

// FoodAcceptanceStats aggregates the user's last window feedback records per
// food, most interacted first.
func (s *DuckDBFeedbackStore) FoodAcceptanceStats(ctx context.Context, userID string, window int) ([]FoodAcceptance, error) {
	rows, err := s.conn.QueryContext(ctx, recentFeedbackCTE+`
		SELECT food_id,
		       COUNT(*) FILTER (WHERE action = 'ACCEPTED') AS accepted,
		       COUNT(*) FILTER (WHERE action = 'REJECTED') AS rejected,
		       COUNT(*) FILTER (WHERE action = 'SAVED')    AS saved,
		       COUNT(*) AS total
		FROM recent
		GROUP BY food_id
		ORDER BY total DESC, food_id`, userID, window)
	if err != nil {
		return nil, fmt.Errorf("query food acceptance: %w", err)
	}
	defer rows.Close()

	var out []FoodAcceptance
	for rows.Next() {
		var fa FoodAcceptance
		if err := rows.Scan(&fa.FoodID, &fa.Accepted, &fa.Rejected, &fa.Saved, &fa.Total); err != nil {
			return nil, fmt.Errorf("scan food acceptance: %w", err)
		}
		fa.ComputeRates()
		out = append(out, fa)
	}
	return out, rows.Err()
}

// TopRejectionReasons returns the most frequent rejection reasons among the
// user's last window records.
func (s *DuckDBFeedbackStore) TopRejectionReasons(ctx context.Context, userID string, window, limit int) ([]ReasonCount, error) {
	rows, err := s.conn.QueryContext(ctx, recentFeedbackCTE+`
		SELECT reason, COUNT(*) AS n
		FROM recent
		WHERE action = 'REJECTED' AND reason IS NOT NULL AND reason <> ''
		GROUP BY reason
		ORDER BY n DESC, reason
		LIMIT ?`, userID, window, limit)
	if err != nil {
		return nil, fmt.Errorf("query rejection reasons: %w", err)
	}
	defer rows.Close()

	var out []ReasonCount
	for rows.Next() {
		var rc ReasonCount
		var reason string
		if err := rows.Scan(&reason, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan rejection reason: %w", err)
		}
		rc.Reason = models.FeedbackReason(reason)
		out = append(out, rc)
	}
	return out, rows.Err()
}
