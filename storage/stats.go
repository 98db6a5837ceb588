package storage

import (
	"database/sql"
	"fmt"
)

// OverallStats aggregates the journal over a time range.
type OverallStats struct {
	TotalExecutions int     `json:"totalExecutions"`
	TotalActions    int     `json:"totalActions"`
	SuccessCount    int     `json:"successCount"`
	FailureCount    int     `json:"failureCount"`
	AvgDurationMs   float64 `json:"avgDurationMs"`
}

// HotkeyUsage counts executions per hotkey.
type HotkeyUsage struct {
	Hotkey string `json:"hotkey"`
	Count  int    `json:"count"`
}

// DailyStats represents statistics for a single day.
type DailyStats struct {
	Date         string `json:"date"`
	Executions   int    `json:"executions"`
	FailureCount int    `json:"failureCount"`
}

// GetOverallStats retrieves overall statistics for the last N days.
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `
		SELECT
			COUNT(*) as total_executions,
			COALESCE(SUM(action_count), 0) as total_actions,
			COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) as success_count,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failure_count,
			COALESCE(AVG(duration_ms), 0) as avg_duration_ms
		FROM executions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
	`

	var s OverallStats
	err := db.conn.QueryRow(query, days).Scan(
		&s.TotalExecutions,
		&s.TotalActions,
		&s.SuccessCount,
		&s.FailureCount,
		&s.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}

	return &s, nil
}

// GetHotkeyUsage retrieves per-hotkey execution counts for the last N days,
// most used first.
func (db *DB) GetHotkeyUsage(days int) ([]HotkeyUsage, error) {
	query := `
		SELECT hotkey, COUNT(*) as count
		FROM executions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY hotkey
		ORDER BY count DESC, hotkey
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotkey usage: %w", err)
	}
	defer rows.Close()

	var usage []HotkeyUsage
	for rows.Next() {
		var u HotkeyUsage
		if err := rows.Scan(&u.Hotkey, &u.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hotkey usage: %w", err)
		}
		usage = append(usage, u)
	}

	return usage, rows.Err()
}

// GetDailyStats retrieves per-day execution counts for the last N days.
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			COUNT(*) as executions,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failure_count
		FROM executions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var daily []DailyStats
	for rows.Next() {
		var d DailyStats
		if err := rows.Scan(&d.Date, &d.Executions, &d.FailureCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		daily = append(daily, d)
	}

	return daily, rows.Err()
}

// GetRecentErrors retrieves the latest failed executions.
func (db *DB) GetRecentErrors(limit int) ([]Execution, error) {
	query := `
		SELECT id, timestamp, hotkey, action_count, duration_ms, success, error_message
		FROM executions
		WHERE success = 0
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent errors: %w", err)
	}
	defer rows.Close()

	var failed []Execution
	for rows.Next() {
		var e Execution
		var msg sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Hotkey, &e.ActionCount, &e.DurationMs, &e.Success, &msg); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		if msg.Valid {
			e.ErrorMessage = msg.String
		}
		failed = append(failed, e)
	}

	return failed, rows.Err()
}
