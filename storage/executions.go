package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Execution is one journal entry: a hotkey firing its binding.
type Execution struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Hotkey       string    `json:"hotkey"`
	ActionCount  int       `json:"actionCount"`
	DurationMs   int64     `json:"durationMs"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// RecordExecution appends an execution to the journal.
func (db *DB) RecordExecution(e *Execution) error {
	query := `
		INSERT INTO executions (hotkey, action_count, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := db.conn.Exec(query,
		e.Hotkey, e.ActionCount, e.DurationMs, e.Success, e.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record execution: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	e.ID = id
	return nil
}

// GetExecutions retrieves executions, newest first, with pagination.
func (db *DB) GetExecutions(limit, offset int) ([]Execution, error) {
	query := `
		SELECT id, timestamp, hotkey, action_count, duration_ms, success, error_message
		FROM executions
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	var executions []Execution
	for rows.Next() {
		var e Execution
		var errorMessage sql.NullString

		err := rows.Scan(&e.ID, &e.Timestamp, &e.Hotkey, &e.ActionCount, &e.DurationMs, &e.Success, &errorMessage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		if errorMessage.Valid {
			e.ErrorMessage = errorMessage.String
		}

		executions = append(executions, e)
	}

	return executions, rows.Err()
}

// DeleteExecution deletes a journal entry by ID.
func (db *DB) DeleteExecution(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM executions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete execution: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("execution not found")
	}

	return nil
}

// GetExecutionCount returns the total number of journal entries.
func (db *DB) GetExecutionCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM executions").Scan(&count)
	return count, err
}
