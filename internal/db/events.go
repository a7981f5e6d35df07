package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordEvent logs a layout operation. A missing RunID or Timestamp is filled
// in on the event.
func (d *DB) RecordEvent(event *Event) error {
	if event.RunID == "" {
		event.RunID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	var argsJSON sql.NullString
	if len(event.Args) > 0 {
		b, err := json.Marshal(event.Args)
		if err != nil {
			return fmt.Errorf("failed to encode event args: %w", err)
		}
		argsJSON = sql.NullString{String: string(b), Valid: true}
	}

	result, err := d.conn.Exec(`
		INSERT INTO layout_events (run_id, profile, action, status, args, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, event.RunID, event.Profile, event.Action, event.Status, argsJSON, nullString(event.Details), event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("event recorded but id unavailable: %w", err)
	}
	event.ID = id

	return nil
}

// RecentEvents returns the most recent events across all profiles
func (d *DB) RecentEvents(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.conn.Query(`
		SELECT id, run_id, profile, action, status, args, details, timestamp
		FROM layout_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// EventsForProfile returns events for a specific profile
func (d *DB) EventsForProfile(profile string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.conn.Query(`
		SELECT id, run_id, profile, action, status, args, details, timestamp
		FROM layout_events
		WHERE profile = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// LastApplied returns the most recent successful apply, or nil if there is none
func (d *DB) LastApplied() (*Event, error) {
	rows, err := d.conn.Query(`
		SELECT id, run_id, profile, action, status, args, details, timestamp
		FROM layout_events
		WHERE action = ? AND status = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`, ActionApply, StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to query last apply: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil || len(events) == 0 {
		return nil, err
	}
	return events[0], nil
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		var event Event
		var args, details sql.NullString

		err := rows.Scan(
			&event.ID, &event.RunID, &event.Profile, &event.Action,
			&event.Status, &args, &details, &event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		event.Details = details.String
		if args.Valid {
			if err := json.Unmarshal([]byte(args.String), &event.Args); err != nil {
				return nil, fmt.Errorf("failed to decode event args: %w", err)
			}
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
