package history

import (
	"database/sql"
	"fmt"
	"time"
)

// Event is one ledger row.
type Event struct {
	ID          int64
	Environment string
	Kind        string
	ObservedAt  time.Time
}

// DayCount is the number of events observed on one UTC day (YYYY-MM-DD).
type DayCount struct {
	Day   string
	Count int
}

// Append records an event. Timestamps are stored as UTC RFC3339 strings.
func (l *Log) Append(environment, kind string, at time.Time) error {
	query := `
		INSERT INTO events (environment, kind, observed_at)
		VALUES (?, ?, ?)
	`

	_, err := l.db.Exec(query, environment, kind, at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to append %s event for %s: %w", kind, environment, err)
	}
	return nil
}

// LastActivation returns the time of the most recent activation event for
// the environment. Returns nil if none exist.
func (l *Log) LastActivation(environment string) (*time.Time, error) {
	query := `
		SELECT observed_at
		FROM events
		WHERE environment = ? AND kind = ?
		ORDER BY observed_at DESC
		LIMIT 1
	`

	var observedAt string
	err := l.db.QueryRow(query, environment, KindActivation).Scan(&observedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last activation for %s: %w", environment, err)
	}

	t, err := time.Parse(time.RFC3339, observedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return &t, nil
}

// CountSince returns how many events of the given kind were observed for
// the environment at or after since.
func (l *Log) CountSince(environment, kind string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM events
		WHERE environment = ? AND kind = ? AND observed_at >= ?
	`

	var count int
	err := l.db.QueryRow(query, environment, kind, since.UTC().Format(time.RFC3339)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s events for %s: %w", kind, environment, err)
	}
	return count, nil
}

// ActivationsByDay buckets the environment's activations of the last `days`
// days by UTC day, oldest first. Days without activity are absent.
func (l *Log) ActivationsByDay(environment string, days int, now time.Time) ([]DayCount, error) {
	since := now.UTC().AddDate(0, 0, -days)
	query := `
		SELECT substr(observed_at, 1, 10) AS day, COUNT(*)
		FROM events
		WHERE environment = ? AND kind = ? AND observed_at >= ?
		GROUP BY day
		ORDER BY day
	`

	rows, err := l.db.Query(query, environment, KindActivation, since.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to get activation trend for %s: %w", environment, err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend rows: %w", err)
	}
	return counts, nil
}

// RecentEvents returns up to limit events, newest first.
func (l *Log) RecentEvents(limit int) ([]Event, error) {
	query := `
		SELECT id, environment, kind, observed_at
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := l.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var observedAt string

		if err := rows.Scan(&event.ID, &event.Environment, &event.Kind, &observedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		event.ObservedAt, err = time.Parse(time.RFC3339, observedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for event %d: %w", event.ID, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

// EventCount returns the total number of events recorded.
func (l *Log) EventCount() (int, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

// Seen reports whether the ledger holds any event for the environment.
func (l *Log) Seen(environment string) (bool, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM events WHERE environment = ?", environment).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to probe events for %s: %w", environment, err)
	}
	return count > 0, nil
}
