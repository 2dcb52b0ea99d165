package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/procwatch/internal/monitor"
)

// ErrNotInitialized is returned when a query runs against a database
// whose schema has not been created yet.
var ErrNotInitialized = errors.New("event store not initialized — run 'procwatch watch' to start recording")

// queryErr wraps a query error, mapping sqlite's "no such table" onto
// ErrNotInitialized so callers can give setup guidance.
func queryErr(op string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", op, ErrNotInitialized)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// InsertEvent records a lifecycle event row.
func (s *Store) InsertEvent(ev *Event) error {
	query := `
		INSERT INTO events (timestamp, class, action, pid, name, local_addr, remote_addr, status, process_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	created := ""
	if !ev.ProcessCreated.IsZero() {
		created = ev.ProcessCreated.Format(time.RFC3339)
	}

	_, err := s.db.Exec(query,
		ev.Timestamp.Format(time.RFC3339),
		ev.Class,
		ev.Action,
		ev.PID,
		ev.Name,
		ev.LocalAddr,
		ev.RemoteAddr,
		ev.Status,
		created,
	)
	if err != nil {
		return queryErr("failed to insert event", err)
	}

	return nil
}

// Record implements monitor.Sink by inserting the event into the events
// table. The poll loop assumes sinks succeed, so an insert failure is
// reported as one diagnostic line and otherwise swallowed.
func (s *Store) Record(ev monitor.Event) {
	row := &Event{
		Timestamp:      ev.Time,
		Class:          string(ev.Class),
		Action:         string(ev.Action),
		PID:            ev.PID,
		Name:           ev.Name,
		LocalAddr:      ev.LocalAddr,
		RemoteAddr:     ev.RemoteAddr,
		Status:         ev.Status,
		ProcessCreated: ev.Created,
	}
	if err := s.InsertEvent(row); err != nil {
		fmt.Fprintf(s.diag, "store: recording event: %v\n", err)
	}
}

// RecentEvents returns the most recent events, newest first. class
// filters to "process" or "connection"; empty means both. limit <= 0
// means no limit.
func (s *Store) RecentEvents(class string, limit int) ([]*Event, error) {
	query := `
		SELECT id, timestamp, class, action, pid, name, local_addr, remote_addr, status, process_created
		FROM events
	`
	var args []any
	if class != "" {
		query += ` WHERE class = ?`
		args = append(args, class)
	}
	query += ` ORDER BY timestamp DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, queryErr("failed to list events", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

func scanEvent(rows *sql.Rows) (*Event, error) {
	var ev Event
	var timestamp, created string

	err := rows.Scan(
		&ev.ID,
		&timestamp,
		&ev.Class,
		&ev.Action,
		&ev.PID,
		&ev.Name,
		&ev.LocalAddr,
		&ev.RemoteAddr,
		&ev.Status,
		&created,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	ev.Timestamp, err = time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp for event %d: %w", ev.ID, err)
	}

	if created != "" {
		ev.ProcessCreated, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse process_created for event %d: %w", ev.ID, err)
		}
	}

	return &ev, nil
}

// EventStats returns aggregate counts over the recorded history.
func (s *Store) EventStats() (*Stats, error) {
	stats := &Stats{}

	query := `
		SELECT class, action, COUNT(*)
		FROM events
		GROUP BY class, action
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, queryErr("failed to aggregate events", err)
	}
	defer rows.Close()

	for rows.Next() {
		var class, action string
		var count int
		if err := rows.Scan(&class, &action, &count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}

		stats.TotalEvents += count
		switch class + "/" + action {
		case "process/started":
			stats.ProcessStarted = count
		case "process/ended":
			stats.ProcessEnded = count
		case "connection/started":
			stats.ConnectionStarted = count
		case "connection/ended":
			stats.ConnectionEnded = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aggregate rows: %w", err)
	}

	if stats.TotalEvents > 0 {
		var first, last string
		err = s.db.QueryRow(`SELECT MIN(timestamp), MAX(timestamp) FROM events`).Scan(&first, &last)
		if err != nil {
			return nil, queryErr("failed to get event time range", err)
		}

		f, err := time.Parse(time.RFC3339, first)
		if err != nil {
			return nil, fmt.Errorf("failed to parse first event timestamp: %w", err)
		}
		l, err := time.Parse(time.RFC3339, last)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last event timestamp: %w", err)
		}
		stats.First = &f
		stats.Last = &l
	}

	return stats, nil
}

// EventsSince counts events recorded at or after the given time.
func (s *Store) EventsSince(since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE timestamp >= ?`

	var count int
	err := s.db.QueryRow(query, since.Format(time.RFC3339)).Scan(&count)
	if err != nil {
		return 0, queryErr("failed to count recent events", err)
	}

	return count, nil
}

// TopProcessNames returns the process names with the most start events,
// highest count first.
func (s *Store) TopProcessNames(limit int) ([]NameCount, error) {
	query := `
		SELECT name, COUNT(*) AS n
		FROM events
		WHERE class = 'process' AND action = 'started' AND name != ''
		GROUP BY name
		ORDER BY n DESC, name
		LIMIT ?
	`
	return s.topValues(query, limit)
}

// TopRemoteAddrs returns the remote addresses with the most
// connection-start events, highest count first.
func (s *Store) TopRemoteAddrs(limit int) ([]NameCount, error) {
	query := `
		SELECT remote_addr, COUNT(*) AS n
		FROM events
		WHERE class = 'connection' AND action = 'started' AND remote_addr != ''
		GROUP BY remote_addr
		ORDER BY n DESC, remote_addr
		LIMIT ?
	`
	return s.topValues(query, limit)
}

func (s *Store) topValues(query string, limit int) ([]NameCount, error) {
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, queryErr("failed to query top values", err)
	}
	defer rows.Close()

	var counts []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts = append(counts, nc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}
