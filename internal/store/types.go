package store

import "time"

// Event is one recorded lifecycle event row.
type Event struct {
	ID         int64
	Timestamp  time.Time
	Class      string // "process" or "connection"
	Action     string // "started" or "ended"
	PID        int32
	Name       string
	LocalAddr  string
	RemoteAddr string
	Status     string

	// ProcessCreated is the process creation time captured on a
	// process-start event; zero otherwise.
	ProcessCreated time.Time
}

// Stats summarizes the recorded event history.
type Stats struct {
	TotalEvents       int
	ProcessStarted    int
	ProcessEnded      int
	ConnectionStarted int
	ConnectionEnded   int

	// First and Last bracket the recorded history; nil when the store
	// is empty.
	First *time.Time
	Last  *time.Time
}

// NameCount pairs a grouped value with its occurrence count, used for
// "top N" churn queries.
type NameCount struct {
	Name  string
	Count int
}
