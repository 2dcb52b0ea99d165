package monitor

import "time"

// Class identifies which entity table an event came from.
type Class string

// Action is the lifecycle transition an event reports.
type Action string

const (
	ClassProcess    Class = "process"
	ClassConnection Class = "connection"

	ActionStarted Action = "started"
	ActionEnded   Action = "ended"
)

// Event is one lifecycle event for one entity. Process events populate
// PID, Name and (for starts) Created. Connection events populate
// LocalAddr, RemoteAddr, Status and PID; PID 0 means the owning process
// is unknown, empty address strings mean the socket end is unbound.
//
// Ended events carry the detail cached when the entity was last seen
// live — by the time an end is observed the entity is gone from the OS.
type Event struct {
	Time       time.Time
	Class      Class
	Action     Action
	PID        int32
	Name       string
	Created    time.Time
	LocalAddr  string
	RemoteAddr string
	Status     string
}

// Sink receives lifecycle events. Record must not block for long: it is
// called inline from the poll loop. Implementations that can fail (e.g.
// a database) report the failure themselves; the poll loop assumes
// recording succeeds.
type Sink interface {
	Record(ev Event)
}

type multiSink []Sink

func (m multiSink) Record(ev Event) {
	for _, s := range m {
		s.Record(ev)
	}
}

// MultiSink fans each event out to all of the given sinks, in order.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}
