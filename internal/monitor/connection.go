package monitor

import (
	"fmt"
	"io"
	"time"
)

// ConnIdentity is the key by which connection continuity across polls is
// judged. The OS exposes no stable handle for a socket, so identity is
// the full field tuple: two enumerated connections are the same entity
// iff all six fields match. A connection whose status changes (say
// ESTABLISHED to CLOSE_WAIT) therefore reads as one connection ending
// and another starting, even though the socket persisted.
type ConnIdentity struct {
	Family     uint32
	Type       uint32
	LocalAddr  string
	RemoteAddr string
	Status     string
	PID        int32
}

// connWatcher tracks the set of live connection identities between
// polls. The identity carries every field an ended event reports, so the
// live set needs no separate record value.
type connWatcher struct {
	en   Enumerator
	sink Sink
	diag io.Writer

	live map[ConnIdentity]struct{}
}

// newConnWatcher seeds the watcher from one enumeration without emitting
// events, degrading to an empty set if the enumeration fails.
func newConnWatcher(en Enumerator, sink Sink, diag io.Writer) *connWatcher {
	cw := &connWatcher{
		en:   en,
		sink: sink,
		diag: diag,
		live: make(map[ConnIdentity]struct{}),
	}

	conns, err := en.Connections()
	if err != nil {
		fmt.Fprintf(diag, "monitor: seeding connection table: %v\n", err)
		return cw
	}
	for _, c := range conns {
		cw.live[identityOf(c)] = struct{}{}
	}

	return cw
}

func identityOf(c ConnInfo) ConnIdentity {
	return ConnIdentity{
		Family:     c.Family,
		Type:       c.Type,
		LocalAddr:  c.LocalAddr,
		RemoteAddr: c.RemoteAddr,
		Status:     c.Status,
		PID:        c.PID,
	}
}

// poll diffs a fresh snapshot of the connection table against the live
// set and emits one started event per new identity and one ended event
// per vanished identity. Duplicate identities within one snapshot
// collapse to a single entity.
func (cw *connWatcher) poll() {
	conns, err := cw.en.Connections()
	if err != nil {
		fmt.Fprintf(cw.diag, "monitor: listing connections: %v\n", err)
		conns = nil
	}

	current := make(map[ConnIdentity]struct{}, len(conns))
	for _, c := range conns {
		current[identityOf(c)] = struct{}{}
	}

	created, ended := diffKeys(cw.live, current)
	now := time.Now()

	for _, id := range created {
		cw.sink.Record(connEvent(now, ActionStarted, id))
		cw.live[id] = struct{}{}
	}

	for _, id := range ended {
		cw.sink.Record(connEvent(now, ActionEnded, id))
		delete(cw.live, id)
	}
}

func connEvent(t time.Time, action Action, id ConnIdentity) Event {
	return Event{
		Time:       t,
		Class:      ClassConnection,
		Action:     action,
		PID:        id.PID,
		LocalAddr:  id.LocalAddr,
		RemoteAddr: id.RemoteAddr,
		Status:     id.Status,
	}
}
