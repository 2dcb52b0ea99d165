package monitor

import (
	"fmt"
	"io"
	"time"
)

// processRecord caches the human-friendly detail for a tracked pid so an
// ended event can still report it after the process is gone.
type processRecord struct {
	name    string
	created time.Time
}

// processWatcher tracks the set of live pids between polls.
type processWatcher struct {
	en   Enumerator
	sink Sink
	diag io.Writer

	// live maps pid -> cached detail for every process believed alive
	// as of the last poll.
	live map[int32]processRecord
}

// newProcessWatcher seeds the watcher from one enumeration without
// emitting any events. If the enumeration fails the watcher starts
// empty rather than failing construction.
func newProcessWatcher(en Enumerator, sink Sink, diag io.Writer) *processWatcher {
	pw := &processWatcher{
		en:   en,
		sink: sink,
		diag: diag,
		live: make(map[int32]processRecord),
	}

	procs, err := en.Processes()
	if err != nil {
		fmt.Fprintf(diag, "monitor: seeding process table: %v\n", err)
		return pw
	}
	for _, p := range procs {
		pw.live[p.PID] = processRecord{name: p.Name, created: p.Created}
	}

	return pw
}

// poll takes a fresh snapshot of the process table, emits started events
// for new pids and ended events for vanished ones, and leaves the live
// set equal to the snapshot. An enumeration failure degrades to an empty
// snapshot, which surfaces every tracked pid as ended; they are picked
// up as started again on the next successful poll.
func (pw *processWatcher) poll() {
	procs, err := pw.en.Processes()
	if err != nil {
		fmt.Fprintf(pw.diag, "monitor: listing processes: %v\n", err)
		procs = nil
	}

	current := make(map[int32]processRecord, len(procs))
	for _, p := range procs {
		current[p.PID] = processRecord{name: p.Name, created: p.Created}
	}

	created, ended := diffKeys(pw.live, current)
	now := time.Now()

	for _, pid := range created {
		rec := current[pid]
		pw.sink.Record(Event{
			Time:    now,
			Class:   ClassProcess,
			Action:  ActionStarted,
			PID:     pid,
			Name:    rec.name,
			Created: rec.created,
		})
		pw.live[pid] = rec
	}

	for _, pid := range ended {
		rec := pw.live[pid]
		pw.sink.Record(Event{
			Time:   now,
			Class:  ClassProcess,
			Action: ActionEnded,
			PID:    pid,
			Name:   rec.name,
		})
		delete(pw.live, pid)
	}
}
