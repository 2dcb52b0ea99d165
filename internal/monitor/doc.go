// Package monitor implements the snapshot-diff engine behind procwatch.
//
// A Monitor owns two watchers — one for the process table, one for the
// network connection table — and drives both from a single polling loop.
// Each watcher keeps the set of entities it believes are live, re-reads
// the OS table once per tick, and reports the symmetric difference as
// "started" and "ended" lifecycle events to an injected Sink.
//
// Seeding at construction never emits events: the monitor reports only
// changes, never the pre-existing world. Entities whose lifetime is
// shorter than the polling interval can be missed entirely; that is an
// accepted property of polling, not a bug.
package monitor
