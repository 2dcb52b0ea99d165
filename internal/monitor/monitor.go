package monitor

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultInterval is the polling interval used when Config.Interval is
// left zero.
const DefaultInterval = time.Second

// Config controls a Monitor.
type Config struct {
	// Interval is the time between poll cycles. Zero means
	// DefaultInterval.
	Interval time.Duration

	// Network enables the connection watcher alongside the process
	// watcher.
	Network bool

	// Diag receives error-level diagnostic lines (one per enumeration
	// failure). Nil means os.Stderr. Lifecycle events never go here;
	// they go to the Sink.
	Diag io.Writer
}

// Monitor drives the process and connection watchers from one polling
// loop. The loop is single-threaded: watchers never run concurrently
// with each other or with themselves, and the only suspension point is
// the interval tick.
//
// A Monitor moves Idle -> Running on Start and Running -> Stopped on
// Stop; a stopped Monitor cannot be restarted.
type Monitor struct {
	interval time.Duration
	diag     io.Writer

	procs *processWatcher
	conns *connWatcher // nil when network watching is disabled

	mu     sync.Mutex
	state  runState
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateStopped
)

// New constructs a Monitor and seeds its watchers from one enumeration
// each. Seeding emits no events; it establishes the "already running at
// startup" baseline. A failing enumeration degrades the corresponding
// watcher to an empty baseline instead of failing construction.
func New(cfg Config, en Enumerator, sink Sink) (*Monitor, error) {
	if en == nil {
		return nil, fmt.Errorf("enumerator cannot be nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink cannot be nil")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	diag := cfg.Diag
	if diag == nil {
		diag = os.Stderr
	}

	m := &Monitor{
		interval: interval,
		diag:     diag,
		procs:    newProcessWatcher(en, sink, diag),
		stopCh:   make(chan struct{}),
	}
	if cfg.Network {
		m.conns = newConnWatcher(en, sink, diag)
	}

	return m, nil
}

// Start launches the polling loop. It returns an error if the Monitor
// is already running or was stopped.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateRunning:
		return fmt.Errorf("monitor already started")
	case stateStopped:
		return fmt.Errorf("monitor cannot be restarted after stop")
	}
	m.state = stateRunning

	m.wg.Add(1)
	go m.run()

	return nil
}

// run executes one poll cycle per tick until stopped. Cancellation is
// observed only at the tick boundary; an in-flight cycle always
// completes.
func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.pollOnce()
		case <-m.stopCh:
			return
		}
	}
}

// pollOnce runs a single poll cycle: processes first, then connections.
// Each watcher takes its own snapshot; no event straddles two snapshots.
func (m *Monitor) pollOnce() {
	m.procs.poll()
	if m.conns != nil {
		m.conns.poll()
	}
}

// Stop requests an orderly stop and waits for the loop to exit. It is a
// no-op on a Monitor that is not running.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	if m.state != stateRunning {
		m.mu.Unlock()
		return nil
	}
	m.state = stateStopped
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
	return nil
}
