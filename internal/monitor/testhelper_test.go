package monitor

import (
	"sync"
	"time"
)

// fakeEnumerator returns canned snapshots and injectable errors. All
// methods are safe for concurrent use so loop tests can mutate the
// snapshot while the monitor goroutine polls.
type fakeEnumerator struct {
	mu        sync.Mutex
	procs     []ProcessInfo
	procErr   error
	conns     []ConnInfo
	connErr   error
	procCalls int
	connCalls int
}

func (f *fakeEnumerator) Processes() ([]ProcessInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procCalls++
	if f.procErr != nil {
		return nil, f.procErr
	}
	return append([]ProcessInfo(nil), f.procs...), nil
}

func (f *fakeEnumerator) Connections() ([]ConnInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connCalls++
	if f.connErr != nil {
		return nil, f.connErr
	}
	return append([]ConnInfo(nil), f.conns...), nil
}

func (f *fakeEnumerator) setProcs(procs []ProcessInfo, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = procs
	f.procErr = err
}

func (f *fakeEnumerator) setConns(conns []ConnInfo, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns = conns
	f.connErr = err
}

func (f *fakeEnumerator) calls() (procs, conns int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.procCalls, f.connCalls
}

// recordingSink collects every event it receives.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recordingSink) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// find returns the events matching class and action.
func (r *recordingSink) find(class Class, action Action) []Event {
	var out []Event
	for _, ev := range r.all() {
		if ev.Class == class && ev.Action == action {
			out = append(out, ev)
		}
	}
	return out
}

var testCreated = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

func proc(pid int32, name string) ProcessInfo {
	return ProcessInfo{PID: pid, Name: name, Created: testCreated}
}

func tcpConn(laddr, raddr, status string, pid int32) ConnInfo {
	return ConnInfo{
		Family:     2, // AF_INET
		Type:       1, // SOCK_STREAM
		LocalAddr:  laddr,
		RemoteAddr: raddr,
		Status:     status,
		PID:        pid,
	}
}
