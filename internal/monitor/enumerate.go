package monitor

import (
	"fmt"
	"time"

	gopsnet "github.com/shirou/gopsutil/v4/net"
	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// ProcessInfo is one live process as reported by a single enumeration.
type ProcessInfo struct {
	PID     int32
	Name    string
	Created time.Time
}

// ConnInfo is one live socket as reported by a single enumeration.
// LocalAddr and RemoteAddr are "ip:port" strings, empty when unbound.
// PID is 0 when the owning process cannot be determined.
type ConnInfo struct {
	Family     uint32
	Type       uint32
	LocalAddr  string
	RemoteAddr string
	Status     string
	PID        int32
}

// Enumerator reads the OS process and connection tables. Each call
// returns a fresh point-in-time snapshot. Implementations must tolerate
// entities vanishing mid-enumeration by dropping them from the result;
// only a failure of the listing itself is returned as an error.
type Enumerator interface {
	Processes() ([]ProcessInfo, error)
	Connections() ([]ConnInfo, error)
}

type systemEnumerator struct{}

// SystemEnumerator returns an Enumerator backed by the running host's
// process table and inet socket table.
func SystemEnumerator() Enumerator {
	return systemEnumerator{}
}

func (systemEnumerator) Processes() ([]ProcessInfo, error) {
	procs, err := gopsproc.Processes()
	if err != nil {
		return nil, err
	}

	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Process exited between listing and inspection.
			continue
		}

		var created time.Time
		if ms, err := p.CreateTime(); err == nil {
			created = time.UnixMilli(ms)
		}

		out = append(out, ProcessInfo{PID: p.Pid, Name: name, Created: created})
	}

	return out, nil
}

func (systemEnumerator) Connections() ([]ConnInfo, error) {
	stats, err := gopsnet.Connections("inet")
	if err != nil {
		return nil, err
	}

	out := make([]ConnInfo, 0, len(stats))
	for _, c := range stats {
		out = append(out, ConnInfo{
			Family:     c.Family,
			Type:       c.Type,
			LocalAddr:  formatAddr(c.Laddr),
			RemoteAddr: formatAddr(c.Raddr),
			Status:     c.Status,
			PID:        c.Pid,
		})
	}

	return out, nil
}

// formatAddr renders a socket address as "ip:port", or "" for the
// unbound end of a socket (e.g. the remote side of a listener).
func formatAddr(a gopsnet.Addr) string {
	if a.IP == "" && a.Port == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", a.IP, a.Port)
}
