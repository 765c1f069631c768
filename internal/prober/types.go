package prober

import (
	"fmt"
	"time"
)

// Request describes a single scan of one target over an inclusive port range
type Request struct {
	Target    string
	StartPort uint16
	EndPort   uint16
	Timeout   time.Duration
}

// size returns the number of ports covered by the request
func (r Request) size() int {
	return int(r.EndPort) - int(r.StartPort) + 1
}

// Outcome is the result of probing a single port
type Outcome struct {
	Port uint16
	Open bool
}

// Report is the ordered result of a full scan. Open only ever contains
// outcomes with Open set to true, sorted by ascending port.
type Report struct {
	Target    string
	StartPort uint16
	EndPort   uint16
	Attempted int
	Elapsed   time.Duration
	Open      []Outcome
}

// Ports returns the open port numbers of the report in ascending order
func (r *Report) Ports() []uint16 {
	ports := make([]uint16, 0, len(r.Open))

	for _, o := range r.Open {
		ports = append(ports, o.Port)
	}

	return ports
}

// ProbeError classifies why a single probe did not result in an open port
type ProbeError string

const (
	ProbeTimeout          ProbeError = "timeout"
	ProbeRefused          ProbeError = "refused"
	ProbeUnreachable      ProbeError = "unreachable"
	ProbeResolutionFailed ProbeError = "resolution-failed"
	ProbeCancelled        ProbeError = "cancelled"
	ProbeUnknown          ProbeError = "unknown"
)

// Diagnostic carries the detail of a failed probe. It is informational only
// and never changes the Outcome reported for the port.
type Diagnostic struct {
	Target  string
	Port    uint16
	Kind    ProbeError
	Err     error
	Elapsed time.Duration
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", d.Target, d.Port, d.Kind, d.Err)
}
