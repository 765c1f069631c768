package prober

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/robgonnella/portprobe/internal/logger"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout is the per-attempt timeout used when callers have no preference
	DefaultTimeout = time.Second

	// DefaultConcurrency is the default number of in-flight connection attempts
	DefaultConcurrency = 500
)

// OutcomeHandler is called once per probed port as soon as the probe resolves.
// Handlers are called concurrently.
type OutcomeHandler func(target string, outcome Outcome)

// DiagnosticHandler is called for every probe that did not connect.
// Handlers are called concurrently.
type DiagnosticHandler func(diagnostic Diagnostic)

// Option configures a TCPProber
type Option func(p *TCPProber)

// WithDialer sets the dialer used for connection attempts
func WithDialer(d Dialer) Option {
	return func(p *TCPProber) {
		p.dialer = d
	}
}

// WithConcurrency bounds the number of simultaneous connection attempts
func WithConcurrency(n int) Option {
	return func(p *TCPProber) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithOutcomeHandler registers a handler for per-port outcomes
func WithOutcomeHandler(h OutcomeHandler) Option {
	return func(p *TCPProber) {
		p.onOutcome = h
	}
}

// WithDiagnosticHandler registers a handler for failed probe diagnostics
func WithDiagnosticHandler(h DiagnosticHandler) Option {
	return func(p *TCPProber) {
		p.onDiagnostic = h
	}
}

// TCPProber implements the Scanner interface using TCP connect probes.
//
// A port is reported open only if a connection is established within the
// request timeout. Anything slower is treated as closed: this is a policy,
// not a property of the network, so an open but slow port can be reported
// closed when the timeout is too small.
type TCPProber struct {
	dialer       Dialer
	concurrency  int
	onOutcome    OutcomeHandler
	onDiagnostic DiagnosticHandler
	log          logger.Logger
}

// New returns a new instance of TCPProber
func New(opts ...Option) *TCPProber {
	p := &TCPProber{
		dialer:      &net.Dialer{KeepAlive: -1},
		concurrency: DefaultConcurrency,
		log:         logger.New(),
	}

	for _, o := range opts {
		o(p)
	}

	return p
}

// Validate checks a request without performing any network I/O
func Validate(req Request) error {
	if req.StartPort > req.EndPort {
		return fmt.Errorf(
			"%w: start port %d is greater than end port %d",
			ErrInvalidRange,
			req.StartPort,
			req.EndPort,
		)
	}

	if req.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be greater than zero", ErrInvalidTimeout, req.Timeout)
	}

	return nil
}

// Scan probes every port in the request range exactly once and returns the
// open ports in ascending order. Individual probe failures never fail the
// scan. Only an invalid request or cancellation of ctx returns an error.
func (p *TCPProber) Scan(ctx context.Context, req Request) (*Report, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	size := req.size()
	start := time.Now()

	// one slot per port offset, each written by exactly one goroutine
	slots := make([]Outcome, size)
	attempted := 0

	g := errgroup.Group{}
	g.SetLimit(p.concurrency)

	p.log.Debug().
		Str("target", req.Target).
		Uint16("start", req.StartPort).
		Uint16("end", req.EndPort).
		Dur("timeout", req.Timeout).
		Int("concurrency", p.concurrency).
		Msg("starting scan")

	for i := 0; i < size; i++ {
		if ctx.Err() != nil {
			break
		}

		idx := i
		port := uint16(int(req.StartPort) + idx)
		attempted++

		g.Go(func() error {
			slots[idx] = p.probe(ctx, req.Target, port, req.Timeout)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	report := &Report{
		Target:    req.Target,
		StartPort: req.StartPort,
		EndPort:   req.EndPort,
		Attempted: attempted,
		Elapsed:   time.Since(start),
		Open:      []Outcome{},
	}

	// slots are ordered by port offset so open ports come out ascending
	for _, o := range slots {
		if o.Open {
			report.Open = append(report.Open, o)
		}
	}

	p.log.Debug().
		Str("target", req.Target).
		Int("open", len(report.Open)).
		Dur("elapsed", report.Elapsed).
		Msg("scan complete")

	return report, nil
}

func (p *TCPProber) probe(
	ctx context.Context,
	target string,
	port uint16,
	timeout time.Duration,
) Outcome {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome := Outcome{Port: port}
	addr := net.JoinHostPort(target, strconv.Itoa(int(port)))
	start := time.Now()

	conn, err := p.dialer.DialContext(attemptCtx, "tcp", addr)

	if err == nil {
		conn.Close()

		// a dialer that ignores ctx may still connect after the deadline
		if attemptCtx.Err() != nil {
			err = attemptCtx.Err()
		} else {
			outcome.Open = true
		}
	}

	if err != nil {
		diagnostic := Diagnostic{
			Target:  target,
			Port:    port,
			Kind:    Classify(err),
			Err:     err,
			Elapsed: time.Since(start),
		}

		p.log.Debug().
			Str("addr", addr).
			Str("kind", string(diagnostic.Kind)).
			Err(err).
			Msg("probe failed")

		if p.onDiagnostic != nil {
			p.onDiagnostic(diagnostic)
		}
	}

	if p.onOutcome != nil {
		p.onOutcome(target, outcome)
	}

	return outcome
}
