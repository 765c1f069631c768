package prober

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Classify maps a dial error to a ProbeError kind
func Classify(err error) ProbeError {
	if err == nil {
		return ""
	}

	var dnsErr *net.DNSError

	if errors.As(err, &dnsErr) {
		return ProbeResolutionFailed
	}

	if errors.Is(err, context.Canceled) {
		return ProbeCancelled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ProbeTimeout
	}

	var netErr net.Error

	if errors.As(err, &netErr) && netErr.Timeout() {
		return ProbeTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ProbeRefused
	}

	if errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return ProbeUnreachable
	}

	// windows does not always surface the errno
	msg := err.Error()

	if strings.Contains(msg, "refused") {
		return ProbeRefused
	}

	if strings.Contains(msg, "unreachable") {
		return ProbeUnreachable
	}

	return ProbeUnknown
}
