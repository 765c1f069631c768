package prober

import "errors"

var (
	// ErrInvalidRange returned when the start port is greater than the end port
	ErrInvalidRange = errors.New("invalid port range")

	// ErrInvalidTimeout returned when the per-attempt timeout is not positive
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrCancelled returned when the caller cancels a scan before it completes
	ErrCancelled = errors.New("scan cancelled")
)
