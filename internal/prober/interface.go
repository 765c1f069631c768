package prober

import (
	"context"
	"net"
)

//go:generate mockgen -destination=../mock/prober/mock_prober.go -package=mock_prober . Dialer,Scanner

// Dialer establishes outbound connections. *net.Dialer satisfies this interface.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Scanner interface for probing a port range on a single target
type Scanner interface {
	Scan(ctx context.Context, req Request) (*Report, error)
}
