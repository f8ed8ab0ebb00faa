package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind classifies a transport-level failure.
type Kind int

const (
	// KindProtocol covers malformed or unexpected HTTP exchanges.
	KindProtocol Kind = iota
	// KindTimeout covers deadline and timeout expiry, whether from the
	// call context or the underlying dialer.
	KindTimeout
	// KindConnection covers dial, reset, and DNS failures.
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	default:
		return "protocol"
	}
}

// NetworkError reports a failure to complete the HTTP exchange. The
// request had no observable effect; callers may retry at their own
// discretion, the transport never retries on its own.
type NetworkError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func networkError(op string, err error) *NetworkError {
	return &NetworkError{Kind: kindOf(err), Op: op, Err: err}
}

func kindOf(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}

	// A canceled call is indistinguishable from a dropped connection
	// from the caller's point of view.
	if errors.Is(err, context.Canceled) {
		return KindConnection
	}

	var oe *net.OpError
	var de *net.DNSError
	if errors.As(err, &oe) || errors.As(err, &de) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return KindConnection
	}

	return KindProtocol
}
