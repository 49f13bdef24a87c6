package transport

import (
	"errors"
	"fmt"
)

var (
	ErrRefused       = errors.New("transport: connection refused")
	ErrWorkerBusy    = errors.New("transport: request queue full")
	ErrWorkerStopped = errors.New("transport: worker stopped")
)

// Kind separates refused connections from every other transport fault so
// callers can tell "server not running" apart from generic failures.
type Kind int

const (
	KindOther Kind = iota
	KindRefused
)

func (k Kind) String() string {
	switch k {
	case KindRefused:
		return "refused"
	default:
		return "other"
	}
}

// TransportError is a failure to exchange a command with the server.
type TransportError struct {
	Kind Kind
	Op   string
	Addr string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Kind == KindRefused {
		return fmt.Sprintf("transport: connection refused by %s", e.Addr)
	}
	return fmt.Sprintf("transport: %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrRefused && e.Kind == KindRefused
}

// IsRefused reports whether err is a refused connection.
func IsRefused(err error) bool {
	return errors.Is(err, ErrRefused)
}
