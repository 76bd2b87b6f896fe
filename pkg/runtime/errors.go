package runtime

import (
	"fmt"

	"github.com/blynkkk/blynk-go/pkg/wire"
)

// Kind classifies the outcome of a runtime operation. Every
// application-facing call returns a Kind (wrapped in an *Error)
// synchronously; errors that would compromise a session instead drive
// the connection to StateDisconnected and are reported through the
// state observer.
type Kind uint8

const (
	// KindOK indicates success. Operations that succeed return a nil error,
	// so KindOK only appears as the zero value of Kind.
	KindOK Kind = iota

	// KindMem indicates a fixed-capacity table (awaiters, handlers, the
	// outbound queue) is exhausted.
	KindMem

	// KindGAI indicates DNS resolution of the server address failed.
	KindGAI

	// KindErrno indicates an OS-level socket error.
	KindErrno

	// KindStatus indicates the server returned a non-success status,
	// most often at login.
	KindStatus

	// KindSystem indicates the readiness multiplexer itself failed.
	KindSystem

	// KindClosed indicates the peer closed the connection cleanly.
	KindClosed

	// KindTimeout indicates a request deadline elapsed with no response.
	KindTimeout

	// KindNotConnected indicates an operation was attempted while the
	// connection was Stopped or Disconnected.
	KindNotConnected

	// KindNotAuthenticated indicates an operation was attempted before
	// login completed.
	KindNotAuthenticated

	// KindNotInitialized indicates an operation on an unconfigured Device.
	KindNotInitialized

	// KindInvalidOption indicates a caller misused an API, e.g. sending
	// CommandResponse through the normal Send path.
	KindInvalidOption

	// KindRunning indicates Run was called on an already-running Device.
	KindRunning
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindMem:
		return "MEM"
	case KindGAI:
		return "GAI"
	case KindErrno:
		return "ERRNO"
	case KindStatus:
		return "STATUS"
	case KindSystem:
		return "SYSTEM"
	case KindClosed:
		return "CLOSED"
	case KindTimeout:
		return "TIMEOUT"
	case KindNotConnected:
		return "NOT_CONNECTED"
	case KindNotAuthenticated:
		return "NOT_AUTHENTICATED"
	case KindNotInitialized:
		return "NOT_INITIALIZED"
	case KindInvalidOption:
		return "INVALID_OPTION"
	case KindRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Error is the error type returned by every public Device operation
// and carried on disconnect observer events. Status is only meaningful
// when Kind == KindStatus; Err, when non-nil, wraps the underlying OS
// or library error (e.g. a DNS lookup failure or net.Conn error).
type Error struct {
	Kind   Kind
	Status wire.Status
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("runtime: %s (status %s)", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("runtime: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("runtime: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an *Error of the given kind wrapping err.
func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// newStatusError builds a KindStatus *Error carrying status.
func newStatusError(status wire.Status) *Error {
	return &Error{Kind: KindStatus, Status: status}
}
