package runtime

import "github.com/blynkkk/blynk-go/pkg/wire"

// ConnectionState is the Session's lifecycle position. Transitions
// always move Stopped -> Disconnected -> Connected -> Authenticated,
// with any of the latter three able to fall back to Disconnected. When
// Run returns, the state moves back to Stopped.
type ConnectionState uint8

const (
	// StateStopped is the initial state before Run is first called.
	StateStopped ConnectionState = iota

	// StateDisconnected means the runtime is waiting out ReconnectDelay
	// or mid dial; no session exists.
	StateDisconnected

	// StateConnected means the TCP socket is up but login has not yet
	// completed.
	StateConnected

	// StateAuthenticated means login succeeded; the readiness loop is
	// serving requests and dispatching commands.
	StateAuthenticated
)

// String returns the state's name.
func (s ConnectionState) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateAuthenticated:
		return "Authenticated"
	default:
		return "Unknown"
	}
}

// Event is delivered to a registered state observer exactly once per
// transition. Kind is populated only when the transition is a
// disconnect; Status is populated only when Kind == KindStatus.
type Event struct {
	State  ConnectionState
	Kind   Kind
	Status wire.Status
}

// Observer receives connection state transitions. Observer callbacks
// run outside any internal lock; they must not block the runtime task
// for long, and must not call back into blocking Device operations
// from the same goroutine the observer itself runs on — the runtime
// calls observers synchronously, on the session goroutine.
type Observer func(Event)
