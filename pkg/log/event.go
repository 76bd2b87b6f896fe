package log

import (
	"time"

	"github.com/blynkkk/blynk-go/pkg/wire"
)

// Event represents a protocol log event captured at any layer of the
// connection runtime. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address (host:port).
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (exactly one of these is set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Wire frame sent/received
	Command     *CommandEvent     `cbor:"11,keyasint,omitempty"` // Hardware command dispatch
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Connection state transition
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming frame.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing frame.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer of the runtime captured the event.
type Layer uint8

const (
	// LayerWire is the frame encode/decode layer.
	LayerWire Layer = 0
	// LayerSession is the connection lifecycle layer.
	LayerSession Layer = 1
	// LayerDispatch is the command dispatch layer.
	LayerDispatch Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerWire:
		return "WIRE"
	case LayerSession:
		return "SESSION"
	case LayerDispatch:
		return "DISPATCH"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates a raw frame send/receive.
	CategoryFrame Category = 0
	// CategoryCommand indicates a hardware command dispatch.
	CategoryCommand Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryCommand:
		return "COMMAND"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures one frame sent or received on the wire.
type FrameEvent struct {
	// Command is the frame's command kind.
	Command wire.Command `cbor:"1,keyasint"`

	// ID is the frame's correlation ID.
	ID uint16 `cbor:"2,keyasint"`

	// Length is the frame's length field (a status code for
	// CommandResponse frames, a payload size otherwise).
	Length uint16 `cbor:"3,keyasint"`

	// PayloadSize is the number of payload bytes carried.
	PayloadSize int `cbor:"4,keyasint,omitempty"`
}

// CommandEvent captures the dispatch of a decoded hardware command to a
// registered handler, or the absence of one.
type CommandEvent struct {
	// Name is the command name (the first SplitArgs element).
	Name string `cbor:"1,keyasint"`

	// Handled reports whether a registered handler processed the command.
	Handled bool `cbor:"2,keyasint"`

	// Status is the status returned to the peer.
	Status wire.Status `cbor:"3,keyasint"`
}

// StateChangeEvent captures a connection lifecycle transition.
type StateChangeEvent struct {
	// OldState is the previous state.
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change, if available.
	Reason string `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
