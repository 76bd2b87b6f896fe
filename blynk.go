// Package blynk is the public entry point of the client library: it
// wraps the connection runtime behind a small surface modeled on the
// Blynk embedded SDKs' begin/send/run API, while the runtime package
// (pkg/runtime) carries the actual connection, framing, and dispatch
// logic.
package blynk

import (
	"context"
	"log/slog"
	"time"

	"github.com/blynkkk/blynk-go/pkg/config"
	"github.com/blynkkk/blynk-go/pkg/log"
	"github.com/blynkkk/blynk-go/pkg/runtime"
	"github.com/blynkkk/blynk-go/pkg/wire"
)

// Re-exported types so callers only need to import this package for
// everyday use; pkg/wire and pkg/runtime remain available directly
// for advanced cases (custom field encoding, direct Kind inspection).
type (
	// Device is one Blynk connection runtime.
	Device = runtime.Device

	// ConnectionState is the connection's lifecycle position.
	ConnectionState = runtime.ConnectionState

	// Event is a connection state transition delivered to an Observer.
	Event = runtime.Event

	// Observer receives connection state transitions.
	Observer = runtime.Observer

	// Command is the argument vector delivered to a CommandHandler.
	Command = runtime.Command

	// CommandHandler processes one inbound hardware command.
	CommandHandler = runtime.CommandHandler

	// ResponseHandler is invoked when an awaited request resolves.
	ResponseHandler = runtime.ResponseHandler

	// Kind classifies the outcome of a runtime operation.
	Kind = runtime.Kind

	// Error is the error type returned by every Device operation.
	Error = runtime.Error

	// Field is one scalar value formatted for a command payload.
	Field = wire.Field
)

// Connection states, re-exported for convenience.
const (
	StateStopped       = runtime.StateStopped
	StateDisconnected  = runtime.StateDisconnected
	StateConnected     = runtime.StateConnected
	StateAuthenticated = runtime.StateAuthenticated
)

// Error kinds, re-exported for convenience.
const (
	KindOK                = runtime.KindOK
	KindMem               = runtime.KindMem
	KindGAI               = runtime.KindGAI
	KindErrno             = runtime.KindErrno
	KindStatus            = runtime.KindStatus
	KindSystem            = runtime.KindSystem
	KindClosed            = runtime.KindClosed
	KindTimeout           = runtime.KindTimeout
	KindNotConnected      = runtime.KindNotConnected
	KindNotAuthenticated  = runtime.KindNotAuthenticated
	KindNotInitialized    = runtime.KindNotInitialized
	KindInvalidOption     = runtime.KindInvalidOption
	KindRunning           = runtime.KindRunning
)

// Field constructors, re-exported for convenience.
var (
	Char   = wire.Char
	Bool   = wire.Bool
	Int    = wire.Int
	Uint   = wire.Uint
	Float  = wire.Float
	String = wire.String
)

// Option configures a Device at construction time.
type Option func(*config.DeviceConfig)

// WithServerAddress overrides the default "blynk.cloud:8080" address.
func WithServerAddress(addr string) Option {
	return func(c *config.DeviceConfig) { c.ServerAddress = addr }
}

// WithTimeout overrides the per-request response deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *config.DeviceConfig) { c.Timeout = d }
}

// WithHeartbeatInterval overrides the idle interval before a PING.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *config.DeviceConfig) { c.HeartbeatInterval = d }
}

// WithReconnectDelay overrides the fixed wait between reconnect attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *config.DeviceConfig) { c.ReconnectDelay = d }
}

// WithLogger attaches a structured logger for operational output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config.DeviceConfig) { c.Logger = l }
}

// WithProtocolLogger attaches a logger receiving structured protocol
// events (frames, command dispatch, state changes, errors).
func WithProtocolLogger(l log.Logger) Option {
	return func(c *config.DeviceConfig) { c.ProtocolLogger = l }
}

// Begin constructs a Device authenticated with authToken, applying the
// default timeout (5s), heartbeat interval (2s), reconnect delay (5s),
// and server address (blynk.cloud:8080) before opts override them. The
// returned Device is ready for Run once handlers and an observer, if
// any, are registered.
func Begin(authToken string, opts ...Option) (*Device, error) {
	cfg := config.Default()
	cfg.AuthToken = authToken
	for _, opt := range opts {
		opt(&cfg)
	}
	return runtime.New(cfg)
}

// Run starts d's runtime task. See Device.Run.
func Run(ctx context.Context, d *Device) error {
	return d.Run(ctx)
}
