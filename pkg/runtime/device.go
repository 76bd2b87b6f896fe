// Package runtime implements the Blynk connection runtime: the
// long-running worker that dials the cloud, authenticates, frames
// protocol messages in both directions, tracks request/response
// correlation with deadlines, drives the heartbeat, dispatches inbound
// hardware commands, and reconnects automatically on failure.
//
// Package runtime is named independently of the stdlib "runtime"
// package; callers should import it under its default name and will
// rarely need an alias since the two are seldom used in the same
// file. The root blynk package wraps Device behind a smaller public
// surface.
package runtime

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blynkkk/blynk-go/pkg/config"
	applog "github.com/blynkkk/blynk-go/pkg/log"
	"github.com/blynkkk/blynk-go/pkg/wire"
	"github.com/google/uuid"
)

// Device is one Blynk connection runtime. The zero value is not
// usable; construct one with New. A Device is safe for concurrent use
// by multiple application goroutines; Run must be called at most
// once.
type Device struct {
	mu       sync.Mutex // guards cfg, handlers, observer — per spec's single device-wide mutex
	cfg      config.DeviceConfig
	handlers *HandlerTable
	observer Observer

	state   atomic.Int32
	running atomic.Bool

	queue *OutboundQueue
	id    string
}

// New returns a Device configured with cfg, which must already satisfy
// Validate. Most callers should use the root package's Begin instead,
// which builds a default config from an auth token and applies
// functional options.
func New(cfg config.DeviceConfig) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Device{
		cfg:      cfg,
		handlers: NewHandlerTable(),
		queue:    NewOutboundQueue(),
		id:       uuid.NewString(),
	}, nil
}

// State returns the current connection state.
func (d *Device) State() ConnectionState {
	return ConnectionState(d.state.Load())
}

// SetStateObserver registers cb to receive every connection state
// transition. Replaces any previously registered observer. Must be
// called before Run to observe the initial transition out of Stopped.
func (d *Device) SetStateObserver(cb Observer) {
	d.mu.Lock()
	d.observer = cb
	d.mu.Unlock()
}

// SetTimeout updates the per-request response deadline and the
// connect/write deadline used by future I/O. Takes effect on the next
// session attempt; a session already running keeps the timeout it
// started with.
func (d *Device) SetTimeout(timeout time.Duration) {
	d.mu.Lock()
	d.cfg.Timeout = timeout
	d.mu.Unlock()
}

// SetHeartbeatInterval updates the idle interval before a PING is sent.
func (d *Device) SetHeartbeatInterval(interval time.Duration) {
	d.mu.Lock()
	d.cfg.HeartbeatInterval = interval
	d.mu.Unlock()
}

// SetReconnectDelay updates the fixed wait between reconnect attempts.
func (d *Device) SetReconnectDelay(delay time.Duration) {
	d.mu.Lock()
	d.cfg.ReconnectDelay = delay
	d.mu.Unlock()
}

// RegisterCommandHandler installs cb for inbound HARDWARE commands
// named name (truncated to MaxCommandNameLen bytes). Returns KindMem
// if the 8-slot table is full.
func (d *Device) RegisterCommandHandler(name string, cb CommandHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.handlers.Register(name, cb); err != nil {
		return err
	}
	return nil
}

// DeregisterCommandHandler removes name's handler, if any.
func (d *Device) DeregisterCommandHandler(name string) {
	d.mu.Lock()
	d.handlers.Deregister(name)
	d.mu.Unlock()
}

// Send submits a fire-and-forget request for cmd with a payload built
// from fields, waiting up to ctx's deadline for queue space. cmd must
// not be wire.CommandResponse; use SendResponse for that.
func (d *Device) Send(ctx context.Context, cmd wire.Command, fields ...wire.Field) error {
	if cmd == wire.CommandResponse {
		return newError(KindInvalidOption, nil)
	}
	if kindErr := d.requireConnected(); kindErr != nil {
		return kindErr
	}
	payload := wire.NewFieldWriter().Append(fields...).Bytes()
	return d.queue.Submit(ctx, Request{Frame: wire.Frame{Command: cmd, Payload: payload}})
}

// SendWithCallback is Send plus a ResponseHandler invoked once the
// matching RESPONSE frame arrives, the request times out, or the
// session disconnects.
func (d *Device) SendWithCallback(ctx context.Context, cmd wire.Command, cb ResponseHandler, fields ...wire.Field) error {
	if cmd == wire.CommandResponse {
		return newError(KindInvalidOption, nil)
	}
	if kindErr := d.requireConnected(); kindErr != nil {
		return kindErr
	}
	payload := wire.NewFieldWriter().Append(fields...).Bytes()
	return d.queue.Submit(ctx, Request{Frame: wire.Frame{Command: cmd, Payload: payload}, Handler: cb})
}

// SendResponse submits a RESPONSE frame for id carrying status —
// the reply to an inbound HARDWARE command. The runtime sends no
// automatic RESPONSE for a command a handler accepted, so a handler
// that wants to answer does so through SendResponse.
func (d *Device) SendResponse(ctx context.Context, id uint16, status wire.Status) error {
	if kindErr := d.requireConnected(); kindErr != nil {
		return kindErr
	}
	return d.queue.Submit(ctx, Request{Frame: wire.NewResponse(id, status)})
}

// requireConnected returns KindNotAuthenticated when no session has
// completed login, or KindNotConnected when the runtime hasn't even
// started (or has stopped). nil indicates requests may be submitted.
func (d *Device) requireConnected() *Error {
	switch d.State() {
	case StateAuthenticated:
		return nil
	case StateConnected:
		return newError(KindNotAuthenticated, nil)
	default:
		return newError(KindNotConnected, nil)
	}
}

// Run starts the runtime task: it connects, logs in, serves requests,
// and reconnects after ReconnectDelay on every disconnect, until ctx is
// canceled. Run blocks until ctx is done or an unrecoverable error
// occurs; the only fatal error is a server address that does not parse
// as host:port, which ends Run with KindErrno. Every other failure is
// retried. Calling Run while it is already running returns KindRunning.
func (d *Device) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return newError(KindRunning, nil)
	}
	defer d.running.Store(false)

	d.transitionTo(StateDisconnected, nil, 0)
	defer d.transitionTo(StateStopped, nil, 0)

	for {
		snap := d.snapshot()
		if _, _, err := net.SplitHostPort(snap.ServerAddress); err != nil {
			return newError(KindErrno, err)
		}

		sessErr := d.runSession(ctx, snap)
		if sessErr == nil {
			return nil
		}

		d.transitionTo(StateDisconnected, sessErr, 0)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(snap.ReconnectDelay):
		}
	}
}

func (d *Device) snapshot() config.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.Snapshot()
}

// transitionTo updates state, emits a StateChange protocol log event
// for every transition (Stopped, Disconnected, Connected, and
// Authenticated alike), and fans out exactly one observer call for the
// change, outside of d.mu, so an observer callback can never deadlock
// by calling back into the Device.
func (d *Device) transitionTo(state ConnectionState, err *Error, _ time.Duration) {
	old := ConnectionState(d.state.Load())
	d.state.Store(int32(state))

	reason := ""
	if err != nil {
		reason = err.Error()
	}
	d.logStateChange(old, state, reason)

	d.mu.Lock()
	observer := d.observer
	d.mu.Unlock()

	if observer == nil {
		return
	}
	ev := Event{State: state}
	if err != nil {
		ev.Kind = err.Kind
		ev.Status = err.Status
	}
	observer(ev)
}

func (d *Device) protocolLog(ev applog.Event) {
	ev.Timestamp = time.Now()
	d.mu.Lock()
	logger := d.cfg.ProtocolLogger
	d.mu.Unlock()
	config.Logger(logger).Log(ev)
}
