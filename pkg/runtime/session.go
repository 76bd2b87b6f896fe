package runtime

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/blynkkk/blynk-go/pkg/config"
	applog "github.com/blynkkk/blynk-go/pkg/log"
	"github.com/blynkkk/blynk-go/pkg/wire"
)

// writeBufferSize comfortably covers the largest encodable frame
// (HeaderSize + MaxPayloadSize).
const writeBufferSize = wire.HeaderSize + wire.MaxPayloadSize

// frameChanDepth lets the reader goroutine stay a little ahead of the
// session loop without unbounded buffering.
const frameChanDepth = 4

// runSession drives exactly one TCP connection attempt through dial,
// login, and the authenticated readiness loop, returning the *Error
// that ended it. A nil return means ctx was canceled — a clean,
// caller-requested shutdown rather than a disconnect to retry. Any
// non-nil return is also emitted as an Error protocol log event before
// it reaches the caller.
func (d *Device) runSession(ctx context.Context, snap config.Snapshot) (sessErr *Error) {
	defer func() {
		if sessErr != nil {
			d.logError(applog.LayerSession, sessErr, "session ended")
		}
	}()

	dialer := &net.Dialer{Timeout: snap.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", snap.ServerAddress)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return classifyDialErr(err)
	}
	defer conn.Close()

	d.transitionTo(StateConnected, nil, 0)

	registry := NewRequestRegistry()
	defer registry.Reset(wire.StatusTimeout)
	parser := wire.NewParser()
	d.queue.Reset()

	frameCh := make(chan wire.Frame, frameChanDepth)
	errCh := make(chan error, 1)
	doneCh := make(chan struct{})
	defer close(doneCh)

	go d.readLoop(conn, parser, frameCh, errCh, doneCh)

	if loginErr := d.login(ctx, conn, snap, frameCh, errCh); loginErr != nil {
		return loginErr
	}
	if ctx.Err() != nil {
		return nil
	}

	d.transitionTo(StateAuthenticated, nil, 0)

	return d.serve(ctx, conn, snap, registry, frameCh, errCh)
}

// login sends the LOGIN frame (id 0, auth token payload) and waits for
// its RESPONSE, bounded by snap.Timeout. LOGIN never goes through
// RequestRegistry: id 0 can't occupy a slot, so the wait is a small
// dedicated loop instead.
func (d *Device) login(ctx context.Context, conn net.Conn, snap config.Snapshot, frameCh <-chan wire.Frame, errCh <-chan error) *Error {
	loginFrame := wire.Frame{Command: wire.CommandLogin, Payload: []byte(snap.AuthToken)}
	if err := d.writeFrame(conn, loginFrame, snap.Timeout); err != nil {
		return classifyIOErr(err)
	}

	deadline := time.NewTimer(snap.Timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case frame := <-frameCh:
			d.logFrame(applog.DirectionIn, frame)
			if frame.Command != wire.CommandResponse || frame.ID != 0 {
				continue
			}
			status := frame.StatusCode()
			if status.IsSuccess() {
				return nil
			}
			return newStatusError(status)

		case err := <-errCh:
			return classifyIOErr(err)

		case <-deadline.C:
			return newError(KindTimeout, nil)
		}
	}
}

// serve runs the authenticated readiness loop: multiplex inbound
// frames, outbound-queue wake-ups, and the nearest of the awaiter or
// heartbeat deadlines, until a disconnect condition fires.
func (d *Device) serve(ctx context.Context, conn net.Conn, snap config.Snapshot, registry *RequestRegistry, frameCh <-chan wire.Frame, errCh <-chan error) *Error {
	heartbeatDeadline := time.Now().Add(snap.HeartbeatInterval)
	dispatcher := NewDispatcher(registry, d.handlers)
	var pending *Error

	disconnect := func(e *Error) { pending = e }

	for pending == nil {
		now := time.Now()
		wait := time.Until(heartbeatDeadline)
		if wait < 0 {
			wait = 0
		}
		if closest, ok := registry.ClosestDeadline(now); ok && closest < wait {
			wait = closest
		}

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case frame := <-frameCh:
			timer.Stop()
			d.logFrame(applog.DirectionIn, frame)
			// Any inbound frame proves the peer is alive, not just a
			// PING/RESPONSE, so the heartbeat deadline is pushed out
			// here rather than only after sendPing.
			heartbeatDeadline = time.Now().Add(snap.HeartbeatInterval)
			d.handleInbound(conn, dispatcher, frame, snap, disconnect)

		case <-d.queue.wake():
			timer.Stop()
			d.queue.DrainWake()
			d.drainOutbound(conn, registry, snap, disconnect)

		case <-timer.C:
			registry.Expire(time.Now())
			if !time.Now().Before(heartbeatDeadline) {
				heartbeatDeadline = time.Now().Add(snap.HeartbeatInterval)
				d.sendPing(conn, registry, snap, disconnect)
			}

		case err := <-errCh:
			timer.Stop()
			disconnect(classifyIOErr(err))
		}
	}

	return pending
}

// handleInbound looks up the frame's handler under d.mu (the table it
// consults is shared with RegisterCommandHandler/DeregisterCommandHandler
// on application goroutines) but invokes it only after releasing the
// lock: a CommandHandler or ResponseHandler is user code, and running
// it while d.mu is held would self-deadlock the session goroutine the
// moment it called back into e.g. RegisterCommandHandler or SetTimeout.
func (d *Device) handleInbound(conn net.Conn, dispatcher *Dispatcher, frame wire.Frame, snap config.Snapshot, disconnect func(*Error)) {
	d.mu.Lock()
	resp, ok, handled, invoke := dispatcher.Dispatch(frame)
	d.mu.Unlock()

	if invoke != nil {
		invoke()
	}

	if frame.Command == wire.CommandHardware {
		d.logCommand(frame, handled)
	}

	if ok {
		if err := d.writeFrame(conn, resp, snap.Timeout); err != nil {
			disconnect(classifyIOErr(err))
		}
	}
}

func (d *Device) drainOutbound(conn net.Conn, registry *RequestRegistry, snap config.Snapshot, disconnect func(*Error)) {
	for {
		req, has := d.queue.TryPop()
		if !has {
			return
		}
		// Every outbound frame needs a non-zero id, including
		// fire-and-forget sends (req.Handler == nil) — Allocate still
		// hands those an id, just not a tracked slot. RESPONSE frames
		// are the one exception: their id must echo the inbound
		// request's id, never a freshly allocated one.
		if req.Frame.ID == 0 && req.Frame.Command != wire.CommandResponse {
			id := registry.Allocate(time.Now().Add(snap.Timeout), req.Handler)
			if id == 0 && req.Handler != nil {
				disconnect(newError(KindMem, nil))
				return
			}
			req.Frame.ID = id
		}
		if err := d.writeFrame(conn, req.Frame, snap.Timeout); err != nil {
			disconnect(classifyIOErr(err))
			return
		}
	}
}

func (d *Device) sendPing(conn net.Conn, registry *RequestRegistry, snap config.Snapshot, disconnect func(*Error)) {
	id := registry.Allocate(time.Now().Add(snap.Timeout), func(status wire.Status) {
		if !status.IsSuccess() {
			if status == wire.StatusTimeout {
				disconnect(newError(KindTimeout, nil))
			} else {
				disconnect(newStatusError(status))
			}
		}
	})
	if id == 0 {
		disconnect(newError(KindMem, nil))
		return
	}
	ping := wire.Frame{Command: wire.CommandPing, ID: id}
	if err := d.writeFrame(conn, ping, snap.Timeout); err != nil {
		disconnect(classifyIOErr(err))
	}
}

// readLoop feeds bytes read from conn into parser one at a time and
// forwards completed frames to frameCh. It exits when conn errors or
// doneCh closes (the session goroutine tearing down).
func (d *Device) readLoop(conn net.Conn, parser *wire.Parser, frameCh chan<- wire.Frame, errCh chan<- error, doneCh <-chan struct{}) {
	buf := make([]byte, 512)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			select {
			case errCh <- err:
			case <-doneCh:
			}
			return
		}
		for i := 0; i < n; i++ {
			if frame, complete := parser.Feed(buf[i]); complete {
				select {
				case frameCh <- frame:
				case <-doneCh:
					return
				}
			}
		}
	}
}

// writeFrame encodes f and writes it to conn, bounded by timeout,
// logging it as an outbound protocol event on success.
func (d *Device) writeFrame(conn net.Conn, f wire.Frame, timeout time.Duration) error {
	var buf [writeBufferSize]byte
	n, err := f.Encode(buf[:])
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := conn.Write(buf[:n]); err != nil {
		return err
	}
	d.logFrame(applog.DirectionOut, f)
	return nil
}

func classifyDialErr(err error) *Error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return newError(KindGAI, err)
	}
	return newError(KindErrno, err)
}

func classifyIOErr(err error) *Error {
	if errors.Is(err, io.EOF) {
		return newError(KindClosed, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return newError(KindTimeout, err)
	}
	return newError(KindErrno, err)
}

// logStateChange emits a StateChange protocol log event for a
// transition from old to newState, if a protocol logger is configured.
func (d *Device) logStateChange(old, newState ConnectionState, reason string) {
	d.protocolLog(applog.Event{
		ConnectionID: d.id,
		Direction:    applog.DirectionIn,
		Layer:        applog.LayerSession,
		Category:     applog.CategoryState,
		StateChange:  &applog.StateChangeEvent{OldState: old.String(), NewState: newState.String(), Reason: reason},
	})
}

// logFrame emits a Frame protocol log event for a frame sent or
// received on the wire.
func (d *Device) logFrame(dir applog.Direction, f wire.Frame) {
	d.protocolLog(applog.Event{
		ConnectionID: d.id,
		Direction:    dir,
		Layer:        applog.LayerWire,
		Category:     applog.CategoryFrame,
		Frame:        &applog.FrameEvent{Command: f.Command, ID: f.ID, Length: f.Length, PayloadSize: len(f.Payload)},
	})
}

// logError emits an Error protocol log event for err, tagging it with
// the layer it surfaced from and a short human-readable context.
func (d *Device) logError(layer applog.Layer, err *Error, context string) {
	d.protocolLog(applog.Event{
		ConnectionID: d.id,
		Direction:    applog.DirectionIn,
		Layer:        layer,
		Category:     applog.CategoryError,
		Error:        &applog.ErrorEventData{Layer: layer, Message: err.Error(), Context: context},
	})
}

func (d *Device) logCommand(frame wire.Frame, handled bool) {
	args := wire.SplitArgs(frame.Payload)
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	status := wire.StatusIllegalCommand
	if handled {
		status = wire.StatusSuccess
	}
	d.protocolLog(applog.Event{
		ConnectionID: d.id,
		Direction:    applog.DirectionIn,
		Layer:        applog.LayerDispatch,
		Category:     applog.CategoryCommand,
		Command:      &applog.CommandEvent{Name: name, Handled: handled, Status: status},
	})
}
