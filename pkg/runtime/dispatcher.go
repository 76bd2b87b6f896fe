package runtime

import (
	"github.com/blynkkk/blynk-go/pkg/wire"
)

// Dispatcher routes one parsed Frame to the registry (for RESPONSE
// frames) or to a registered CommandHandler (for HARDWARE frames),
// falling back to an immediate ILLEGAL_COMMAND response for anything
// else. It never blocks: handler code runs synchronously on the
// session goroutine, so handlers observe commands in wire order with
// no concurrent dispatch to reason about.
type Dispatcher struct {
	registry *RequestRegistry
	handlers *HandlerTable
}

// NewDispatcher builds a Dispatcher over the given registry and
// handler table.
func NewDispatcher(registry *RequestRegistry, handlers *HandlerTable) *Dispatcher {
	return &Dispatcher{registry: registry, handlers: handlers}
}

// Dispatch processes frame and returns a RESPONSE frame the caller
// must write back to the peer (ok == false if nothing needs to be
// sent), and invoke, a closure the caller must run after releasing
// whatever lock guards the handler table — invoke carries the actual
// user callback (a CommandHandler or a ResponseHandler), and running
// it while a lock is held risks a self-deadlock if the callback calls
// back into a method that takes the same lock. invoke is nil if frame
// carried nothing to run. handled reports whether a HARDWARE command
// found a registered handler, for protocol logging.
func (d *Dispatcher) Dispatch(frame wire.Frame) (response wire.Frame, ok bool, handled bool, invoke func()) {
	switch frame.Command {
	case wire.CommandResponse:
		id, status := frame.ID, frame.StatusCode()
		return wire.Frame{}, false, false, func() { d.registry.Resolve(id, status) }

	case wire.CommandHardware:
		args := wire.SplitArgs(frame.Payload)
		if len(args) == 0 {
			return wire.NewResponse(frame.ID, wire.StatusIllegalCommand), true, false, nil
		}
		name := args[0]
		handler, found := d.handlers.Lookup(name)
		if !found || handler == nil {
			return wire.NewResponse(frame.ID, wire.StatusIllegalCommand), true, false, nil
		}
		cmd := Command{ID: frame.ID, Name: name, Args: args[1:]}
		return wire.Frame{}, false, true, func() { handler(cmd) }

	default:
		return wire.NewResponse(frame.ID, wire.StatusIllegalCommand), true, false, nil
	}
}
