package runtime

import (
	"context"
	"time"

	"github.com/blynkkk/blynk-go/pkg/wire"
)

// OutboundQueueCapacity is the bounded FIFO depth for outbound
// requests.
const OutboundQueueCapacity = 16

// Request is one outbound submission: a frame to encode onto the
// wire, optionally awaited with a response handler. Frame.ID is 0 until
// the session goroutine allocates one via RequestRegistry; the caller
// only ever sets it for the CommandResponse fast-path, which never goes
// through the registry.
type Request struct {
	Frame   wire.Frame
	Handler ResponseHandler
}

// OutboundQueue is the cross-goroutine submission channel between
// application threads and the session goroutine. Go's buffered
// channels already give submit/try_pop/reset without a hand-rolled
// ring buffer and separate wake-up primitive; the wake channel here
// exists anyway because the session goroutine must wait on it
// alongside socket readiness in the same select, which a plain channel
// receive on reqCh cannot do without risking a request sitting
// unprocessed while the readiness loop blocks on a net.Conn read.
type OutboundQueue struct {
	reqCh  chan Request
	wakeCh chan struct{}
}

// NewOutboundQueue returns an empty, ready-to-use queue.
func NewOutboundQueue() *OutboundQueue {
	return &OutboundQueue{
		reqCh:  make(chan Request, OutboundQueueCapacity),
		wakeCh: make(chan struct{}, 1),
	}
}

// Submit enqueues req, blocking up to ctx's deadline if the queue is
// full. On success it performs the non-blocking wake-up send: the
// wake channel has capacity 1, so a pending wake-up is never lost and
// the send never blocks.
func (q *OutboundQueue) Submit(ctx context.Context, req Request) error {
	select {
	case q.reqCh <- req:
	case <-ctx.Done():
		return newError(KindMem, ctx.Err())
	}

	select {
	case q.wakeCh <- struct{}{}:
	default:
	}
	return nil
}

// TryPop performs a non-blocking dequeue, returning false if the queue
// is empty.
func (q *OutboundQueue) TryPop() (Request, bool) {
	select {
	case req := <-q.reqCh:
		return req, true
	default:
		return Request{}, false
	}
}

// Reset drains every enqueued request without acting on it. Called when
// a new session has connected, before its loop starts, so a stale
// request from the previous connection is never flushed onto the new
// socket.
func (q *OutboundQueue) Reset() {
	for {
		select {
		case <-q.reqCh:
		default:
			return
		}
	}
}

// DrainWake consumes a pending wake-up notification, if any. Called by
// the readiness loop after its select wakes on wakeCh, so the next
// wait doesn't immediately fire again on the same stale signal.
func (q *OutboundQueue) DrainWake() {
	select {
	case <-q.wakeCh:
	default:
	}
}

// wake exposes the channel the readiness loop selects on.
func (q *OutboundQueue) wake() <-chan struct{} { return q.wakeCh }

// waitTimeout returns a channel that receives once d has elapsed, for
// use in a select. It applies no default: a zero or negative d fires
// at once.
func waitTimeout(d time.Duration) <-chan time.Time {
	return time.After(d)
}
