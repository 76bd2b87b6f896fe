package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blynkkk/blynk-go/pkg/wire"
)

func TestSubmitThenTryPop(t *testing.T) {
	q := NewOutboundQueue()
	req := Request{Frame: wire.Frame{Command: wire.CommandPing}}

	require.NoError(t, q.Submit(context.Background(), req))

	got, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, wire.CommandPing, got.Frame.Command)
}

func TestTryPopOnEmptyQueue(t *testing.T) {
	q := NewOutboundQueue()
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestSubmitWakesUpOnce(t *testing.T) {
	q := NewOutboundQueue()
	require.NoError(t, q.Submit(context.Background(), Request{}))
	require.NoError(t, q.Submit(context.Background(), Request{}))

	select {
	case <-q.wake():
	default:
		t.Fatal("expected a pending wake-up after two submits")
	}

	// The capacity-1 wake channel coalesces: a second pending wake-up
	// is not observable as a second receive.
	select {
	case <-q.wake():
		t.Fatal("wake channel should not carry a second signal")
	default:
	}
}

func TestSubmitBlocksWhenFullUntilContextDone(t *testing.T) {
	q := NewOutboundQueue()
	for i := 0; i < OutboundQueueCapacity; i++ {
		require.NoError(t, q.Submit(context.Background(), Request{}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.Submit(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, KindMem, err.(*Error).Kind)
}

func TestResetDropsAllPendingRequests(t *testing.T) {
	q := NewOutboundQueue()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Submit(context.Background(), Request{}))
	}

	q.Reset()

	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestDrainWakeConsumesPendingSignal(t *testing.T) {
	q := NewOutboundQueue()
	require.NoError(t, q.Submit(context.Background(), Request{}))

	q.DrainWake()

	select {
	case <-q.wake():
		t.Fatal("DrainWake should have consumed the pending signal")
	default:
	}
}
