package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blynkkk/blynk-go/pkg/wire"
)

func TestDispatchResponseResolvesAwaiter(t *testing.T) {
	reg := NewRequestRegistry()
	handlers := NewHandlerTable()
	var gotStatus wire.Status
	id := reg.Allocate(time.Now().Add(time.Minute), func(s wire.Status) { gotStatus = s })

	d := NewDispatcher(reg, handlers)
	_, ok, _, invoke := d.Dispatch(wire.Frame{Command: wire.CommandResponse, ID: id, Length: uint16(wire.StatusSuccess)})

	assert.False(t, ok, "RESPONSE frames never produce an auto-response")
	require.NotNil(t, invoke, "a RESPONSE frame always resolves through the registry")
	assert.Zero(t, gotStatus, "resolving must not happen until invoke runs")
	invoke()
	assert.Equal(t, wire.StatusSuccess, gotStatus)
}

func TestDispatchResponseUnknownIDIsSilentlyDropped(t *testing.T) {
	reg := NewRequestRegistry()
	d := NewDispatcher(reg, NewHandlerTable())

	_, ok, _, invoke := d.Dispatch(wire.Frame{Command: wire.CommandResponse, ID: 42, Length: uint16(wire.StatusSuccess)})
	assert.False(t, ok)
	require.NotNil(t, invoke)
	invoke()
}

func TestDispatchHardwareWithRegisteredHandler(t *testing.T) {
	reg := NewRequestRegistry()
	handlers := NewHandlerTable()

	var got Command
	require.Nil(t, handlers.Register("vw", func(cmd Command) { got = cmd }))

	d := NewDispatcher(reg, handlers)
	payload := wire.NewFieldWriter().Append(wire.String("vw"), wire.String("1"), wire.String("0")).Bytes()

	_, ok, handled, invoke := d.Dispatch(wire.Frame{Command: wire.CommandHardware, ID: 5, Payload: payload})

	assert.False(t, ok, "a handled command sends no automatic response")
	assert.True(t, handled)
	require.NotNil(t, invoke, "a matched handler must be invoked by the caller")
	assert.Zero(t, got.Name, "the handler must not run until invoke is called")
	invoke()
	assert.Equal(t, uint16(5), got.ID)
	assert.Equal(t, "vw", got.Name)
	assert.Equal(t, []string{"1", "0"}, got.Args)
}

func TestDispatchHardwareWithNoHandlerRepliesIllegalCommand(t *testing.T) {
	reg := NewRequestRegistry()
	d := NewDispatcher(reg, NewHandlerTable())

	payload := wire.NewFieldWriter().Append(wire.String("xx")).Bytes()
	resp, ok, handled, invoke := d.Dispatch(wire.Frame{Command: wire.CommandHardware, ID: 7, Payload: payload})

	require.True(t, ok)
	assert.False(t, handled)
	assert.Nil(t, invoke, "an unmatched command has nothing to invoke")
	assert.Equal(t, wire.CommandResponse, resp.Command)
	assert.Equal(t, uint16(7), resp.ID)
	assert.Equal(t, wire.StatusIllegalCommand, resp.StatusCode())
}

func TestDispatchUnrecognizedCommandRepliesIllegalCommand(t *testing.T) {
	d := NewDispatcher(NewRequestRegistry(), NewHandlerTable())

	resp, ok, handled, invoke := d.Dispatch(wire.Frame{Command: wire.CommandDebugPrint, ID: 3})

	require.True(t, ok)
	assert.False(t, handled)
	assert.Nil(t, invoke)
	assert.Equal(t, wire.StatusIllegalCommand, resp.StatusCode())
}
