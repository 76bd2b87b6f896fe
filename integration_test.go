package blynk_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blynk "github.com/blynkkk/blynk-go"
	"github.com/blynkkk/blynk-go/internal/testutil"
	"github.com/blynkkk/blynk-go/pkg/wire"
)

// This exercises the public facade end to end against the fake server,
// mirroring the scenario already covered at the runtime package level
// but through Begin/RegisterCommandHandler/Run as an end user would
// call them.
func TestIntegration_BeginRunReceivesHardwareCommand(t *testing.T) {
	srv := testutil.NewServer(t, func(t *testing.T, conn net.Conn) {
		defer conn.Close()
		frame, err := testutil.ReadFrame(conn)
		if err != nil || frame.Command != wire.CommandLogin {
			return
		}
		_ = testutil.WriteFrame(conn, wire.NewResponse(0, wire.StatusSuccess))

		payload := wire.NewFieldWriter().Append(wire.String("vw"), wire.String("5"), wire.String("42")).Bytes()
		_ = testutil.WriteFrame(conn, wire.Frame{Command: wire.CommandHardware, ID: 1, Payload: payload})

		buf := make([]byte, 1)
		for {
			if _, err := conn.Read(buf); err != nil {
				return
			}
		}
	})

	d, err := blynk.Begin("a-token",
		blynk.WithServerAddress(srv.Addr()),
		blynk.WithTimeout(300*time.Millisecond),
		blynk.WithHeartbeatInterval(10*time.Second),
		blynk.WithReconnectDelay(50*time.Millisecond),
	)
	require.NoError(t, err)

	gotCh := make(chan blynk.Command, 1)
	require.NoError(t, d.RegisterCommandHandler("vw", func(cmd blynk.Command) {
		select {
		case gotCh <- cmd:
		default:
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = blynk.Run(ctx, d)
	}()

	select {
	case cmd := <-gotCh:
		assert.Equal(t, "vw", cmd.Name)
		assert.Equal(t, []string{"5", "42"}, cmd.Args)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("no hardware command observed")
	}

	cancel()
	<-done
}

func TestIntegration_SendBeforeAuthenticationIsRejected(t *testing.T) {
	d, err := blynk.Begin("a-token", blynk.WithServerAddress("127.0.0.1:0"))
	require.NoError(t, err)

	err = d.Send(context.Background(), wire.CommandHardware, blynk.String("vw"))
	require.Error(t, err)
	assert.Equal(t, blynk.KindNotConnected, err.(*blynk.Error).Kind)
}
