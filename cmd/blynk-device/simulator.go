package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	blynk "github.com/blynkkk/blynk-go"
	"github.com/blynkkk/blynk-go/pkg/wire"
)

// simulator periodically pushes a synthetic value to a single virtual
// pin, standing in for a real sensor reading.
type simulator struct {
	device *blynk.Device
	pin    uint8

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	value   int64
}

func newSimulator(d *blynk.Device, pin uint8) *simulator {
	return &simulator{device: d, pin: pin}
}

func (s *simulator) start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.running = true
	go s.loop(ctx)
}

func (s *simulator) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.running = false
}

func (s *simulator) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// setValue pushes an explicit value immediately, used by the
// interactive console's "power" command.
func (s *simulator) setValue(ctx context.Context, v int64) error {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
	return s.device.Send(ctx, wire.CommandHardware, blynk.String("vw"),
		blynk.Uint(uint64(s.pin)), blynk.Int(v))
}

func (s *simulator) loop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.value = (s.value + 7) % 1024
			v := s.value
			s.mu.Unlock()

			sendCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := s.device.Send(sendCtx, wire.CommandHardware, blynk.String("vw"),
				blynk.Uint(uint64(s.pin)), blynk.Int(v)); err != nil {
				slog.Default().Debug("simulator: send failed", "error", err)
			}
			cancel()
		}
	}
}
