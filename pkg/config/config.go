// Package config holds the runtime-tunable parameters of a Device
// connection and the snapshot mechanism the connection goroutine uses
// to read them without holding a lock across a blocking I/O call.
package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/blynkkk/blynk-go/pkg/log"
)

// Defaults for a new connection.
const (
	DefaultTimeout           = 5 * time.Second
	DefaultHeartbeatInterval = 2 * time.Second
	DefaultReconnectDelay    = 5 * time.Second
	DefaultServerAddress     = "blynk.cloud:8080"
)

// ErrInvalidConfig reports that a DeviceConfig failed Validate.
var ErrInvalidConfig = errors.New("config: invalid device configuration")

// DeviceConfig holds every tunable of a Device's connection runtime.
// A Device guards its DeviceConfig with a mutex and hands the session
// goroutine an immutable Snapshot rather than the config itself, so a
// Set* call from user code never races with the session reading the
// value mid-connection.
type DeviceConfig struct {
	// AuthToken authenticates the device at login.
	AuthToken string

	// ServerAddress is the "host:port" of the Blynk server.
	ServerAddress string

	// Timeout bounds how long a request may wait for its response
	// before it fails with KindTimeout.
	Timeout time.Duration

	// HeartbeatInterval is the idle time before a PING is sent.
	HeartbeatInterval time.Duration

	// ReconnectDelay is the fixed wait before a reconnect attempt
	// after the connection drops.
	ReconnectDelay time.Duration

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives structured protocol events for debugging.
	// Set to nil to disable protocol logging.
	ProtocolLogger log.Logger
}

// Default returns a DeviceConfig with sensible defaults for everything
// except AuthToken, which callers must always supply. ServerAddress
// defaults to DefaultServerAddress.
func Default() DeviceConfig {
	return DeviceConfig{
		ServerAddress:     DefaultServerAddress,
		Timeout:           DefaultTimeout,
		HeartbeatInterval: DefaultHeartbeatInterval,
		ReconnectDelay:    DefaultReconnectDelay,
	}
}

// Validate checks that the config is usable to open a connection.
func (c *DeviceConfig) Validate() error {
	if c.AuthToken == "" {
		return ErrInvalidConfig
	}
	if c.ServerAddress == "" {
		return ErrInvalidConfig
	}
	if c.Timeout <= 0 || c.HeartbeatInterval <= 0 || c.ReconnectDelay <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Snapshot is an immutable value-type copy of the fields the session
// goroutine consults while driving the connection. Reading through a
// Snapshot rather than the shared DeviceConfig means user calls like
// SetTimeout never need to coordinate with an in-flight read/write
// deadline calculation.
type Snapshot struct {
	AuthToken         string
	ServerAddress     string
	Timeout           time.Duration
	HeartbeatInterval time.Duration
	ReconnectDelay    time.Duration
}

// Snapshot copies the current config into a Snapshot. Callers take
// the DeviceConfig's guarding mutex, call Snapshot, and release the
// mutex before acting on the result — the read-copy-update discipline
// that keeps the blocking readiness loop lock-free.
func (c *DeviceConfig) Snapshot() Snapshot {
	return Snapshot{
		AuthToken:         c.AuthToken,
		ServerAddress:     c.ServerAddress,
		Timeout:           c.Timeout,
		HeartbeatInterval: c.HeartbeatInterval,
		ReconnectDelay:    c.ReconnectDelay,
	}
}

// Logger returns l, or a NoopLogger if l is nil, so callers can invoke
// Log unconditionally.
func Logger(l log.Logger) log.Logger {
	if l == nil {
		return log.NoopLogger{}
	}
	return l
}
