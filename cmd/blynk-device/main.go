// Command blynk-device is a reference Blynk device implementation.
//
// It demonstrates a complete client using the connection runtime: CLI
// flags, an optional YAML configuration file, a simulated virtual-pin
// value loop, and an interactive console for driving the device by
// hand.
//
// Usage:
//
//	blynk-device [flags]
//
// Flags:
//
//	-token string          Auth token (required unless set in -config)
//	-config string          YAML configuration file path
//	-server string          Server address (default "blynk.cloud:8080")
//	-timeout duration       Per-request response deadline (default 5s)
//	-heartbeat duration     Idle interval before a PING (default 2s)
//	-reconnect duration     Delay between reconnect attempts (default 5s)
//	-pin int                Virtual pin simulated by -simulate (default 0)
//	-simulate               Periodically push a synthetic value on -pin
//	-interactive            Enable the interactive console
//	-log-level string       Log level: debug, info, warn, error (default "info")
//	-protocol-log string    File path for protocol event logging (CBOR format)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	blynk "github.com/blynkkk/blynk-go"
	"github.com/blynkkk/blynk-go/pkg/log"
)

type cliConfig struct {
	AuthToken         string
	ConfigFile        string
	ServerAddress     string
	Timeout           time.Duration
	HeartbeatInterval time.Duration
	ReconnectDelay    time.Duration
	Pin               int
	Simulate          bool
	Interactive       bool
	LogLevel          string
	ProtocolLogFile   string
}

var cfg cliConfig

func init() {
	flag.StringVar(&cfg.AuthToken, "token", "", "Auth token (required unless set in -config)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file path")
	flag.StringVar(&cfg.ServerAddress, "server", "", "Server address (default blynk.cloud:8080)")
	flag.DurationVar(&cfg.Timeout, "timeout", 0, "Per-request response deadline (default 5s)")
	flag.DurationVar(&cfg.HeartbeatInterval, "heartbeat", 0, "Idle interval before a PING (default 2s)")
	flag.DurationVar(&cfg.ReconnectDelay, "reconnect", 0, "Delay between reconnect attempts (default 5s)")
	flag.IntVar(&cfg.Pin, "pin", 0, "Virtual pin simulated by -simulate")
	flag.BoolVar(&cfg.Simulate, "simulate", false, "Periodically push a synthetic value on -pin")
	flag.BoolVar(&cfg.Interactive, "interactive", false, "Enable the interactive console")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&cfg.ProtocolLogFile, "protocol-log", "", "File path for protocol event logging (CBOR format)")
}

func main() {
	flag.Parse()

	if cfg.ConfigFile != "" {
		if err := applyConfigFile(cfg.ConfigFile); err != nil {
			fmt.Fprintf(os.Stderr, "blynk-device: %v\n", err)
			os.Exit(1)
		}
	}

	if cfg.AuthToken == "" {
		fmt.Fprintln(os.Stderr, "blynk-device: -token is required (or set auth_token in -config)")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	opts := []blynk.Option{blynk.WithLogger(logger)}
	if cfg.ServerAddress != "" {
		opts = append(opts, blynk.WithServerAddress(cfg.ServerAddress))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, blynk.WithTimeout(cfg.Timeout))
	}
	if cfg.HeartbeatInterval > 0 {
		opts = append(opts, blynk.WithHeartbeatInterval(cfg.HeartbeatInterval))
	}
	if cfg.ReconnectDelay > 0 {
		opts = append(opts, blynk.WithReconnectDelay(cfg.ReconnectDelay))
	}

	var protocolLogger *log.FileLogger
	if cfg.ProtocolLogFile != "" {
		var err error
		protocolLogger, err = log.NewFileLogger(cfg.ProtocolLogFile)
		if err != nil {
			logger.Error("failed to create protocol logger", "error", err)
			os.Exit(1)
		}
		opts = append(opts, blynk.WithProtocolLogger(protocolLogger))
		logger.Info("protocol logging enabled", "path", cfg.ProtocolLogFile)
	}

	device, err := blynk.Begin(cfg.AuthToken, opts...)
	if err != nil {
		logger.Error("failed to create device", "error", err)
		os.Exit(1)
	}

	device.SetStateObserver(func(e blynk.Event) {
		if e.Kind != blynk.KindOK {
			logger.Warn("state changed", "state", e.State, "kind", e.Kind, "status", e.Status)
		} else {
			logger.Info("state changed", "state", e.State)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := newSimulator(device, uint8(cfg.Pin))
	if cfg.Simulate && !cfg.Interactive {
		sim.start(ctx)
	}

	var console *console
	if cfg.Interactive {
		console, err = newConsole(device, sim)
		if err != nil {
			logger.Error("failed to start interactive console", "error", err)
			os.Exit(1)
		}
		go console.run(cancel)
	}

	runDone := make(chan error, 1)
	go func() { runDone <- device.Run(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}

	<-runDone
	sim.stop()
	if console != nil {
		console.close()
	}
	if protocolLogger != nil {
		if err := protocolLogger.Close(); err != nil {
			logger.Warn("failed to close protocol logger", "error", err)
		}
	}
}

func applyConfigFile(path string) error {
	fc, err := loadConfigFile(path)
	if err != nil {
		return err
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = fc.AuthToken
	}
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = fc.ServerAddress
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = fc.Timeout
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = fc.HeartbeatInterval
	}
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = fc.ReconnectDelay
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
