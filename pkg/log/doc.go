// Package log provides structured protocol logging for the Blynk
// connection runtime.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events (frames, command dispatch, state changes, errors).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/blynk/device.blog")
//
//	// Both: use MultiLogger
//	fileLogger, _ := log.NewFileLogger("/var/log/blynk/device.blog")
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Wire: frame bytes sent/received (FrameEvent)
//   - Dispatch: hardware command routing to a registered handler (CommandEvent)
//   - Session: connection lifecycle transitions (StateChangeEvent)
//
// Errors at any layer have a dedicated event type (ErrorEventData).
//
// # File Format
//
// Log files use CBOR encoding with a .blog extension. The blynk-log CLI
// tool provides viewing, filtering, and export capabilities.
package log
