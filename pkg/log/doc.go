// Package log provides protocol capture for MySensors message traffic.
//
// This package defines the Logger interface and Event types for recording
// what crossed a link at two layers: raw frames (transport) and decoded
// messages (wire). It is separate from operational logging (slog); a capture
// file is a complete machine-readable trace for debugging and replay.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	conn.SetLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For field captures: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/mysensors/gateway.mlog")
//
//	// Both: use MultiLogger
//	conn.SetLogger(log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl))
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with the .mlog
// extension. The mysensors-msg CLI views, filters and exports them.
package log
