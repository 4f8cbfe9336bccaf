// Command mysensors-msg builds, decodes and captures MySensors messages.
//
// Usage:
//
//	mysensors-msg <command> [flags] [args]
//
// Commands:
//
//	encode   Build a message and print it as hex, CBOR, serial or YAML
//	decode   Decode a radio frame, CBOR host form or gateway line
//	vectors  Check a YAML vector file (or the built-in set)
//	console  Interactive message builder, optionally linked to a gateway
//	serve    Accept framed TCP links and print received messages
//	view     View a capture file in human-readable format
//	stats    Show statistics about a capture file
//	export   Export a capture file to JSONL, CSV or gateway lines
//
// Examples:
//
//	# Encode a temperature reading from node 12
//	mysensors-msg encode -sender 12 -dest 0 -sensor 1 -type V_TEMP -kind FLOAT32 -value 21.5
//
//	# Decode a radio frame
//	mysensors-msg decode 0C0C002AE100010000AC4101
//
//	# Run a gateway with a protocol capture
//	mysensors-msg serve -listen :5003 -protocol-log gw.mlog
//
//	# Show messages from node 12 in a capture
//	mysensors-msg view -node 12 gw.mlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mysensors/mysensors-go/cmd/mysensors-msg/commands"
	"github.com/mysensors/mysensors-go/pkg/log"
)

const usage = `mysensors-msg - MySensors Message Tool

Usage:
  mysensors-msg <command> [flags] [args]

Commands:
  encode   Build a message and print it as hex, CBOR, serial or YAML
  decode   Decode a radio frame, CBOR host form or gateway line
  vectors  Check a YAML vector file (or the built-in set)
  console  Interactive message builder, optionally linked to a gateway
  serve    Accept framed TCP links and print received messages
  view     View a capture file in human-readable format
  stats    Show statistics about a capture file
  export   Export a capture file to JSONL, CSV or gateway lines

Use "mysensors-msg <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "encode":
		runEncode(args)
	case "decode":
		runDecode(args)
	case "vectors":
		runVectors(args)
	case "console":
		runConsole(args)
	case "serve":
		runServe(args)
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "export":
		runExport(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newFlagSet(name, synopsis, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "mysensors-msg %s - %s\n\nUsage:\n  mysensors-msg %s [flags] %s\n\nFlags:\n",
			name, synopsis, name, args)
		fs.PrintDefaults()
	}
	return fs
}

// loadConfig reads -config and then applies any flags set explicitly.
func loadConfig(fs *flag.FlagSet, path string, apply func(cfg *commands.Config, name string)) commands.Config {
	cfg, err := commands.LoadConfig(path)
	if err != nil {
		fatal(err)
	}
	fs.Visit(func(f *flag.Flag) { apply(&cfg, f.Name) })
	return cfg
}

func newSlogger(level string) *slog.Logger {
	lvl, err := commands.ParseLogLevel(level)
	if err != nil {
		fatal(err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// protocolLogger combines the capture file (if any) with debug-level slog
// output. The returned close function flushes the capture.
func protocolLogger(cfg commands.Config, slogger *slog.Logger) (log.Logger, func()) {
	adapter := log.NewSlogAdapter(slogger)
	if cfg.ProtocolLog == "" {
		return adapter, func() {}
	}

	fl, err := log.NewFileLogger(cfg.ProtocolLog)
	if err != nil {
		fatal(fmt.Errorf("failed to create protocol log: %w", err))
	}
	slogger.Info("protocol logging enabled", "file", cfg.ProtocolLog)
	return log.NewMultiLogger(fl, adapter), func() {
		if n := fl.Dropped(); n > 0 {
			slogger.Warn("protocol log dropped events", "count", n)
		}
		fl.Close()
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runEncode(args []string) {
	fs := newFlagSet("encode", "Build a message and print it", "")

	configPath := fs.String("config", "", "Configuration file path")
	last := fs.Uint("last", 0, "Last hop node id (default: sender)")
	sender := fs.Uint("sender", 0, "Sender node id")
	dest := fs.Uint("dest", 255, "Destination node id")
	sensor := fs.Uint("sensor", 0, "Child sensor id")
	command := fs.String("command", "C_SET", "Command (C_PRESENTATION, C_SET, C_REQ, C_INTERNAL, C_STREAM)")
	typ := fs.String("type", "", "Type name or code, interpreted under -command")
	kind := fs.String("kind", "STRING", "Payload kind (STRING, BYTE, INT16, UINT16, LONG32, ULONG32, CUSTOM, FLOAT32)")
	value := fs.String("value", "", "Payload value (hex for CUSTOM)")
	requestAck := fs.Bool("request-ack", false, "Request an ack from the destination")
	ack := fs.Bool("ack", false, "Mark as ack echo")
	format := fs.String("format", "hex", "Output format (hex, cbor, serial, yaml)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *typ == "" {
		fmt.Fprintln(os.Stderr, "Error: -type required")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig(fs, *configPath, func(cfg *commands.Config, name string) {
		switch name {
		case "sender":
			cfg.Sender = uint8(*sender)
		case "dest":
			cfg.Destination = uint8(*dest)
		}
	})

	opts := commands.EncodeOptions{
		Last:        cfg.Sender,
		Sender:      cfg.Sender,
		Destination: cfg.Destination,
		Sensor:      uint8(*sensor),
		Command:     *command,
		Type:        *typ,
		Kind:        *kind,
		Value:       *value,
		RequestAck:  *requestAck,
		Ack:         *ack,
		Format:      *format,
	}
	if isFlagSet(fs, "last") {
		opts.Last = uint8(*last)
	}

	if err := commands.RunEncode(opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func runDecode(args []string) {
	fs := newFlagSet("decode", "Decode a message", "<input>")

	input := fs.String("input", "hex", "Input kind (hex, cbor, serial)")
	format := fs.String("format", "text", "Output format (text, yaml, json)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: input required")
		fs.Usage()
		os.Exit(1)
	}

	// A serial line never contains spaces outside the payload; keep them.
	text := fs.Arg(0)
	for _, a := range fs.Args()[1:] {
		text += " " + a
	}

	opts := commands.DecodeOptions{Input: *input, Format: *format}
	if err := commands.RunDecode(text, opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runVectors(args []string) {
	fs := newFlagSet("vectors", "Check test vectors", "[file.yaml]")

	verbose := fs.Bool("v", false, "List passing vectors too")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if _, err := commands.RunVectors(fs.Arg(0), *verbose, os.Stdout); err != nil {
		fatal(err)
	}
}

func runConsole(args []string) {
	fs := newFlagSet("console", "Interactive message builder", "")

	configPath := fs.String("config", "", "Configuration file path")
	gateway := fs.String("gateway", "", "Gateway address (host:port) to send messages to")
	sender := fs.Uint("sender", 0, "Default sender node id")
	dest := fs.Uint("dest", 255, "Default destination node id")
	protocolLog := fs.String("protocol-log", "", "Write a protocol capture to this file")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := loadConfig(fs, *configPath, func(cfg *commands.Config, name string) {
		switch name {
		case "gateway":
			cfg.Gateway = *gateway
		case "sender":
			cfg.Sender = uint8(*sender)
		case "dest":
			cfg.Destination = uint8(*dest)
		case "protocol-log":
			cfg.ProtocolLog = *protocolLog
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	slogger := newSlogger(cfg.LogLevel)
	logger, closeLog := protocolLogger(cfg, slogger)
	defer closeLog()

	ctx, cancel := signalContext()
	defer cancel()

	if err := commands.RunConsole(ctx, cfg, logger); err != nil {
		closeLog()
		fatal(err)
	}
}

func runServe(args []string) {
	fs := newFlagSet("serve", "Accept framed TCP links", "")

	configPath := fs.String("config", "", "Configuration file path")
	listen := fs.String("listen", ":5003", "Listen address")
	protocolLog := fs.String("protocol-log", "", "Write a protocol capture to this file")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := loadConfig(fs, *configPath, func(cfg *commands.Config, name string) {
		switch name {
		case "listen":
			cfg.Listen = *listen
		case "protocol-log":
			cfg.ProtocolLog = *protocolLog
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	slogger := newSlogger(cfg.LogLevel)
	logger, closeLog := protocolLogger(cfg, slogger)
	defer closeLog()

	ctx, cancel := signalContext()
	defer cancel()

	if err := commands.RunServe(ctx, cfg, logger, slogger, os.Stdout); err != nil {
		closeLog()
		fatal(err)
	}
}

func addFilterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	var opts commands.FilterOptions
	fs.StringVar(&opts.Session, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, wire)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, error)")
	fs.StringVar(&opts.Node, "node", "", "Filter by sender or destination node id")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return &opts
}

func requireLogPath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := newFlagSet("view", "View capture file in human-readable format", "<file.mlog>")
	opts := addFilterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := commands.RunView(requireLogPath(fs), *opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the capture file", "<file.mlog>")
	opts := addFilterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := commands.RunStats(requireLogPath(fs), *opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export capture file", "<file.mlog>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv, serial)")
	output := fs.String("o", "", "Output file (default: stdout)")
	opts := addFilterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := commands.RunExport(requireLogPath(fs), *format, *output, *opts); err != nil {
		fatal(err)
	}
}
