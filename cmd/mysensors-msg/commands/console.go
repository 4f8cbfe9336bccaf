package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/serialapi"
	"github.com/mysensors/mysensors-go/pkg/transport"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// Console is an interactive message builder. It edits one message at a
// time and can send it over a gateway link.
type Console struct {
	cfg  Config
	out  io.Writer
	msg  *wire.Message
	conn *transport.Conn
}

// NewConsole creates a console writing to out.
func NewConsole(cfg Config, out io.Writer) *Console {
	c := &Console{cfg: cfg, out: out}
	c.reset()
	return c
}

// Attach sets the link used by send.
func (c *Console) Attach(conn *transport.Conn) {
	c.conn = conn
}

// Message returns the message being edited.
func (c *Console) Message() *wire.Message {
	return c.msg
}

func (c *Console) reset() {
	c.msg = wire.New().
		SetSender(c.cfg.Sender).
		SetLast(c.cfg.Sender).
		SetDestination(c.cfg.Destination).
		SetCommand(wire.CommandSet)
}

// Exec runs one console line and reports whether the console should exit.
func (c *Console) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		c.printHelp()
	case "new", "n":
		c.reset()
	case "set", "s":
		err = c.cmdSet(args)
	case "payload", "p":
		err = c.cmdPayload(args)
	case "show":
		err = formatMessage(c.out, c.msg)
	case "hex", "encode":
		var frame []byte
		if frame, err = wire.Encode(c.msg); err == nil {
			fmt.Fprintf(c.out, "%X\n", frame)
		}
	case "serial":
		fmt.Fprint(c.out, serialapi.Format(c.msg))
	case "decode", "d":
		err = c.load(strings.Join(args, ""), "hex")
	case "parse":
		err = c.load(strings.Join(args, " "), "serial")
	case "send":
		err = c.cmdSend()
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return false
}

func (c *Console) cmdSet(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set <field> <value>")
	}
	field, value := strings.ToLower(args[0]), args[1]

	switch field {
	case "command", "cmd":
		cmd, err := wire.ParseCommand(value)
		if err != nil {
			return err
		}
		c.msg.SetCommand(cmd)
		return nil
	case "type":
		typ, err := wire.ParseType(c.msg.Command(), value)
		if err != nil {
			n, nerr := strconv.ParseUint(value, 10, 8)
			if nerr != nil {
				return err
			}
			typ = uint8(n)
		}
		c.msg.SetType(typ)
		return nil
	case "ack", "request_ack", "request-ack":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s", field, value)
		}
		if field == "ack" {
			c.msg.SetAck(b)
		} else {
			c.msg.SetRequestAck(b)
		}
		return nil
	}

	n, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return fmt.Errorf("invalid %s: %s", field, value)
	}
	v := uint8(n)
	switch field {
	case "sender", "from":
		c.msg.SetSender(v)
	case "destination", "dest", "to":
		c.msg.SetDestination(v)
	case "last":
		c.msg.SetLast(v)
	case "sensor", "child":
		c.msg.SetSensor(v)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func (c *Console) cmdPayload(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: payload <kind> [value]")
	}
	kind, err := wire.ParsePayloadType(args[0])
	if err != nil {
		return err
	}
	v, err := wire.ParseValue(kind, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	c.msg.SetValue(v)
	return nil
}

func (c *Console) load(input, mode string) error {
	m, err := DecodeInput(input, mode)
	if err != nil {
		return err
	}
	c.msg = m
	return formatMessage(c.out, m)
}

func (c *Console) cmdSend() error {
	if c.conn == nil {
		return errors.New("not connected (start with -gateway host:port)")
	}
	if err := c.conn.Send(c.msg); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "sent %s", serialapi.FormatDownlink(c.msg))
	return nil
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Message Builder Commands:
  new                    - Start a new message from the configured defaults
  set <field> <value>    - Set sender, destination, last, sensor, command,
                           type, ack or request_ack
  payload <kind> <value> - Set the payload (STRING, BYTE, INT16, UINT16,
                           LONG32, ULONG32, CUSTOM, FLOAT32)
  show                   - Show the current message
  hex                    - Print the radio frame
  serial                 - Print the gateway line
  decode <hex>           - Load a radio frame
  parse <line>           - Load a gateway line
  send                   - Send the message to the gateway
  quit                   - Exit`)
}

// RunConsole runs the interactive loop until EOF, quit or ctx is done.
// When cfg.Gateway is set the console connects to it and prints every
// message received.
func RunConsole(ctx context.Context, cfg Config, logger log.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "msg> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	console := NewConsole(cfg, rl.Stdout())

	if cfg.Gateway != "" {
		conn, err := transport.Dial(ctx, cfg.Gateway, transport.DialConfig{
			Logger:   logger,
			Attempts: 5,
		})
		if err != nil {
			return err
		}
		defer conn.Close()
		console.Attach(conn)
		fmt.Fprintf(rl.Stdout(), "Connected to %s\n", cfg.Gateway)

		go receiveLoop(conn, rl.Stdout())
	}

	console.printHelp()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if console.Exec(line) {
			return nil
		}
	}
}

func receiveLoop(conn *transport.Conn, w io.Writer) {
	for {
		m, err := conn.Receive()
		switch {
		case err == nil:
			fmt.Fprintf(w, "recv %s", serialapi.Format(m))
		case errors.Is(err, transport.ErrVersionMismatch), errors.Is(err, wire.ErrPayloadTruncated):
			fmt.Fprintf(w, "recv error: %v\n", err)
		default:
			if !errors.Is(err, transport.ErrClosed) && err != io.EOF {
				fmt.Fprintf(w, "link error: %v\n", err)
			}
			return
		}
	}
}
