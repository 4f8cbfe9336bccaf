package serialapi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mysensors/mysensors-go/pkg/wire"
)

const (
	// Separator splits the fields of a line.
	Separator = ';'

	// MaxLineLength is the longest line a gateway accepts, terminator excluded.
	MaxLineLength = 100

	fieldCount = 6
)

// Parse errors. Returned errors wrap one of these and are *ParseError.
var (
	ErrFieldCount   = errors.New("wrong number of fields")
	ErrInvalidField = errors.New("invalid field")
	ErrLineTooLong  = errors.New("line too long")
)

// Field identifies a position in a serial line.
type Field int

const (
	FieldNode Field = iota
	FieldSensor
	FieldCommand
	FieldAck
	FieldType
	FieldPayload
)

var fieldNames = [...]string{"node", "sensor", "command", "ack", "type", "payload"}

func (f Field) String() string {
	if f >= 0 && int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "field(" + strconv.Itoa(int(f)) + ")"
}

// ParseError describes why a line was rejected.
type ParseError struct {
	Field Field
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrInvalidField) {
		return fmt.Sprintf("serialapi: %v: %s %q", e.Err, e.Field, e.Value)
	}
	return fmt.Sprintf("serialapi: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func invalid(f Field, v string) error {
	return &ParseError{Field: f, Value: v, Err: ErrInvalidField}
}

// Format renders m as an uplink line with the sender as node-id.
func Format(m *wire.Message) string {
	return format(m, m.Sender())
}

// FormatDownlink renders m as a controller line with the destination as
// node-id.
func FormatDownlink(m *wire.Message) string {
	return format(m, m.Destination())
}

func format(m *wire.Message, node uint8) string {
	var b strings.Builder
	b.Grow(16 + 2*wire.MaxPayload)

	ack := 0
	if m.IsAck() {
		ack = 1
	}
	b.WriteString(strconv.Itoa(int(node)))
	b.WriteByte(Separator)
	b.WriteString(strconv.Itoa(int(m.Sensor())))
	b.WriteByte(Separator)
	b.WriteString(strconv.Itoa(int(m.Command())))
	b.WriteByte(Separator)
	b.WriteString(strconv.Itoa(ack))
	b.WriteByte(Separator)
	b.WriteString(strconv.Itoa(int(m.Type())))
	b.WriteByte(Separator)
	b.WriteString(payloadText(m))
	b.WriteByte('\n')
	return b.String()
}

// payloadText renders the payload of m, cut at the first line terminator
// so that one message always stays on one line.
func payloadText(m *wire.Message) string {
	if m.Command() == wire.CommandStream {
		s, _ := m.Stream()
		return s
	}
	s := m.Text()
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return s
}

// Parse reads a controller line. The node-id becomes the destination and
// the sender is the gateway. The ack field maps to the request-ack flag.
func Parse(line string) (*wire.Message, error) {
	node, m, err := parse(line)
	if err != nil {
		return nil, err
	}
	m.SetDestination(node).SetSender(wire.GatewayAddress)
	return m, nil
}

// ParseUplink reads a gateway line. The node-id becomes the sender, the
// destination is the gateway and the ack field maps to the ack flag.
func ParseUplink(line string) (*wire.Message, error) {
	node, m, err := parse(line)
	if err != nil {
		return nil, err
	}
	ack := m.RequestAck()
	m.SetSender(node).
		SetDestination(wire.GatewayAddress).
		SetRequestAck(false).
		SetAck(ack)
	return m, nil
}

func parse(line string) (uint8, *wire.Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) > MaxLineLength {
		return 0, nil, &ParseError{Field: FieldPayload, Err: ErrLineTooLong}
	}

	// The payload is the remainder and may itself contain separators.
	fields := strings.SplitN(line, string(Separator), fieldCount)
	switch len(fields) {
	case fieldCount:
	case fieldCount - 1:
		fields = append(fields, "")
	default:
		return 0, nil, &ParseError{Field: FieldNode, Value: line, Err: ErrFieldCount}
	}

	var nums [FieldPayload]uint8
	for f := FieldNode; f < FieldPayload; f++ {
		n, err := strconv.ParseUint(fields[f], 10, 8)
		if err != nil {
			return 0, nil, invalid(f, fields[f])
		}
		nums[f] = uint8(n)
	}

	cmd := wire.Command(nums[FieldCommand])
	if !cmd.IsValid() {
		return 0, nil, invalid(FieldCommand, fields[FieldCommand])
	}
	if nums[FieldAck] > 1 {
		return 0, nil, invalid(FieldAck, fields[FieldAck])
	}

	m := wire.NewSensor(nums[FieldSensor], nums[FieldType]).
		SetCommand(cmd).
		SetRequestAck(nums[FieldAck] == 1)

	payload := fields[FieldPayload]
	if cmd == wire.CommandStream {
		b, err := hex.DecodeString(payload)
		if err != nil || len(b) > wire.MaxPayload {
			return 0, nil, invalid(FieldPayload, payload)
		}
		m.SetBytes(b)
	} else {
		m.SetString(payload)
	}
	return nums[FieldNode], m, nil
}
