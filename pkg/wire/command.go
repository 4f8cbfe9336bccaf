package wire

import (
	"fmt"
	"strings"
)

// Protocol limits.
const (
	// ProtocolVersion is stamped into every encoded header.
	ProtocolVersion = 2

	// MaxMessageLength is the largest frame the radio carries, header included.
	MaxMessageLength = 32

	// HeaderSize is the size of the fixed header.
	HeaderSize = 7

	// MaxPayload is the largest payload that fits behind the header.
	MaxPayload = MaxMessageLength - HeaderSize
)

// Well-known node addresses.
const (
	// GatewayAddress is the node id of the gateway.
	GatewayAddress uint8 = 0

	// BroadcastAddress delivers a message to every node in range.
	BroadcastAddress uint8 = 255

	// NodeSensorID is the child id used for messages about the node itself.
	NodeSensorID uint8 = 255
)

// Command is the top-level message category carried in bits 0-2 of the
// commandAckPayload header byte.
type Command uint8

const (
	// CommandPresentation is sent by a node when it presents attached sensors.
	CommandPresentation Command = 0

	// CommandSet carries a new value from or to a sensor.
	CommandSet Command = 1

	// CommandReq requests a variable value.
	CommandReq Command = 2

	// CommandInternal carries library-internal messages.
	CommandInternal Command = 3

	// CommandStream carries firmware and other chunked data.
	CommandStream Command = 4
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandPresentation:
		return "PRESENTATION"
	case CommandSet:
		return "SET"
	case CommandReq:
		return "REQ"
	case CommandInternal:
		return "INTERNAL"
	case CommandStream:
		return "STREAM"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the command is one of the defined commands.
func (c Command) IsValid() bool {
	return c <= CommandStream
}

// ParseCommand parses a command name (case-insensitive, with or without the
// C_ prefix) or its numeric code.
func ParseCommand(s string) (Command, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "C_")
	for c := CommandPresentation; c <= CommandStream; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	if n, ok := parseCode(s); ok && Command(n).IsValid() {
		return Command(n), nil
	}
	return 0, fmt.Errorf("invalid command: %s", s)
}

// PayloadType selects how the payload bytes are interpreted. It occupies
// bits 5-7 of the commandAckPayload header byte.
type PayloadType uint8

const (
	PayloadString  PayloadType = 0
	PayloadByte    PayloadType = 1
	PayloadInt16   PayloadType = 2
	PayloadUint16  PayloadType = 3
	PayloadLong32  PayloadType = 4
	PayloadUlong32 PayloadType = 5
	PayloadCustom  PayloadType = 6
	PayloadFloat32 PayloadType = 7
)

// String returns the payload type name.
func (p PayloadType) String() string {
	switch p {
	case PayloadString:
		return "STRING"
	case PayloadByte:
		return "BYTE"
	case PayloadInt16:
		return "INT16"
	case PayloadUint16:
		return "UINT16"
	case PayloadLong32:
		return "LONG32"
	case PayloadUlong32:
		return "ULONG32"
	case PayloadCustom:
		return "CUSTOM"
	case PayloadFloat32:
		return "FLOAT32"
	default:
		return "UNKNOWN"
	}
}

// Width returns the fixed wire width of the payload type, or 0 for the
// variable-length String and Custom kinds.
func (p PayloadType) Width() int {
	switch p {
	case PayloadByte:
		return 1
	case PayloadInt16, PayloadUint16:
		return 2
	case PayloadLong32, PayloadUlong32:
		return 4
	case PayloadFloat32:
		return 5
	default:
		return 0
	}
}

// ParsePayloadType parses a payload type name (case-insensitive, with or
// without the P_ prefix) or its numeric code.
func ParsePayloadType(s string) (PayloadType, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "P_")
	for p := PayloadString; p <= PayloadFloat32; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	if n, ok := parseCode(s); ok && n <= uint8(PayloadFloat32) {
		return PayloadType(n), nil
	}
	return 0, fmt.Errorf("invalid payload type: %s", s)
}
