package log

import (
	"time"

	"github.com/mysensors/mysensors-go/pkg/wire"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the link the event was captured on (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address, when the link has one.
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame   *FrameEvent     `cbor:"10,keyasint,omitempty"` // Transport layer
	Message *MessageEvent   `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	Error   *ErrorEventData `cbor:"12,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the message layer (decoded header and payload).
	LayerWire Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a frame or decoded message.
	CategoryMessage Category = 0
	// CategoryError indicates an error event.
	CategoryError Category = 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the radio frame without the length prefix.
	Data []byte `cbor:"2,keyasint,omitempty"`
}

// MessageEvent captures a decoded message at the wire layer.
type MessageEvent struct {
	Last        uint8            `cbor:"1,keyasint"`
	Sender      uint8            `cbor:"2,keyasint"`
	Destination uint8            `cbor:"3,keyasint"`
	Command     wire.Command     `cbor:"4,keyasint"`
	Type        uint8            `cbor:"5,keyasint"`
	Sensor      uint8            `cbor:"6,keyasint"`
	PayloadType wire.PayloadType `cbor:"7,keyasint"`
	RequestAck  bool             `cbor:"8,keyasint,omitempty"`
	Ack         bool             `cbor:"9,keyasint,omitempty"`

	// Payload holds exactly Length payload bytes.
	Payload []byte `cbor:"10,keyasint,omitempty"`

	// Text is the payload rendered for display at capture time.
	Text string `cbor:"11,keyasint,omitempty"`

	Signed bool `cbor:"12,keyasint,omitempty"`
}

// NewMessageEvent captures the envelope and payload of m.
func NewMessageEvent(m *wire.Message) *MessageEvent {
	return &MessageEvent{
		Last:        m.Last(),
		Sender:      m.Sender(),
		Destination: m.Destination(),
		Command:     m.Command(),
		Type:        m.Type(),
		Sensor:      m.Sensor(),
		PayloadType: m.PayloadType(),
		RequestAck:  m.RequestAck(),
		Ack:         m.IsAck(),
		Payload:     m.Custom(),
		Text:        m.Text(),
		Signed:      m.Signed(),
	}
}

// TypeName resolves the type byte against the captured command.
func (e *MessageEvent) TypeName() string {
	return wire.TypeName(e.Command, e.Type)
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
