package wire

import "fmt"

// Message is a single radio message: the 7-byte header plus the shared
// payload storage.
//
// The zero value is a valid empty message addressed to the gateway; New
// addresses the broadcast node instead. Setters return the receiver so
// envelope and payload can be built in one expression:
//
//	msg := wire.NewSensor(5, uint8(wire.VarTemp)).
//		SetDestination(wire.GatewayAddress).
//		SetFloat(21.5, 1)
type Message struct {
	last              uint8
	sender            uint8
	destination       uint8
	versionLength     uint8
	commandAckPayload uint8
	typ               uint8
	sensor            uint8

	// One extra byte holds the local string terminator; it is never sent.
	payload [MaxPayload + 1]byte
}

// New returns an empty message addressed to BroadcastAddress.
func New() *Message {
	return &Message{destination: BroadcastAddress}
}

// NewSensor returns an empty message pre-seeded with a child sensor id and
// a type code. The meaning of typ depends on the command set later.
func NewSensor(sensor, typ uint8) *Message {
	m := New()
	m.sensor = sensor
	m.typ = typ
	return m
}

// Clone returns an independent copy of the message.
func (m *Message) Clone() *Message {
	c := *m
	return &c
}

// SetLast sets the id of the last node the message passed through.
func (m *Message) SetLast(node uint8) *Message {
	m.last = node
	return m
}

// Last returns the id of the last node the message passed through.
func (m *Message) Last() uint8 {
	return m.last
}

// SetSender sets the originating node id.
func (m *Message) SetSender(node uint8) *Message {
	m.sender = node
	return m
}

// Sender returns the originating node id.
func (m *Message) Sender() uint8 {
	return m.sender
}

// SetDestination sets the destination node id.
func (m *Message) SetDestination(node uint8) *Message {
	m.destination = node
	return m
}

// Destination returns the destination node id.
func (m *Message) Destination() uint8 {
	return m.destination
}

// IsBroadcast reports whether the message is addressed to every node.
func (m *Message) IsBroadcast() bool {
	return m.destination == BroadcastAddress
}

// SetType sets the type byte. Its meaning depends on Command.
func (m *Message) SetType(typ uint8) *Message {
	m.typ = typ
	return m
}

// Type returns the raw type byte.
func (m *Message) Type() uint8 {
	return m.typ
}

// TypeName returns the type byte resolved against the message command.
func (m *Message) TypeName() string {
	return TypeName(m.Command(), m.typ)
}

// SetSensor sets the child sensor id.
func (m *Message) SetSensor(sensor uint8) *Message {
	m.sensor = sensor
	return m
}

// Sensor returns the child sensor id.
func (m *Message) Sensor() uint8 {
	return m.sensor
}

// Size returns the number of bytes the message occupies on the wire.
func (m *Message) Size() int {
	return HeaderSize + m.payloadLen()
}

// payloadLen is the length field clamped to the storage size.
func (m *Message) payloadLen() int {
	n := int(m.Length())
	if n > MaxPayload {
		return MaxPayload
	}
	return n
}

// String returns a one-line summary of the message for logs.
func (m *Message) String() string {
	return fmt.Sprintf("%d->%d sensor=%d %s %s ack=%t req-ack=%t %s(%d)=%q",
		m.sender, m.destination, m.sensor, m.Command(), m.TypeName(),
		m.IsAck(), m.RequestAck(), m.PayloadType(), m.Length(), m.Text())
}
