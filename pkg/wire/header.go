package wire

// Bitfield windows inside the two packed header bytes.
const (
	versionShift = 0
	versionBits  = 2
	signedShift  = 2
	signedBits   = 1
	lengthShift  = 3
	lengthBits   = 5

	commandShift     = 0
	commandBits      = 3
	requestAckShift  = 3
	requestAckBits   = 1
	ackShift         = 4
	ackBits          = 1
	payloadTypeShift = 5
	payloadTypeBits  = 3
)

func bitMask(width uint) uint8 {
	return uint8(1<<width - 1)
}

// bitfieldGet extracts width bits starting at start.
func bitfieldGet(b uint8, start, width uint) uint8 {
	return (b >> start) & bitMask(width)
}

// bitfieldSet replaces width bits starting at start with v masked to width.
func bitfieldSet(b *uint8, v uint8, start, width uint) {
	*b = (*b &^ (bitMask(width) << start)) | (v&bitMask(width))<<start
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SetVersion sets the 2-bit protocol version. The binary encoder overwrites
// it with ProtocolVersion.
func (m *Message) SetVersion(v uint8) *Message {
	bitfieldSet(&m.versionLength, v, versionShift, versionBits)
	return m
}

// Version returns the protocol version field.
func (m *Message) Version() uint8 {
	return bitfieldGet(m.versionLength, versionShift, versionBits)
}

// SetSigned sets the signed flag.
func (m *Message) SetSigned(signed bool) *Message {
	bitfieldSet(&m.versionLength, boolBit(signed), signedShift, signedBits)
	return m
}

// Signed reports whether the signed flag is set.
func (m *Message) Signed() bool {
	return bitfieldGet(m.versionLength, signedShift, signedBits) == 1
}

// SetLength sets the 5-bit payload length. Values above 31 wrap.
// Typed payload setters maintain the length themselves.
func (m *Message) SetLength(n uint8) *Message {
	bitfieldSet(&m.versionLength, n, lengthShift, lengthBits)
	return m
}

// Length returns the payload length field.
func (m *Message) Length() uint8 {
	return bitfieldGet(m.versionLength, lengthShift, lengthBits)
}

// SetCommand sets the 3-bit command field.
func (m *Message) SetCommand(c Command) *Message {
	bitfieldSet(&m.commandAckPayload, uint8(c), commandShift, commandBits)
	return m
}

// Command returns the command field.
func (m *Message) Command() Command {
	return Command(bitfieldGet(m.commandAckPayload, commandShift, commandBits))
}

// SetRequestAck asks the receiver to echo the message back as an ack.
func (m *Message) SetRequestAck(request bool) *Message {
	bitfieldSet(&m.commandAckPayload, boolBit(request), requestAckShift, requestAckBits)
	return m
}

// RequestAck reports whether the sender requested an ack.
func (m *Message) RequestAck() bool {
	return bitfieldGet(m.commandAckPayload, requestAckShift, requestAckBits) == 1
}

// SetAck marks the message as an ack.
func (m *Message) SetAck(ack bool) *Message {
	bitfieldSet(&m.commandAckPayload, boolBit(ack), ackShift, ackBits)
	return m
}

// IsAck reports whether this message is an ack.
func (m *Message) IsAck() bool {
	return bitfieldGet(m.commandAckPayload, ackShift, ackBits) == 1
}

// SetPayloadType sets the 3-bit payload type field without touching the
// payload bytes.
func (m *Message) SetPayloadType(p PayloadType) *Message {
	bitfieldSet(&m.commandAckPayload, uint8(p), payloadTypeShift, payloadTypeBits)
	return m
}

// PayloadType returns the payload type field.
func (m *Message) PayloadType() PayloadType {
	return PayloadType(bitfieldGet(m.commandAckPayload, payloadTypeShift, payloadTypeBits))
}
