package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Frame decoding errors.
var (
	// ErrFrameTooShort indicates fewer bytes than a header.
	ErrFrameTooShort = errors.New("frame shorter than header")

	// ErrFrameTooLong indicates more bytes than MaxMessageLength.
	ErrFrameTooLong = errors.New("frame exceeds maximum message length")

	// ErrPayloadTruncated indicates the header declares more payload bytes
	// than the frame carries.
	ErrPayloadTruncated = errors.New("payload truncated")
)

// MarshalBinary encodes the message as a radio frame. The version field is
// stamped with ProtocolVersion and the length field with the number of
// payload bytes actually sent; the local string terminator is not sent.
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(make([]byte, 0, m.Size()))
}

// AppendBinary appends the radio frame encoding of m to b.
func (m *Message) AppendBinary(b []byte) ([]byte, error) {
	vl := m.versionLength
	bitfieldSet(&vl, ProtocolVersion, versionShift, versionBits)
	bitfieldSet(&vl, uint8(m.payloadLen()), lengthShift, lengthBits)
	b = append(b, m.last, m.sender, m.destination, vl, m.commandAckPayload, m.typ, m.sensor)
	return append(b, m.payload[:m.payloadLen()]...), nil
}

// UnmarshalBinary decodes a radio frame. Bytes after the declared payload
// length are ignored.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d < %d", ErrFrameTooShort, len(data), HeaderSize)
	}
	if len(data) > MaxMessageLength {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLong, len(data), MaxMessageLength)
	}

	var out Message
	out.last = data[0]
	out.sender = data[1]
	out.destination = data[2]
	out.versionLength = data[3]
	out.commandAckPayload = data[4]
	out.typ = data[5]
	out.sensor = data[6]

	n := int(out.Length())
	if avail := len(data) - HeaderSize; n > avail {
		return fmt.Errorf("%w: length %d, have %d", ErrPayloadTruncated, n, avail)
	}
	copy(out.payload[:], data[HeaderSize:HeaderSize+n])

	*m = out
	return nil
}

// Encode encodes m as a radio frame.
func Encode(m *Message) ([]byte, error) {
	return m.MarshalBinary()
}

// Decode decodes a radio frame into a new message.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &m, nil
}

// encMode is the CBOR encoder mode for the host representation.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for the host representation.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient for forward compatibility
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder creates a new CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a new CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// hostMessage is the CBOR shape of a Message used between gateway and
// controller processes.
//
//	{
//	  1: last, 2: sender, 3: destination,
//	  4: command, 5: type, 6: sensor,
//	  7: payloadType, 8: requestAck, 9: ack, 10: signed,
//	  11: payload   // exactly Length bytes
//	}
type hostMessage struct {
	Last        uint8       `cbor:"1,keyasint"`
	Sender      uint8       `cbor:"2,keyasint"`
	Destination uint8       `cbor:"3,keyasint"`
	Command     Command     `cbor:"4,keyasint"`
	Type        uint8       `cbor:"5,keyasint"`
	Sensor      uint8       `cbor:"6,keyasint"`
	PayloadType PayloadType `cbor:"7,keyasint"`
	RequestAck  bool        `cbor:"8,keyasint,omitempty"`
	Ack         bool        `cbor:"9,keyasint,omitempty"`
	Signed      bool        `cbor:"10,keyasint,omitempty"`
	Payload     []byte      `cbor:"11,keyasint,omitempty"`
}

// MarshalCBOR implements cbor.Marshaler.
func (m *Message) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(hostMessage{
		Last:        m.last,
		Sender:      m.sender,
		Destination: m.destination,
		Command:     m.Command(),
		Type:        m.typ,
		Sensor:      m.sensor,
		PayloadType: m.PayloadType(),
		RequestAck:  m.RequestAck(),
		Ack:         m.IsAck(),
		Signed:      m.Signed(),
		Payload:     m.Custom(),
	})
}

// UnmarshalCBOR implements cbor.Unmarshaler. Payloads longer than
// MaxPayload are truncated.
func (m *Message) UnmarshalCBOR(data []byte) error {
	var h hostMessage
	if err := decMode.Unmarshal(data, &h); err != nil {
		return err
	}

	out := New().
		SetLast(h.Last).
		SetSender(h.Sender).
		SetDestination(h.Destination).
		SetType(h.Type).
		SetSensor(h.Sensor).
		SetCommand(h.Command).
		SetRequestAck(h.RequestAck).
		SetAck(h.Ack).
		SetSigned(h.Signed).
		SetVersion(ProtocolVersion).
		setRaw(h.PayloadType, h.Payload)
	if h.PayloadType == PayloadString {
		out.payload[out.payloadLen()] = 0
	}

	*m = *out
	return nil
}
