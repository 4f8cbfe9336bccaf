package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
)

// setRaw stores n payload bytes and updates length and payload type
// together. Bytes past n keep whatever an earlier write left there.
func (m *Message) setRaw(kind PayloadType, src []byte) *Message {
	n := copy(m.payload[:MaxPayload], src)
	m.SetLength(uint8(n))
	m.SetPayloadType(kind)
	return m
}

// SetBool stores a boolean as a Byte payload (1 or 0).
func (m *Message) SetBool(v bool) *Message {
	return m.SetByte(boolBit(v))
}

// SetByte stores a Byte payload.
func (m *Message) SetByte(v uint8) *Message {
	return m.setRaw(PayloadByte, []byte{v})
}

// SetInt16 stores an Int16 payload.
func (m *Message) SetInt16(v int16) *Message {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return m.setRaw(PayloadInt16, b[:])
}

// SetUint16 stores a Uint16 payload.
func (m *Message) SetUint16(v uint16) *Message {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return m.setRaw(PayloadUint16, b[:])
}

// SetInt32 stores a Long32 payload.
func (m *Message) SetInt32(v int32) *Message {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return m.setRaw(PayloadLong32, b[:])
}

// SetUint32 stores a Ulong32 payload.
func (m *Message) SetUint32(v uint32) *Message {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return m.setRaw(PayloadUlong32, b[:])
}

// SetFloat stores a Float32 payload. decimals is the number of decimal
// places used when the value is rendered as text.
func (m *Message) SetFloat(v float32, decimals uint8) *Message {
	var b [5]byte
	binary.LittleEndian.PutUint32(b[:4], math.Float32bits(v))
	b[4] = decimals
	return m.setRaw(PayloadFloat32, b[:])
}

// SetString stores a String payload. Strings longer than MaxPayload are
// truncated.
func (m *Message) SetString(s string) *Message {
	n := copy(m.payload[:MaxPayload], s)
	m.payload[n] = 0
	m.SetLength(uint8(n))
	m.SetPayloadType(PayloadString)
	return m
}

// SetBytes stores an opaque Custom payload. Input beyond MaxPayload bytes
// is dropped.
func (m *Message) SetBytes(b []byte) *Message {
	return m.setRaw(PayloadCustom, b)
}

// SetCustom stores the first n bytes of b as a Custom payload. n is clamped
// to MaxPayload and to len(b).
func (m *Message) SetCustom(b []byte, n int) *Message {
	if n < 0 {
		n = 0
	}
	if n > len(b) {
		n = len(b)
	}
	return m.setRaw(PayloadCustom, b[:n])
}

// Bool reads the first payload byte as a boolean.
func (m *Message) Bool() bool {
	return m.payload[0] != 0
}

// Byte reads the payload as a Byte.
func (m *Message) Byte() uint8 {
	return m.payload[0]
}

// Int reads the payload as an Int16.
func (m *Message) Int() int16 {
	return int16(binary.LittleEndian.Uint16(m.payload[:2]))
}

// UInt reads the payload as a Uint16.
func (m *Message) UInt() uint16 {
	return binary.LittleEndian.Uint16(m.payload[:2])
}

// Long reads the payload as a Long32.
func (m *Message) Long() int32 {
	return int32(binary.LittleEndian.Uint32(m.payload[:4]))
}

// ULong reads the payload as a Ulong32.
func (m *Message) ULong() uint32 {
	return binary.LittleEndian.Uint32(m.payload[:4])
}

// Float reads the payload as a Float32 value.
func (m *Message) Float() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(m.payload[:4]))
}

// Decimals reads the Float32 decimal-places byte.
func (m *Message) Decimals() uint8 {
	return m.payload[4]
}

// StringValue reads the payload as text, up to Length bytes or the first
// zero byte.
func (m *Message) StringValue() string {
	b := m.payload[:m.payloadLen()]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Custom returns a copy of the first Length payload bytes.
func (m *Message) Custom() []byte {
	out := make([]byte, m.payloadLen())
	copy(out, m.payload[:])
	return out
}

// Text renders the payload for display according to the payload type.
func (m *Message) Text() string {
	switch m.PayloadType() {
	case PayloadString:
		return m.StringValue()
	case PayloadByte:
		return strconv.FormatUint(uint64(m.Byte()), 10)
	case PayloadInt16:
		return strconv.FormatInt(int64(m.Int()), 10)
	case PayloadUint16:
		return strconv.FormatUint(uint64(m.UInt()), 10)
	case PayloadLong32:
		return strconv.FormatInt(int64(m.Long()), 10)
	case PayloadUlong32:
		return strconv.FormatUint(uint64(m.ULong()), 10)
	case PayloadFloat32:
		return formatFloat(m.Float(), m.Decimals())
	default:
		return m.Hex()
	}
}

// Hex renders the payload bytes as upper-case hex, high nibble first.
func (m *Message) Hex() string {
	return hexUpper(m.payload[:m.payloadLen()])
}

// Stream returns the hex rendering of a Stream message payload. ok is
// false for any other command.
func (m *Message) Stream() (s string, ok bool) {
	if m.Command() != CommandStream {
		return "", false
	}
	return m.Hex(), true
}

func formatFloat(v float32, decimals uint8) string {
	return strconv.FormatFloat(float64(v), 'f', int(decimals), 32)
}

const hexDigits = "0123456789ABCDEF"

func hexUpper(b []byte) string {
	out := make([]byte, 2*len(b))
	for i, c := range b {
		out[2*i] = hexDigits[c>>4]
		out[2*i+1] = hexDigits[c&0x0F]
	}
	return string(out)
}
