package wire

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Value is a decoded payload. Exactly one concrete type exists per
// PayloadType.
type Value interface {
	// Kind returns the payload type the value encodes as.
	Kind() PayloadType

	// Text renders the value the same way Message.Text does.
	Text() string

	apply(m *Message)
}

// Concrete payload variants.
type (
	String  string
	Byte    uint8
	Int16   int16
	Uint16  uint16
	Long32  int32
	Ulong32 uint32
	Custom  []byte

	Float32 struct {
		Value    float32
		Decimals uint8
	}
)

func (String) Kind() PayloadType  { return PayloadString }
func (Byte) Kind() PayloadType    { return PayloadByte }
func (Int16) Kind() PayloadType   { return PayloadInt16 }
func (Uint16) Kind() PayloadType  { return PayloadUint16 }
func (Long32) Kind() PayloadType  { return PayloadLong32 }
func (Ulong32) Kind() PayloadType { return PayloadUlong32 }
func (Custom) Kind() PayloadType  { return PayloadCustom }
func (Float32) Kind() PayloadType { return PayloadFloat32 }

func (v String) Text() string  { return string(v) }
func (v Byte) Text() string    { return New().SetByte(uint8(v)).Text() }
func (v Int16) Text() string   { return New().SetInt16(int16(v)).Text() }
func (v Uint16) Text() string  { return New().SetUint16(uint16(v)).Text() }
func (v Long32) Text() string  { return New().SetInt32(int32(v)).Text() }
func (v Ulong32) Text() string { return New().SetUint32(uint32(v)).Text() }
func (v Custom) Text() string  { return hexUpper(v) }
func (v Float32) Text() string { return formatFloat(v.Value, v.Decimals) }

func (v String) apply(m *Message)  { m.SetString(string(v)) }
func (v Byte) apply(m *Message)    { m.SetByte(uint8(v)) }
func (v Int16) apply(m *Message)   { m.SetInt16(int16(v)) }
func (v Uint16) apply(m *Message)  { m.SetUint16(uint16(v)) }
func (v Long32) apply(m *Message)  { m.SetInt32(int32(v)) }
func (v Ulong32) apply(m *Message) { m.SetUint32(uint32(v)) }
func (v Custom) apply(m *Message)  { m.SetBytes(v) }
func (v Float32) apply(m *Message) { m.SetFloat(v.Value, v.Decimals) }

// SetValue stores v as the payload.
func (m *Message) SetValue(v Value) *Message {
	v.apply(m)
	return m
}

// Value decodes the payload according to the stored payload type.
func (m *Message) Value() Value {
	return m.ReadAs(m.PayloadType())
}

// ReadAs reinterprets the payload bytes as kind regardless of the stored
// payload type. Reading a kind other than the one last written returns
// whatever the bytes mean as that kind.
func (m *Message) ReadAs(kind PayloadType) Value {
	switch kind {
	case PayloadString:
		return String(m.StringValue())
	case PayloadByte:
		return Byte(m.Byte())
	case PayloadInt16:
		return Int16(m.Int())
	case PayloadUint16:
		return Uint16(m.UInt())
	case PayloadLong32:
		return Long32(m.Long())
	case PayloadUlong32:
		return Ulong32(m.ULong())
	case PayloadFloat32:
		return Float32{Value: m.Float(), Decimals: m.Decimals()}
	default:
		return Custom(m.Custom())
	}
}

// ParseValue parses text as a payload of the given kind. Float32 accepts
// plain decimal notation only and takes its decimals count from the digits
// after the decimal point. Custom expects
// hex and accepts either case.
func ParseValue(kind PayloadType, text string) (Value, error) {
	text = strings.TrimSpace(text)
	var (
		v   Value
		err error
	)
	switch kind {
	case PayloadString:
		return String(text), nil
	case PayloadByte:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 8)
		v = Byte(n)
	case PayloadInt16:
		var n int64
		n, err = strconv.ParseInt(text, 10, 16)
		v = Int16(n)
	case PayloadUint16:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 16)
		v = Uint16(n)
	case PayloadLong32:
		var n int64
		n, err = strconv.ParseInt(text, 10, 32)
		v = Long32(n)
	case PayloadUlong32:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 32)
		v = Ulong32(n)
	case PayloadFloat32:
		if !isDecimal(text) {
			return nil, fmt.Errorf("invalid %s payload %q: not a plain decimal number", kind, text)
		}
		var f float64
		f, err = strconv.ParseFloat(text, 32)
		var decimals uint8
		if i := strings.IndexByte(text, '.'); i >= 0 {
			decimals = uint8(min(len(text)-i-1, 255))
		}
		v = Float32{Value: float32(f), Decimals: decimals}
	case PayloadCustom:
		var b []byte
		b, err = hex.DecodeString(text)
		v = Custom(b)
	default:
		return nil, fmt.Errorf("invalid payload type: %d", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s payload %q: %w", kind, text, err)
	}
	return v, nil
}

// isDecimal reports whether s is an optionally signed decimal number
// without exponent, such as "-12.50".
func isDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return false
	}
	for _, part := range []string{intPart, frac} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return false
			}
		}
	}
	return true
}
