package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFloat(t *testing.T) {
	m := NewSensor(5, uint8(VarTemp)).SetCommand(CommandSet).SetFloat(21.5, 1)

	assert.Equal(t, float32(21.5), m.Float())
	assert.Equal(t, "21.5", m.Text())
	assert.Equal(t, PayloadFloat32, m.PayloadType())
	assert.Equal(t, uint8(5), m.Length())
	assert.Equal(t, uint8(1), m.Decimals())
	assert.Equal(t, uint8(5), m.Sensor())
	assert.Equal(t, "V_TEMP", m.TypeName())
}

func TestFloatText(t *testing.T) {
	tests := []struct {
		value    float32
		decimals uint8
		want     string
	}{
		{21.5, 1, "21.5"},
		{21.7, 0, "22"},
		{-3.25, 2, "-3.25"},
		{1013.2, 3, "1013.200"},
		{0, 2, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m := New().SetFloat(tt.value, tt.decimals)
			assert.Equal(t, tt.want, m.Text())
		})
	}
}

func TestIntegerPayloads(t *testing.T) {
	tests := []struct {
		name   string
		set    func(*Message) *Message
		kind   PayloadType
		length uint8
		text   string
		check  func(t *testing.T, m *Message)
	}{
		{
			name:   "uint16",
			set:    func(m *Message) *Message { return m.SetUint16(1234) },
			kind:   PayloadUint16,
			length: 2,
			text:   "1234",
			check:  func(t *testing.T, m *Message) { assert.Equal(t, uint16(1234), m.UInt()) },
		},
		{
			name:   "int16",
			set:    func(m *Message) *Message { return m.SetInt16(-42) },
			kind:   PayloadInt16,
			length: 2,
			text:   "-42",
			check:  func(t *testing.T, m *Message) { assert.Equal(t, int16(-42), m.Int()) },
		},
		{
			name:   "int32",
			set:    func(m *Message) *Message { return m.SetInt32(-100000) },
			kind:   PayloadLong32,
			length: 4,
			text:   "-100000",
			check:  func(t *testing.T, m *Message) { assert.Equal(t, int32(-100000), m.Long()) },
		},
		{
			name:   "uint32",
			set:    func(m *Message) *Message { return m.SetUint32(4000000000) },
			kind:   PayloadUlong32,
			length: 4,
			text:   "4000000000",
			check:  func(t *testing.T, m *Message) { assert.Equal(t, uint32(4000000000), m.ULong()) },
		},
		{
			name:   "byte",
			set:    func(m *Message) *Message { return m.SetByte(200) },
			kind:   PayloadByte,
			length: 1,
			text:   "200",
			check:  func(t *testing.T, m *Message) { assert.Equal(t, uint8(200), m.Byte()) },
		},
		{
			name:   "bool",
			set:    func(m *Message) *Message { return m.SetBool(true) },
			kind:   PayloadByte,
			length: 1,
			text:   "1",
			check:  func(t *testing.T, m *Message) { assert.True(t, m.Bool()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.set(New())
			assert.Equal(t, tt.kind, m.PayloadType())
			assert.Equal(t, tt.length, m.Length())
			assert.Equal(t, tt.text, m.Text())
			tt.check(t, m)
		})
	}
}

func TestLittleEndianLayout(t *testing.T) {
	m := New().SetUint16(0x1234)
	assert.Equal(t, []byte{0x34, 0x12}, m.Custom())

	m.SetUint32(0xA1B2C3D4)
	assert.Equal(t, []byte{0xD4, 0xC3, 0xB2, 0xA1}, m.Custom())
}

func TestSetString(t *testing.T) {
	m := New().SetString("hello")
	assert.Equal(t, "hello", m.StringValue())
	assert.Equal(t, "hello", m.Text())
	assert.Equal(t, uint8(5), m.Length())
	assert.Equal(t, PayloadString, m.PayloadType())
	assert.Equal(t, byte(0), m.payload[5])
}

func TestSetStringTruncates(t *testing.T) {
	long := strings.Repeat("x", 40)
	m := New().SetString(long)
	assert.Equal(t, uint8(MaxPayload), m.Length())
	assert.Equal(t, long[:MaxPayload], m.StringValue())
	assert.Equal(t, byte(0), m.payload[MaxPayload])
}

func TestSetCustomHex(t *testing.T) {
	blob := []byte{0x00, 0x01, 0x0A, 0x1F, 0x7F, 0x80, 0xAB, 0xC0, 0xFE, 0xFF}
	m := New().SetBytes(blob)

	assert.Equal(t, PayloadCustom, m.PayloadType())
	assert.Equal(t, uint8(10), m.Length())
	text := m.Text()
	require.Len(t, text, 20)
	assert.Equal(t, "00010A1F7F80ABC0FEFF", text)
	assert.Equal(t, blob, m.Custom())
}

func TestSetCustomTruncates(t *testing.T) {
	blob := make([]byte, 40)
	for i := range blob {
		blob[i] = byte(i)
	}

	m := New().SetCustom(blob, 40)
	assert.Equal(t, uint8(MaxPayload), m.Length())
	assert.Equal(t, blob[:MaxPayload], m.Custom())

	m.SetCustom(blob, 3)
	assert.Equal(t, uint8(3), m.Length())
	assert.Equal(t, blob[:3], m.Custom())

	m.SetCustom(blob[:2], 10)
	assert.Equal(t, uint8(2), m.Length())
}

func TestHexClampsToStorage(t *testing.T) {
	m := New().SetBytes([]byte{0xAA}).SetLength(31)
	assert.Len(t, m.Hex(), 2*MaxPayload)
}

func TestOverwriteCleanliness(t *testing.T) {
	m := New().SetUint32(0xDEADBEEF).SetByte(7)

	assert.Equal(t, uint8(1), m.Length())
	assert.Equal(t, PayloadByte, m.PayloadType())
	assert.Equal(t, uint8(7), m.Byte())
	assert.Equal(t, "7", m.Text())
}

func TestCrossKindRead(t *testing.T) {
	m := New().SetUint16(0x0102)

	// Reading as a different kind reinterprets the same bytes.
	assert.Equal(t, uint8(0x02), m.Byte())
	assert.Equal(t, int16(0x0102), m.Int())
	assert.Equal(t, Byte(0x02), m.ReadAs(PayloadByte))
	assert.Equal(t, Uint16(0x0102), m.Value())
}

func TestHeaderPlusLengthBound(t *testing.T) {
	m := New()
	writes := []func(){
		func() { m.SetString(strings.Repeat("a", 100)) },
		func() { m.SetFloat(1, 2) },
		func() { m.SetBytes(make([]byte, 64)) },
		func() { m.SetCustom(make([]byte, 64), 64) },
		func() { m.SetUint32(1) },
		func() { m.SetBool(false) },
		func() { m.SetString("") },
	}
	for i, w := range writes {
		w()
		assert.LessOrEqual(t, HeaderSize+int(m.Length()), MaxMessageLength, "write %d", i)
		assert.Equal(t, HeaderSize+int(m.Length()), m.Size())
	}
}

func TestValueRoundTrip(t *testing.T) {
	values := []Value{
		String("on"),
		Byte(1),
		Int16(-5),
		Uint16(65535),
		Long32(-1),
		Ulong32(7),
		Custom{0xDE, 0xAD},
		Float32{Value: 3.5, Decimals: 2},
	}
	for _, v := range values {
		t.Run(v.Kind().String(), func(t *testing.T) {
			m := New().SetValue(v)
			assert.Equal(t, v.Kind(), m.PayloadType())
			assert.Equal(t, v, m.Value())
			assert.Equal(t, v.Text(), m.Text())
		})
	}
}

func TestStream(t *testing.T) {
	m := New().SetCommand(CommandStream).SetBytes([]byte{0x01, 0xAB})
	s, ok := m.Stream()
	assert.True(t, ok)
	assert.Equal(t, "01AB", s)

	_, ok = m.SetCommand(CommandSet).Stream()
	assert.False(t, ok)
}
