package vectors

import (
	"testing"

	"github.com/mysensors/mysensors-go/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReportsMismatches(t *testing.T) {
	text := "21.5"
	v := Vector{
		ID: "wrong",
		Message: MessageSpec{
			Sender:  12,
			Sensor:  1,
			Command: "C_SET",
			Type:    "V_TEMP",
			Payload: PayloadSpec{Kind: "FLOAT32", Value: "21.50"},
		},
		Frame:  "0C0C002AE100010000AC4101",
		Text:   &text,
		Serial: "12;1;1;0;0;21.50",
	}

	r := Check(v)
	require.False(t, r.Passed())
	// Encoded frame differs (last=0, destination=255, decimals=2) but the
	// decoded frame matches text while the serial expectation does not.
	assert.Len(t, r.Failures, 2)
	assert.Contains(t, r.Failures[0], "encode:")
	assert.Contains(t, r.Failures[1], "serial:")
}

func TestCheckInvalidFrameHex(t *testing.T) {
	r := Check(Vector{
		ID:      "hex",
		Message: MessageSpec{Command: "C_SET", Type: "V_TEMP", Payload: PayloadSpec{Kind: "BYTE", Value: "1"}},
		Frame:   "ZZ",
	})
	require.Len(t, r.Failures, 1)
	assert.Contains(t, r.Failures[0], "frame:")
}

func TestFromMessageRoundTrip(t *testing.T) {
	msgs := []*wire.Message{
		wire.NewSensor(1, uint8(wire.VarTemp)).SetSender(12).SetLast(12).
			SetDestination(0).SetCommand(wire.CommandSet).SetFloat(-4.25, 2),
		wire.NewSensor(0, uint8(wire.SensorArduinoNode)).SetSender(3).
			SetCommand(wire.CommandPresentation).SetString("2.3.2"),
		wire.NewSensor(255, uint8(wire.StreamFirmwareConfigResponse)).
			SetCommand(wire.CommandStream).SetBytes([]byte{1, 2, 3, 4}),
		wire.NewSensor(9, 250).SetCommand(wire.CommandSet).SetRequestAck(true).SetUint16(7),
	}

	for _, m := range msgs {
		v, err := FromMessage("generated", m)
		require.NoError(t, err)

		r := Check(v)
		assert.True(t, r.Passed(), "%s: %v", m, r.Failures)

		rebuilt, err := Build(v.Message)
		require.NoError(t, err)
		assert.Equal(t, m.Text(), rebuilt.Text())
	}
}

func TestMarshalParseRoundTrip(t *testing.T) {
	f, err := Builtin()
	require.NoError(t, err)

	data, err := Marshal(f)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}
