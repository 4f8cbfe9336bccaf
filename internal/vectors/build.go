package vectors

import (
	"fmt"
	"strconv"

	"github.com/mysensors/mysensors-go/pkg/wire"
)

// Build constructs the message described by spec.
func Build(spec MessageSpec) (*wire.Message, error) {
	cmd, err := wire.ParseCommand(spec.Command)
	if err != nil {
		return nil, err
	}

	typ, err := wire.ParseType(cmd, spec.Type)
	if err != nil {
		// Codes outside the name tables are still valid on the wire.
		n, nerr := strconv.ParseUint(spec.Type, 10, 8)
		if nerr != nil {
			return nil, err
		}
		typ = uint8(n)
	}

	kind, err := wire.ParsePayloadType(spec.Payload.Kind)
	if err != nil {
		return nil, err
	}
	value, err := wire.ParseValue(kind, spec.Payload.Value)
	if err != nil {
		return nil, err
	}
	if n := len(spec.Payload.Value); kind == wire.PayloadString && n > wire.MaxPayload {
		return nil, fmt.Errorf("string payload of %d bytes exceeds %d", n, wire.MaxPayload)
	}

	m := wire.NewSensor(spec.Sensor, typ).
		SetLast(spec.Last).
		SetSender(spec.Sender).
		SetCommand(cmd).
		SetRequestAck(spec.RequestAck).
		SetAck(spec.Ack).
		SetValue(value)
	if spec.Destination != nil {
		m.SetDestination(*spec.Destination)
	}
	return m, nil
}

// Describe is the inverse of Build.
func Describe(m *wire.Message) MessageSpec {
	dest := m.Destination()
	typ := m.TypeName()
	if typ == "" || typ == "UNKNOWN" {
		typ = strconv.Itoa(int(m.Type()))
	}
	return MessageSpec{
		Last:        m.Last(),
		Sender:      m.Sender(),
		Destination: &dest,
		Sensor:      m.Sensor(),
		Command:     "C_" + m.Command().String(),
		Type:        typ,
		RequestAck:  m.RequestAck(),
		Ack:         m.IsAck(),
		Payload: PayloadSpec{
			Kind:  m.PayloadType().String(),
			Value: m.Text(),
		},
	}
}
