package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mysensors/mysensors-go/internal/vectors"
	"github.com/mysensors/mysensors-go/pkg/serialapi"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// EncodeOptions describes the message to encode.
type EncodeOptions struct {
	Last        uint8
	Sender      uint8
	Destination uint8
	Sensor      uint8
	Command     string
	Type        string
	Kind        string
	Value       string
	RequestAck  bool
	Ack         bool

	// Format is one of hex, cbor, serial, yaml.
	Format string
}

// BuildMessage constructs the message described by opts.
func BuildMessage(opts EncodeOptions) (*wire.Message, error) {
	dest := opts.Destination
	return vectors.Build(vectors.MessageSpec{
		Last:        opts.Last,
		Sender:      opts.Sender,
		Destination: &dest,
		Sensor:      opts.Sensor,
		Command:     opts.Command,
		Type:        opts.Type,
		RequestAck:  opts.RequestAck,
		Ack:         opts.Ack,
		Payload:     vectors.PayloadSpec{Kind: opts.Kind, Value: opts.Value},
	})
}

// RunEncode builds a message and writes it in the requested format.
func RunEncode(opts EncodeOptions, w io.Writer) error {
	m, err := BuildMessage(opts)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "", "hex":
		frame, err := wire.Encode(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%X\n", frame)
	case "cbor":
		data, err := wire.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode CBOR: %w", err)
		}
		fmt.Fprintln(w, hex.EncodeToString(data))
	case "serial":
		fmt.Fprint(w, serialapi.Format(m))
	case "yaml":
		v, err := vectors.FromMessage("encoded", m)
		if err != nil {
			return err
		}
		data, err := vectors.Marshal(&vectors.File{Vectors: []vectors.Vector{v}})
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s (supported: hex, cbor, serial, yaml)", opts.Format)
	}
	return nil
}
