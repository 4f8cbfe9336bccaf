package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mysensors/mysensors-go/internal/vectors"
	"github.com/mysensors/mysensors-go/pkg/serialapi"
	"github.com/mysensors/mysensors-go/pkg/wire"
	"gopkg.in/yaml.v3"
)

// DecodeOptions selects how input is read and output rendered.
type DecodeOptions struct {
	// Input is one of hex (radio frame), cbor (hex host form) or serial.
	Input string

	// Format is one of text, yaml, json.
	Format string
}

// DecodeInput turns one input item into a message.
func DecodeInput(input, mode string) (*wire.Message, error) {
	switch mode {
	case "", "hex":
		data, err := decodeHex(input)
		if err != nil {
			return nil, err
		}
		return wire.Decode(data)
	case "cbor":
		data, err := decodeHex(input)
		if err != nil {
			return nil, err
		}
		m := wire.New()
		if err := wire.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to decode CBOR: %w", err)
		}
		return m, nil
	case "serial":
		return serialapi.ParseUplink(input)
	default:
		return nil, fmt.Errorf("unknown input: %s (supported: hex, cbor, serial)", mode)
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// RunDecode decodes input and writes the result.
func RunDecode(input string, opts DecodeOptions, w io.Writer) error {
	m, err := DecodeInput(input, opts.Input)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "", "text":
		return formatMessage(w, m)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(vectors.Describe(m))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vectors.Describe(m))
	default:
		return fmt.Errorf("unknown format: %s (supported: text, yaml, json)", opts.Format)
	}
}

// formatMessage writes a human-readable breakdown of m.
func formatMessage(w io.Writer, m *wire.Message) error {
	frame, err := wire.Encode(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Frame:       %X\n", frame)
	fmt.Fprintf(w, "Version:     %d\n", m.Version())
	fmt.Fprintf(w, "Last:        %d\n", m.Last())
	fmt.Fprintf(w, "Sender:      %d\n", m.Sender())
	fmt.Fprintf(w, "Destination: %d%s\n", m.Destination(), broadcastMark(m))
	fmt.Fprintf(w, "Sensor:      %d\n", m.Sensor())
	fmt.Fprintf(w, "Command:     C_%s (%d)\n", m.Command(), m.Command())
	fmt.Fprintf(w, "Type:        %s (%d)\n", m.TypeName(), m.Type())
	fmt.Fprintf(w, "Flags:       request_ack=%t ack=%t signed=%t\n", m.RequestAck(), m.IsAck(), m.Signed())
	fmt.Fprintf(w, "Payload:     %s [%d] %s\n", m.PayloadType(), m.Length(), m.Text())
	fmt.Fprintf(w, "Serial:      %s", serialapi.Format(m))
	return nil
}

func broadcastMark(m *wire.Message) string {
	if m.IsBroadcast() {
		return " (broadcast)"
	}
	return ""
}
