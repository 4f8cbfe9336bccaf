package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/serialapi"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// RunExport exports the capture file to the specified format.
func RunExport(path, format, output string, opts FilterOptions) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	case "serial":
		return exportSerial(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv, serial)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp", "session_id", "direction", "layer", "category",
		"sender", "destination", "sensor", "command", "type", "payload_type", "payload", "frame"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			"", "", "", "", "", "", "", "",
		}
		switch {
		case event.Message != nil:
			m := event.Message
			row[5] = strconv.Itoa(int(m.Sender))
			row[6] = strconv.Itoa(int(m.Destination))
			row[7] = strconv.Itoa(int(m.Sensor))
			row[8] = "C_" + m.Command.String()
			row[9] = m.TypeName()
			row[10] = m.PayloadType.String()
			row[11] = m.Text
		case event.Frame != nil:
			row[12] = strings.ToUpper(fmt.Sprintf("%x", event.Frame.Data))
		case event.Error != nil:
			row[11] = event.Error.Message
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// exportSerial replays captured messages as gateway lines.
func exportSerial(reader *log.Reader, w io.Writer) error {
	sw := serialapi.NewWriter(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if event.Message == nil {
			continue
		}
		if err := sw.Write(messageFromEvent(event.Message)); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}
	return nil
}

// messageFromEvent rebuilds a message from its captured form.
func messageFromEvent(e *log.MessageEvent) *wire.Message {
	m := wire.NewSensor(e.Sensor, e.Type).
		SetLast(e.Last).
		SetSender(e.Sender).
		SetDestination(e.Destination).
		SetCommand(e.Command).
		SetRequestAck(e.RequestAck).
		SetAck(e.Ack).
		SetSigned(e.Signed).
		SetCustom(e.Payload, len(e.Payload))
	m.SetPayloadType(e.PayloadType)
	return m
}
