package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

var testTime = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

// sampleEvents returns a frame, its decoded message and an error from one
// session plus a message from a second session.
func sampleEvents() []log.Event {
	temp := wire.NewSensor(1, uint8(wire.VarTemp)).SetSender(12).SetLast(12).
		SetDestination(0).SetCommand(wire.CommandSet).SetFloat(21.5, 1)
	frame, _ := wire.Encode(temp)

	battery := wire.NewSensor(wire.NodeSensorID, uint8(wire.InternalBatteryLevel)).
		SetSender(22).SetDestination(0).SetCommand(wire.CommandInternal).SetAck(true).SetByte(87)

	return []log.Event{
		{
			Timestamp: testTime,
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryMessage,
			Frame:     &log.FrameEvent{Size: len(frame) + 1, Data: frame},
		},
		{
			Timestamp:  testTime.Add(time.Millisecond),
			SessionID:  "abc12345-6789-0123-4567-890abcdef012",
			Direction:  log.DirectionIn,
			Layer:      log.LayerWire,
			Category:   log.CategoryMessage,
			RemoteAddr: "192.168.1.50:40112",
			Message:    log.NewMessageEvent(temp),
		},
		{
			Timestamp: testTime.Add(2 * time.Millisecond),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Layer:     log.LayerWire,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerWire,
				Message: "protocol version mismatch: got 1, want 2",
				Context: "decode",
			},
		},
		{
			Timestamp: testTime.Add(5 * time.Second),
			SessionID: "def67890-0000-0000-0000-000000000000",
			Direction: log.DirectionOut,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Message:   log.NewMessageEvent(battery),
		},
	}
}
