package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mysensors/mysensors-go/pkg/wire"
)

func msgEvent(session string, dir Direction, sender, dest uint8) Event {
	m := wire.New().SetSender(sender).SetDestination(dest).SetCommand(wire.CommandSet).SetByte(1)
	return Event{
		Timestamp: time.Now(),
		SessionID: session,
		Direction: dir,
		Layer:     LayerWire,
		Category:  CategoryMessage,
		Message:   NewMessageEvent(m),
	}
}

func readAllFiltered(t *testing.T, path string, f Filter) []Event {
	t.Helper()
	reader, err := NewFilteredReader(path, f)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	return events
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReaderHandlesTruncatedFile(t *testing.T) {
	path := createTestLogFile(t, []Event{msgEvent("a", DirectionIn, 1, 0)})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	truncated := filepath.Join(t.TempDir(), "truncated"+FileExt)
	if err := os.WriteFile(truncated, data[:len(data)/2], 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	reader, err := NewReader(truncated)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err == nil || err == io.EOF {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	events := []Event{
		msgEvent("s1", DirectionIn, 5, 0),
		msgEvent("s1", DirectionOut, 0, 5),
		msgEvent("s2", DirectionIn, 7, 0),
		{SessionID: "s2", Layer: LayerTransport, Frame: &FrameEvent{Size: 9}},
		{SessionID: "s2", Layer: LayerWire, Category: CategoryError, Error: &ErrorEventData{Message: "bad"}},
	}
	for i := range events {
		events[i].Timestamp = base.Add(time.Duration(i) * time.Second)
	}
	path := createTestLogFile(t, events)

	in := DirectionIn
	transport := LayerTransport
	errCat := CategoryError
	node := uint8(5)
	start := base.Add(1 * time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 5},
		{"session", Filter{SessionID: "s1"}, 2},
		{"direction", Filter{Direction: &in}, 4},
		{"layer", Filter{Layer: &transport}, 1},
		{"category", Filter{Category: &errCat}, 1},
		{"node", Filter{Node: &node}, 2},
		{"time range", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{SessionID: "s2", Direction: &in, Node: &node}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAllFiltered(t, path, tt.filter)
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}
