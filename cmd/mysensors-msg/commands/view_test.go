package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatFrameEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[0])
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[session:abc12345]",
		"IN ",
		"TRANSPORT Frame",
		"Size: 13 bytes",
		"Data: 0C0C002AE100010000AC4101",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestFormatMessageEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[1])
	output := buf.String()

	for _, want := range []string{
		"WIRE C_SET V_TEMP",
		"Route: 12 -> 0 (last 12)  Sensor: 1",
		"Payload: FLOAT32 [5] 21.5",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Flags:") {
		t.Errorf("flags should be omitted when unset, got:\n%s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[2])
	output := buf.String()

	if !strings.Contains(output, "Error") || !strings.Contains(output, "Context: decode") {
		t.Errorf("unexpected error output:\n%s", output)
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	tests := []struct {
		name  string
		opts  FilterOptions
		count int
	}{
		{"all", FilterOptions{}, 4},
		{"layer wire", FilterOptions{Layer: "wire"}, 3},
		{"direction out", FilterOptions{Direction: "out"}, 1},
		{"category error", FilterOptions{Category: "ERROR"}, 1},
		{"node 12", FilterOptions{Node: "12"}, 1},
		{"node 0 matches destination", FilterOptions{Node: "0"}, 2},
		{"session", FilterOptions{Session: "def67890-0000-0000-0000-000000000000"}, 1},
		{"time window", FilterOptions{TimeStart: "2026-01-28T10:15:33Z"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.opts, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			if got := strings.Count(buf.String(), "[session:"); got != tt.count {
				t.Errorf("expected %d events, got %d:\n%s", tt.count, got, buf.String())
			}
		})
	}
}

func TestFilterOptionsErrors(t *testing.T) {
	bad := []FilterOptions{
		{Layer: "service"},
		{Direction: "sideways"},
		{Category: "state"},
		{Node: "300"},
		{TimeStart: "yesterday"},
		{TimeEnd: "2026-13-01"},
	}
	for _, opts := range bad {
		if _, err := opts.Build(); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestRunViewMissingFile(t *testing.T) {
	err := RunView("/nonexistent/file.mlog", FilterOptions{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "failed to open log file") {
		t.Errorf("expected open error, got %v", err)
	}
}
