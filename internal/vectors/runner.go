package vectors

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mysensors/mysensors-go/pkg/serialapi"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// Check runs every check a vector defines.
//
// The built message is encoded and compared with Frame. Frame is then
// decoded and the decoded message must re-encode to the same bytes,
// render Text and format as Serial.
func Check(v Vector) Result {
	r := Result{ID: v.ID}
	fail := func(format string, args ...any) {
		r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
	}

	m, err := Build(v.Message)
	if err != nil {
		fail("build: %v", err)
		return r
	}

	encoded, err := wire.Encode(m)
	if err != nil {
		fail("encode: %v", err)
		return r
	}
	if len(encoded) > wire.MaxMessageLength {
		fail("encoded %d bytes, limit %d", len(encoded), wire.MaxMessageLength)
	}

	decoded := m
	if v.Frame != "" {
		want, err := hex.DecodeString(strings.ReplaceAll(v.Frame, " ", ""))
		if err != nil {
			fail("frame: %v", err)
			return r
		}
		if !bytes.Equal(encoded, want) {
			fail("encode: got %X, want %X", encoded, want)
		}

		decoded, err = wire.Decode(want)
		if err != nil {
			fail("decode: %v", err)
			return r
		}
		again, err := wire.Encode(decoded)
		if err != nil {
			fail("re-encode: %v", err)
		} else if !bytes.Equal(again, want) {
			fail("re-encode: got %X, want %X", again, want)
		}
		if decoded.PayloadType() != m.PayloadType() {
			fail("payload type: got %s, want %s", decoded.PayloadType(), m.PayloadType())
		}
	}

	if v.Text != nil {
		if got := decoded.Text(); got != *v.Text {
			fail("text: got %q, want %q", got, *v.Text)
		}
	}

	if v.Serial != "" {
		if got := strings.TrimSuffix(serialapi.Format(decoded), "\n"); got != v.Serial {
			fail("serial: got %q, want %q", got, v.Serial)
		}
	}

	return r
}

// CheckAll checks every vector in f.
func CheckAll(f *File) []Result {
	results := make([]Result, 0, len(f.Vectors))
	for _, v := range f.Vectors {
		results = append(results, Check(v))
	}
	return results
}

// FromMessage builds a vector whose expectations are m's current encoding.
func FromMessage(id string, m *wire.Message) (Vector, error) {
	frame, err := wire.Encode(m)
	if err != nil {
		return Vector{}, err
	}
	text := m.Text()
	return Vector{
		ID:      id,
		Message: Describe(m),
		Frame:   fmt.Sprintf("%X", frame),
		Text:    &text,
		Serial:  strings.TrimSuffix(serialapi.Format(m), "\n"),
	}, nil
}
