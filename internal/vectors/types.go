// Package vectors loads and checks MySensors message test vectors.
//
// A vector file is YAML. Each vector describes a message symbolically
// and lists its expected radio frame, payload text and serial line:
//
//	vectors:
//	  - id: temp-float
//	    message:
//	      sender: 12
//	      destination: 0
//	      sensor: 1
//	      command: C_SET
//	      type: V_TEMP
//	      payload: {kind: FLOAT32, value: "21.5"}
//	    frame: 0C0C002AE100010000AC4101
//	    text: "21.5"
//	    serial: 12;1;1;0;0;21.5
package vectors

import (
	"strconv"
)

// File is the top-level structure of a vector file.
type File struct {
	// Description of the vector set.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Vectors in file order.
	Vectors []Vector `yaml:"vectors" json:"vectors"`
}

// Vector is one test vector.
type Vector struct {
	// ID uniquely identifies the vector within its file.
	ID string `yaml:"id" json:"id"`

	// Description explains what the vector exercises.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Message is the symbolic message.
	Message MessageSpec `yaml:"message" json:"message"`

	// Frame is the expected radio frame in hex.
	Frame string `yaml:"frame,omitempty" json:"frame,omitempty"`

	// Text is the expected payload rendering.
	Text *string `yaml:"text,omitempty" json:"text,omitempty"`

	// Serial is the expected gateway line without terminator.
	Serial string `yaml:"serial,omitempty" json:"serial,omitempty"`
}

// MessageSpec describes a message with symbolic names.
type MessageSpec struct {
	Last        uint8       `yaml:"last" json:"last"`
	Sender      uint8       `yaml:"sender" json:"sender"`
	Destination *uint8      `yaml:"destination,omitempty" json:"destination,omitempty"`
	Sensor      uint8       `yaml:"sensor" json:"sensor"`
	Command     string      `yaml:"command" json:"command"`
	Type        string      `yaml:"type" json:"type"`
	RequestAck  bool        `yaml:"request_ack,omitempty" json:"request_ack,omitempty"`
	Ack         bool        `yaml:"ack,omitempty" json:"ack,omitempty"`
	Payload     PayloadSpec `yaml:"payload" json:"payload"`
}

// PayloadSpec is a payload kind plus its text form.
type PayloadSpec struct {
	// Kind is a payload type name (STRING, BYTE, ..., FLOAT32) or code.
	Kind string `yaml:"kind" json:"kind"`

	// Value is parsed according to Kind. Custom payloads are hex.
	Value string `yaml:"value" json:"value"`
}

// LoadError provides details about a vector file loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Vector is the ID of the offending vector, if any.
	Vector string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Vector != "" {
		msg = "vector " + strconv.Quote(e.Vector) + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Result is the outcome of checking one vector.
type Result struct {
	ID       string
	Failures []string
}

// Passed reports whether every check succeeded.
func (r Result) Passed() bool {
	return len(r.Failures) == 0
}
