package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// LengthPrefixSize is the size of the length prefix in bytes.
const LengthPrefixSize = 1

// Framing errors.
var (
	// ErrMessageTooLarge indicates a frame longer than wire.MaxMessageLength.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageTooSmall indicates a frame shorter than wire.HeaderSize.
	ErrMessageTooSmall = errors.New("message smaller than header")

	// ErrFrameTruncated indicates the stream ended inside a frame.
	ErrFrameTruncated = errors.New("frame truncated")
)

func checkFrameSize(n int) error {
	if n > wire.MaxMessageLength {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, n, wire.MaxMessageLength)
	}
	if n < wire.HeaderSize {
		return fmt.Errorf("%w: %d < %d", ErrMessageTooSmall, n, wire.HeaderSize)
	}
	return nil
}

// frameEvent builds the transport-layer log event for one frame.
func frameEvent(sessionID string, data []byte, direction log.Direction) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: direction,
		Layer:     log.LayerTransport,
		Category:  log.CategoryMessage,
		Frame: &log.FrameEvent{
			Size: LengthPrefixSize + len(data),
			Data: append([]byte(nil), data...),
		},
	}
}

// FrameWriter writes length-prefixed frames to an underlying writer.
type FrameWriter struct {
	w   io.Writer
	mu  sync.Mutex
	buf [LengthPrefixSize + wire.MaxMessageLength]byte

	logger    log.Logger
	sessionID string
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// SetLogger configures logging for this writer. Pass nil to disable logging.
func (fw *FrameWriter) SetLogger(logger log.Logger, sessionID string) {
	fw.logger = logger
	fw.sessionID = sessionID
}

// WriteFrame writes one frame with a single Write call so that frames
// from concurrent writers never interleave.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if err := checkFrameSize(len(data)); err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.buf[0] = byte(len(data))
	n := copy(fw.buf[LengthPrefixSize:], data)
	if _, err := fw.w.Write(fw.buf[:LengthPrefixSize+n]); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if fw.logger != nil {
		fw.logger.Log(frameEvent(fw.sessionID, data, log.DirectionOut))
	}
	return nil
}

// FrameReader reads length-prefixed frames from an underlying reader.
type FrameReader struct {
	r      io.Reader
	length [LengthPrefixSize]byte

	logger    log.Logger
	sessionID string
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// SetLogger configures logging for this reader. Pass nil to disable logging.
func (fr *FrameReader) SetLogger(logger log.Logger, sessionID string) {
	fr.logger = logger
	fr.sessionID = sessionID
}

// ReadFrame reads one frame and returns it without the length prefix.
// It returns io.EOF only when the stream ends between frames.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.length[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	n := int(fr.length[0])
	if err := checkFrameSize(n); err != nil {
		return nil, err
	}

	frame := make([]byte, n)
	if _, err := io.ReadFull(fr.r, frame); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	if fr.logger != nil {
		fr.logger.Log(frameEvent(fr.sessionID, frame, log.DirectionIn))
	}
	return frame, nil
}

// FrameReadWriter provides length-prefixed frame I/O.
type FrameReadWriter interface {
	ReadFrame() ([]byte, error)
	WriteFrame(data []byte) error
}

// Framer combines frame reading and writing.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw),
		FrameWriter: NewFrameWriter(rw),
	}
}

// SetLogger configures logging for both directions.
func (f *Framer) SetLogger(logger log.Logger, sessionID string) {
	f.FrameReader.SetLogger(logger, sessionID)
	f.FrameWriter.SetLogger(logger, sessionID)
}

var _ FrameReadWriter = (*Framer)(nil)
