package serialapi

import (
	"bufio"
	"io"
	"strings"

	"github.com/mysensors/mysensors-go/pkg/wire"
)

// Reader reads one message per line.
type Reader struct {
	sc    *bufio.Scanner
	parse func(string) (*wire.Message, error)
	line  int
}

// NewReader reads controller lines with Parse.
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r), parse: Parse}
}

// NewUplinkReader reads gateway lines with ParseUplink.
func NewUplinkReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r), parse: ParseUplink}
}

// Next returns the next message, skipping blank lines. Whitespace inside
// a line is kept as part of the payload. It returns io.EOF
// at the end of input. A malformed line does not stop the reader.
func (r *Reader) Next() (*wire.Message, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return r.parse(text)
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Line returns the number of the line last read, starting at 1.
func (r *Reader) Line() int {
	return r.line
}

// Writer writes one message per line.
type Writer struct {
	w      io.Writer
	format func(*wire.Message) string
}

// NewWriter writes gateway lines with Format.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, format: Format}
}

// NewDownlinkWriter writes controller lines with FormatDownlink.
func NewDownlinkWriter(w io.Writer) *Writer {
	return &Writer{w: w, format: FormatDownlink}
}

// Write renders m and writes it with a single call.
func (w *Writer) Write(m *wire.Message) error {
	_, err := io.WriteString(w.w, w.format(m))
	return err
}
