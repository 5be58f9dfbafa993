package capture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zoobzio/nosline"
)

// maxLineSize bounds a single capture log line.
const maxLineSize = 1 << 20

// RecordReader yields records until io.EOF.
type RecordReader interface {
	Next() (Record, error)
}

// Reader reads records from a capture log. Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	seq     uint64
	lineNo  int
}

// NewReader creates a reader over r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Reader{scanner: s}
}

// Next returns the next record, or io.EOF at the end of the log.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.lineNo++
		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		source, line, err := ParseLine(text)
		if err != nil {
			return Record{}, fmt.Errorf("line %d: %w", r.lineNo, err)
		}
		r.seq++
		return NewRecord(r.seq, source, line), nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

// ReadAll reads every remaining record.
func ReadAll(r RecordReader) ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Writer writes a capture log.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one packet line.
func (w *Writer) Write(source nosline.Source, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("%w: line contains a line break", ErrMalformedLine)
	}
	if _, err := w.w.WriteString(FormatLine(source, line)); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// WritePacket serializes p with s and appends the line.
func (w *Writer) WritePacket(ctx context.Context, s *nosline.Serializer, source nosline.Source, p nosline.Packet) error {
	line, err := s.Serialize(ctx, p)
	if err != nil {
		return err
	}
	return w.Write(source, line)
}

// Flush writes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
