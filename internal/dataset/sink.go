package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink buffers result lines on their way to the output file.
type Sink struct {
	w *bufio.Writer
	c io.Closer
}

// CreateSink creates (or truncates) the output file at path.
func CreateSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &Sink{w: bufio.NewWriter(f), c: f}, nil
}

// NewSink wraps an arbitrary writer, mainly for tests.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// WriteResult appends one formatted result line.
func (s *Sink) WriteResult(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// Close flushes buffered lines and closes the underlying file, if any.
// Closing an already closed sink is a no-op.
func (s *Sink) Close() error {
	if s.w == nil {
		return nil
	}
	w, c := s.w, s.c
	s.w, s.c = nil, nil

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	if c != nil {
		return c.Close()
	}
	return nil
}
