package dataset

import (
	"bufio"
	"io"
)

// Reader yields dataset lines one at a time, skipping blanks.
type Reader struct {
	s *bufio.Scanner
}

// NewReader wraps r in a buffered line reader.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	// FEN lines are short, but leave room for datasets with long annotations.
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{s: s}
}

// Next returns the next non-blank line, or ok=false at end of input or on a
// read error (check Err afterwards).
func (r *Reader) Next() (line string, ok bool) {
	for r.s.Scan() {
		text := r.s.Text()
		if len(text) == 0 {
			continue
		}
		return text, true
	}
	return "", false
}

// Err returns the first error encountered while reading, excluding EOF.
func (r *Reader) Err() error {
	return r.s.Err()
}
