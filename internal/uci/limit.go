package uci

import (
	"errors"
	"fmt"
	"strings"
)

// SearchLimit bounds a search by depth and/or node count. A zero field is
// unset; at least one must be set.
type SearchLimit struct {
	Depth uint32
	Nodes uint64
}

// Validate reports whether the limit bounds the search at all.
func (l SearchLimit) Validate() error {
	if l.Depth == 0 && l.Nodes == 0 {
		return errors.New("search limit: depth or nodes required")
	}
	return nil
}

// GoCommand builds the newline-terminated search command, e.g.
// "go depth 10 nodes 1000\n".
func (l SearchLimit) GoCommand() string {
	var b strings.Builder
	b.WriteString("go")
	if l.Depth > 0 {
		fmt.Fprintf(&b, " depth %d", l.Depth)
	}
	if l.Nodes > 0 {
		fmt.Fprintf(&b, " nodes %d", l.Nodes)
	}
	b.WriteByte('\n')
	return b.String()
}

// String is the human-readable form used in logs and the run archive.
func (l SearchLimit) String() string {
	return strings.TrimSuffix(strings.TrimPrefix(l.GoCommand(), "go "), "\n")
}
