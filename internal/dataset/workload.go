// Package dataset handles the text dataset the scorer consumes and produces:
// input lines of the form "<FEN> <label>" and output lines of the form
// "<FEN> <label> <score>", label being the game-outcome value attached to
// the position.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitWorkload splits a dataset line at its last space into the FEN and the
// trailing label field. The label must be a decimal number; the FEN itself
// contains spaces and is kept verbatim.
func SplitWorkload(line string) (fen, label string, err error) {
	trimmed := strings.TrimRight(line, " \t\r\n")
	idx := strings.LastIndexByte(trimmed, ' ')
	if idx < 0 {
		return "", "", fmt.Errorf("workload %q: missing label field", trimmed)
	}

	fen, label = trimmed[:idx], trimmed[idx+1:]
	if _, perr := strconv.ParseFloat(label, 64); perr != nil {
		return "", "", fmt.Errorf("workload %q: bad label %q: %w", trimmed, label, perr)
	}
	return fen, label, nil
}

// FormatResult renders one scored position as an output line.
func FormatResult(fen, label string, score int) string {
	return fmt.Sprintf("%s %s %d\n", fen, label, score)
}
