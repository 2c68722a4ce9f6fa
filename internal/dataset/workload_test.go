package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWorkload(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantFEN   string
		wantLabel string
	}{
		{
			name:      "draw label",
			line:      "8/8/8/8/8/8/8/8 w - - 0 1 0.5",
			wantFEN:   "8/8/8/8/8/8/8/8 w - - 0 1",
			wantLabel: "0.5",
		},
		{
			name:      "trailing newline",
			line:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 1\n",
			wantFEN:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			wantLabel: "1",
		},
		{
			name:      "zero label",
			line:      "k7/8/8/8/8/8/8/K7 b - - 0 1 0",
			wantFEN:   "k7/8/8/8/8/8/8/K7 b - - 0 1",
			wantLabel: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fen, label, err := SplitWorkload(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFEN, fen)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestSplitWorkload_Invalid(t *testing.T) {
	_, _, err := SplitWorkload("nospace")
	assert.Error(t, err, "a line without a label field is rejected")

	_, _, err = SplitWorkload("8/8/8/8/8/8/8/8 w - - 0 1 notanumber")
	assert.Error(t, err, "a non-decimal label is rejected")
}

func TestFormatResult(t *testing.T) {
	got := FormatResult("8/8/8/8/8/8/8/8 w - - 0 1", "0.5", -37)
	assert.Equal(t, "8/8/8/8/8/8/8/8 w - - 0 1 0.5 -37\n", got)
}
