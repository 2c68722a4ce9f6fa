package uci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fenscore/internal/testutil"
)

func TestDriver_Handshake(t *testing.T) {
	engine := testutil.NewFakeEngine()
	driver := NewDriver(engine)

	err := driver.Handshake([]string{"Hash=128", "bogus entry", "Threads=1"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"uci",
		"setoption name Hash value 128",
		"isready",
		"setoption name Threads value 1",
		"isready",
	}, engine.Sent(), "entries without '=' are skipped, each applied option is followed by a readiness check")
}

func TestDriver_Handshake_DiscardsChatter(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("uci",
		"id name fakefish 1.0",
		"option name Hash type spin default 16 min 1 max 4096",
		"uciok this trailing text is ignored",
	)
	driver := NewDriver(engine)

	require.NoError(t, driver.Handshake(nil))
}

func TestDriver_SetupPosition(t *testing.T) {
	engine := testutil.NewFakeEngine()
	driver := NewDriver(engine)

	fen := "8/8/8/8/8/8/8/8 w - - 0 1"
	require.NoError(t, driver.SetupPosition(fen))

	assert.Equal(t, []string{
		"ucinewgame",
		"isready",
		"position fen " + fen,
		"isready",
	}, engine.Sent())
}

func TestDriver_Search_Centipawns(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go",
		"info depth 1 score cp 13 nodes 20 pv e2e4",
		"info depth 2 score cp 37 nodes 110 pv e2e4 e7e5",
		"bestmove e2e4",
	)
	driver := NewDriver(engine)

	score, err := driver.Search(SearchLimit{Depth: 2})
	require.NoError(t, err)
	assert.Equal(t, 37, score, "the most recent score wins")
	assert.Contains(t, engine.Sent(), "go depth 2")
}

func TestDriver_Search_MateEncoding(t *testing.T) {
	tests := []struct {
		name string
		info string
		want int
	}{
		{"mate in one", "info depth 5 score mate 1", 31999},
		{"getting mated in two", "info depth 5 score mate -2", -32032},
		{"mated now", "info depth 5 score mate 0", -32000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := testutil.NewFakeEngine()
			engine.On("go", tt.info, "bestmove a1a2")
			driver := NewDriver(engine)

			score, err := driver.Search(SearchLimit{Nodes: 100})
			require.NoError(t, err)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestDriver_Search_BoundQualifiersKeepScore(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go",
		"info depth 3 score cp 10 upperbound nodes 500",
		"bestmove e2e4",
	)
	driver := NewDriver(engine)

	score, err := driver.Search(SearchLimit{Depth: 3})
	require.NoError(t, err)
	assert.Equal(t, 10, score, "bound qualifiers do not suppress the score")
}

func TestDriver_Search_WDLStatisticsSkipped(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go",
		"info depth 8 score cp -4 wdl 220 560 220 nodes 9000",
		"bestmove e7e5",
	)
	driver := NewDriver(engine)

	score, err := driver.Search(SearchLimit{Depth: 8})
	require.NoError(t, err)
	assert.Equal(t, -4, score)
}

func TestDriver_Search_PVTerminatesScan(t *testing.T) {
	// Anything after "pv" belongs to the move list and must not be
	// mistaken for protocol fields.
	engine := testutil.NewFakeEngine()
	engine.On("go",
		"info depth 2 score cp 21 pv e2e4 score cp 999",
		"bestmove e2e4",
	)
	driver := NewDriver(engine)

	score, err := driver.Search(SearchLimit{Depth: 2})
	require.NoError(t, err)
	assert.Equal(t, 21, score)
}

func TestDriver_Search_InfoWithoutScore(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go",
		"info string NNUE evaluation enabled",
		"info depth 4 score cp 2",
		"bestmove d2d4",
	)
	driver := NewDriver(engine)

	score, err := driver.Search(SearchLimit{Depth: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, score)
}

func TestDriver_Search_NoScore(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go", "bestmove e2e4")
	driver := NewDriver(engine)

	_, err := driver.Search(SearchLimit{Depth: 1})
	assert.ErrorIs(t, err, ErrNoScore)
}

func TestDriver_Search_ProtocolViolation(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go", "garbage line", "bestmove e2e4")
	driver := NewDriver(engine)

	_, err := driver.Search(SearchLimit{Depth: 1})
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDriver_Search_MalformedScore(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go", "info depth 1 score cp banana", "bestmove e2e4")
	driver := NewDriver(engine)

	_, err := driver.Search(SearchLimit{Depth: 1})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrProtocol, "a malformed number is a parse error, not a protocol violation")
}

func TestDriver_Search_TruncatedScore(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go", "info depth 1 score", "bestmove e2e4")
	driver := NewDriver(engine)

	_, err := driver.Search(SearchLimit{Depth: 1})
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDriver_Search_UnknownScoreKind(t *testing.T) {
	engine := testutil.NewFakeEngine()
	engine.On("go", "info depth 1 score tablebase 5", "bestmove e2e4")
	driver := NewDriver(engine)

	_, err := driver.Search(SearchLimit{Depth: 1})
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestScanInfo_UnknownTokenSkipsOne(t *testing.T) {
	// "depth 12" and "nodes 4000" are unknown to the scanner and consume
	// one argument each, leaving the score intact.
	score, ok, err := scanInfo([]string{"depth", "12", "nodes", "4000", "score", "cp", "55"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 55, score)
}
