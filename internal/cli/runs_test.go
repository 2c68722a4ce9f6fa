package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fenscore/internal/store"
)

func executeRuns(t *testing.T, dbPath string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"runs", "--db", dbPath})
	err := cmd.Execute()
	return out.String(), err
}

func TestRuns_EmptyArchive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	// Create an empty archive first.
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := executeRuns(t, dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no archived runs")
}

func TestRuns_ListsArchivedRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	id, err := s.BeginRun("./stash", "depth 10", 4)
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(id, 42))
	require.NoError(t, s.Close())

	out, err := executeRuns(t, dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "./stash")
	assert.Contains(t, out, "42 positions")
}
