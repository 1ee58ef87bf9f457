package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScorer/internal/recorder"
)

func TestRun_InterruptedKeepsPartialReport(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "docs", "data.json")
	dbPath := filepath.Join(dir, "scorer.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
universe:
  tickers: [AAPL, NVDA]
report:
  json_path: `+reportPath+`
database:
  sqlite_path: `+dbPath+`
`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--config", cfgPath, "--offline", "run"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.Contains(t, out.String(), "upstream requests")
	assert.FileExists(t, reportPath)

	rec, err := recorder.NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	defer rec.Close()
	runs, err := rec.RecentRuns(5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
