package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScorer/internal/model"
)

func TestDefault(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "AMD", "AMZN", "CRM", "GOOGL", "INTC", "META", "MSFT", "NVDA", "TSLA"}, tbl.Tickers())
	assert.Len(t, tbl.ExpectedCaps, 10)
}

func TestLookup_Derivations(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	snap, ok := tbl.Lookup("aapl")
	require.True(t, ok)
	assert.Equal(t, "AAPL", snap.Ticker)
	assert.Equal(t, model.SourceReference, snap.Source)
	assert.Equal(t, 3.58e12, snap.MarketCap)
	assert.InDelta(t, 2.31/235.28*100, snap.ChangePct, 1e-9)
	assert.InDelta(t, 48_500_000*0.9, snap.AvgVolume, 1e-6)
	assert.InDelta(t, 0.44*237.59/100, snap.AnnualDividend, 1e-9)
	require.NotNil(t, snap.DebtEquity)
	assert.Equal(t, 1.87, *snap.DebtEquity)

	_, ok = tbl.Lookup("IBM")
	assert.False(t, ok)
}

func TestLookup_FreshPointers(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)
	a, _ := tbl.Lookup("MSFT")
	*a.DebtEquity = 99
	b, _ := tbl.Lookup("MSFT")
	assert.Equal(t, 0.35, *b.DebtEquity)
}

func TestExpectedCapRange(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)
	r, ok := tbl.ExpectedCapRange("META")
	require.True(t, ok)
	assert.Equal(t, model.CapRange{Low: 800e9, High: 2e12}, r)
	_, ok = tbl.ExpectedCapRange("IBM")
	assert.False(t, ok)
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
references:
  ibm: {name: "IBM", price: 250, change: 0, volume: 4000000, avg_volume: 5000000, market_cap: 230e9, sector: "Computer Services", eps: 6.5, eps_growth: 4, debt_equity: null, dividend_yield: 2.7}
expected_caps:
  AAPL: {low: 3e12, high: 5e12}
`), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)

	snap, ok := tbl.Lookup("IBM")
	require.True(t, ok)
	assert.Nil(t, snap.DebtEquity)
	assert.Equal(t, 5_000_000.0, snap.AvgVolume)
	assert.Zero(t, snap.ChangePct)

	r, _ := tbl.ExpectedCapRange("AAPL")
	assert.Equal(t, 3e12, r.Low)
	_, ok = tbl.Lookup("AAPL")
	assert.True(t, ok, "defaults survive the overlay")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("expected_caps:\n  X: {low: 5, high: 1}\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "low 5 above high 1")

	tbl, err := Load("")
	require.NoError(t, err)
	assert.Len(t, tbl.References, 10)
}
