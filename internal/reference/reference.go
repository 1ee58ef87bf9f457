// Package reference holds the static data the engine falls back on: reference
// snapshots for untrusted tickers and expected market-cap bands for the audit.
package reference

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"StockScorer/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// avgVolumeRatio approximates the volume baseline when an entry has none.
const avgVolumeRatio = 0.9

// Entry is one reference snapshot as stored in YAML.
type Entry struct {
	Name          string   `yaml:"name"`
	Sector        string   `yaml:"sector"`
	Price         float64  `yaml:"price"`
	Change        float64  `yaml:"change"`
	Volume        float64  `yaml:"volume"`
	AvgVolume     *float64 `yaml:"avg_volume,omitempty"`
	MarketCap     float64  `yaml:"market_cap"`
	EPS           float64  `yaml:"eps"`
	EPSGrowth     float64  `yaml:"eps_growth"`
	DebtEquity    *float64 `yaml:"debt_equity"`
	DividendYield float64  `yaml:"dividend_yield"`
}

// CapBand is an expected market-cap range as stored in YAML.
type CapBand struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Table is the reference data set. It satisfies both the runner's reference
// lookup and the audit's cap-range lookup.
type Table struct {
	References   map[string]Entry   `yaml:"references"`
	ExpectedCaps map[string]CapBand `yaml:"expected_caps"`
}

// Default returns the embedded reference table.
func Default() (*Table, error) {
	return parse(defaultsYAML)
}

// Load returns the embedded table overlaid with the entries of the YAML file
// at path. An empty path yields the defaults unchanged.
func Load(path string) (*Table, error) {
	t, err := Default()
	if err != nil {
		return nil, fmt.Errorf("embedded reference data: %w", err)
	}
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	override, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse reference file %s: %w", path, err)
	}
	for k, v := range override.References {
		t.References[k] = v
	}
	for k, v := range override.ExpectedCaps {
		t.ExpectedCaps[k] = v
	}
	return t, nil
}

func parse(data []byte) (*Table, error) {
	var raw Table
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	t := &Table{
		References:   make(map[string]Entry, len(raw.References)),
		ExpectedCaps: make(map[string]CapBand, len(raw.ExpectedCaps)),
	}
	for k, v := range raw.References {
		t.References[strings.ToUpper(k)] = v
	}
	for k, v := range raw.ExpectedCaps {
		if v.Low > v.High {
			return nil, fmt.Errorf("expected cap for %s: low %.0f above high %.0f", k, v.Low, v.High)
		}
		t.ExpectedCaps[strings.ToUpper(k)] = v
	}
	return t, nil
}

// Lookup builds the reference snapshot for ticker.
func (t *Table) Lookup(ticker string) (model.FinancialSnapshot, bool) {
	e, ok := t.References[strings.ToUpper(ticker)]
	if !ok {
		return model.FinancialSnapshot{}, false
	}
	snap := model.FinancialSnapshot{
		Ticker:         strings.ToUpper(ticker),
		Name:           e.Name,
		Sector:         e.Sector,
		Source:         model.SourceReference,
		Price:          e.Price,
		Change:         e.Change,
		Volume:         e.Volume,
		AvgVolume:      e.Volume * avgVolumeRatio,
		MarketCap:      e.MarketCap,
		EPS:            e.EPS,
		EPSGrowth:      e.EPSGrowth,
		DividendYield:  e.DividendYield,
		AnnualDividend: e.DividendYield * e.Price / 100,
	}
	if e.AvgVolume != nil {
		snap.AvgVolume = *e.AvgVolume
	}
	if e.DebtEquity != nil {
		snap.DebtEquity = model.Float(*e.DebtEquity)
	}
	if e.Price != e.Change {
		snap.ChangePct = e.Change / (e.Price - e.Change) * 100
	}
	return snap, true
}

// ExpectedCapRange returns the sanity band for ticker.
func (t *Table) ExpectedCapRange(ticker string) (model.CapRange, bool) {
	b, ok := t.ExpectedCaps[strings.ToUpper(ticker)]
	if !ok {
		return model.CapRange{}, false
	}
	return model.CapRange{Low: b.Low, High: b.High}, true
}

// Tickers lists the tickers with a reference snapshot, sorted.
func (t *Table) Tickers() []string {
	out := make([]string, 0, len(t.References))
	for k := range t.References {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
