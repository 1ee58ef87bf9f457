package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"StockScorer/internal/model"
)

const (
	DefaultPolygonURL = "https://api.polygon.io"

	// dailyBarsWindow is the calendar span requested for the volume baseline.
	// Sixty days covers thirty sessions with holidays to spare.
	dailyBarsWindow = 60 * 24 * time.Hour
)

// PolygonProvider implements MarketDataProvider using the Polygon.io REST API.
type PolygonProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Limiter *rate.Limiter
	Now     func() time.Time
}

// NewPolygonProvider creates a provider with optional proxy support and a
// client-side limiter of ratePerMinute requests.
func NewPolygonProvider(baseURL, apiKey, proxyURL string, ratePerMinute float64, timeout time.Duration) *PolygonProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultPolygonURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PolygonProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Limiter: NewLimiter(ratePerMinute),
		Now:     time.Now,
	}
}

// NewLimiter spreads perMinute requests evenly, allowing a burst of up to one
// minute's quota. A non-positive rate disables limiting.
func NewLimiter(perMinute float64) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), max(1, int(perMinute)))
}

func (p *PolygonProvider) Name() string { return "polygon" }

type polygonAgg struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

func (a polygonAgg) bar() model.OHLCV {
	return model.OHLCV{
		Time:   time.UnixMilli(a.T).UTC(),
		Open:   a.O,
		High:   a.H,
		Low:    a.L,
		Close:  a.C,
		Volume: a.V,
	}
}

type polygonAggsResponse struct {
	Results []polygonAgg `json:"results"`
}

type polygonDetailsResponse struct {
	Results json.RawMessage `json:"results"`
}

type polygonTickerDetails struct {
	Name             string  `json:"name"`
	MarketCap        float64 `json:"market_cap"`
	SICDescription   string  `json:"sic_description"`
	ShareClassShares float64 `json:"share_class_shares_outstanding"`
	WeightedShares   float64 `json:"weighted_shares_outstanding"`
	HomepageURL      string  `json:"homepage_url"`
	Branding         struct {
		IconURL string `json:"icon_url"`
	} `json:"branding"`
}

// emptyResults reports whether a results field is missing, null or a list.
// Ticker details arrive as an object; anything else means no data.
func emptyResults(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || trimmed[0] == '['
}

type polygonValue struct {
	Value float64 `json:"value"`
}

// polygonStatement is a financial statement keyed by line item.
type polygonStatement map[string]polygonValue

func (s polygonStatement) get(key string) float64 { return s[key].Value }

type polygonFiling struct {
	FiscalPeriod string     `json:"fiscal_period"`
	FiscalYear   fiscalYear `json:"fiscal_year"`
	FilingDate   string     `json:"filing_date"`
	Financials   struct {
		IncomeStatement polygonStatement `json:"income_statement"`
		BalanceSheet    polygonStatement `json:"balance_sheet"`
	} `json:"financials"`
}

type polygonFinancialsResponse struct {
	Results []polygonFiling `json:"results"`
}

type polygonDividendsResponse struct {
	Results []struct {
		CashAmount float64 `json:"cash_amount"`
	} `json:"results"`
}

// fiscalYear accepts both "2024" and 2024; anything else decodes as 0.
type fiscalYear int

func (y *fiscalYear) UnmarshalJSON(b []byte) error {
	n, err := strconv.Atoi(strings.Trim(string(b), `"`))
	if err != nil {
		n = 0
	}
	*y = fiscalYear(n)
	return nil
}

func (p *PolygonProvider) GetPreviousDayBar(ctx context.Context, ticker string) (*model.OHLCV, error) {
	var resp polygonAggsResponse
	if err := p.get(ctx, "/v2/aggs/ticker/"+url.PathEscape(ticker)+"/prev", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	bar := resp.Results[0].bar()
	return &bar, nil
}

func (p *PolygonProvider) GetTickerDetails(ctx context.Context, ticker string) (*model.TickerDetails, error) {
	var resp polygonDetailsResponse
	if err := p.get(ctx, "/v3/reference/tickers/"+url.PathEscape(ticker), nil, &resp); err != nil {
		return nil, err
	}
	if emptyResults(resp.Results) {
		return nil, nil
	}
	var r polygonTickerDetails
	if err := json.Unmarshal(resp.Results, &r); err != nil {
		return nil, fmt.Errorf("polygon ticker details %s: decode: %w", ticker, err)
	}
	shares := r.ShareClassShares
	if shares == 0 {
		shares = r.WeightedShares
	}
	return &model.TickerDetails{
		Name:              r.Name,
		MarketCap:         r.MarketCap,
		SectorDescription: r.SICDescription,
		SharesOutstanding: shares,
		LogoURL:           r.Branding.IconURL,
		HomepageURL:       r.HomepageURL,
	}, nil
}

func (p *PolygonProvider) GetQuarterlyFinancials(ctx context.Context, ticker string, limit int, order string) ([]model.QuarterlyFiling, error) {
	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("timeframe", "quarterly")
	params.Set("sort", "filing_date")
	params.Set("order", order)

	var resp polygonFinancialsResponse
	if err := p.get(ctx, "/vX/reference/financials", params, &resp); err != nil {
		return nil, err
	}
	filings := make([]model.QuarterlyFiling, 0, len(resp.Results))
	for _, f := range resp.Results {
		inc, bal := f.Financials.IncomeStatement, f.Financials.BalanceSheet
		filings = append(filings, model.QuarterlyFiling{
			FiscalPeriod: f.FiscalPeriod,
			FiscalYear:   int(f.FiscalYear),
			FilingDate:   f.FilingDate,
			IncomeStatement: model.IncomeStatement{
				NetIncome: inc.get("net_income_loss"),
				Revenue:   inc.get("revenues"),
			},
			BalanceSheet: model.BalanceSheet{
				LongTermDebt:          bal.get("long_term_debt"),
				CurrentDebt:           bal.get("current_debt"),
				NoncurrentLiabilities: bal.get("noncurrent_liabilities"),
				TotalLiabilities:      bal.get("liabilities"),
				Equity:                bal.get("equity"),
				StockholdersEquity:    bal.get("stockholders_equity"),
			},
		})
	}
	return filings, nil
}

func (p *PolygonProvider) GetDividendHistory(ctx context.Context, ticker string, limit int) ([]model.Dividend, error) {
	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("order", "desc")

	var resp polygonDividendsResponse
	if err := p.get(ctx, "/v3/reference/dividends", params, &resp); err != nil {
		return nil, err
	}
	divs := make([]model.Dividend, 0, len(resp.Results))
	for _, d := range resp.Results {
		divs = append(divs, model.Dividend{CashAmount: d.CashAmount})
	}
	return divs, nil
}

func (p *PolygonProvider) GetDailyBars(ctx context.Context, ticker string, limit int) ([]model.OHLCV, error) {
	now := p.Now()
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s", url.PathEscape(ticker),
		now.Add(-dailyBarsWindow).Format(time.DateOnly), now.Format(time.DateOnly))
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "desc")

	var resp polygonAggsResponse
	if err := p.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	bars := make([]model.OHLCV, 0, len(resp.Results))
	for _, a := range resp.Results {
		bars = append(bars, a.bar())
	}
	if len(bars) > limit {
		bars = bars[:limit]
	}
	return bars, nil
}

func (p *PolygonProvider) get(ctx context.Context, path string, params url.Values, out any) error {
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("polygon %s: wait for limiter: %w", path, err)
		}
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", p.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		// keep the API key out of logs
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = p.BaseURL + path
		}
		return fmt.Errorf("polygon fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("polygon %s: %w", path, ErrRateLimited)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("polygon %s: %w", path, ErrNoData)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("polygon %s: status %d, body: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("polygon %s: decode: %w", path, err)
	}
	return nil
}
