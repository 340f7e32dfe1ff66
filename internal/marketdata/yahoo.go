package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"orb-scanner/internal/logger"
	"orb-scanner/internal/types"
)

// YahooSource fetches the current session's 1-minute bars from the Yahoo
// Finance chart endpoint. The data is delayed; that is acceptable for a
// notification scanner.
type YahooSource struct {
	baseURL string
	client  *http.Client
	loc     *time.Location
}

func NewYahooSource(loc *time.Location) *YahooSource {
	return &YahooSource{
		baseURL: "https://query1.finance.yahoo.com",
		loc:     loc,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// IntradayBars retrieves today's minute bars for every symbol. A symbol that
// returns no data, or fails to fetch, is omitted from the result; the cycle
// carries on with whatever arrived.
func (y *YahooSource) IntradayBars(ctx context.Context, symbols []string) (map[string][]types.Bar, error) {
	out := make(map[string][]types.Bar, len(symbols))
	for _, sym := range symbols {
		bars, err := y.fetchOne(ctx, sym)
		if err != nil {
			logger.Warn(ctx, "Bar fetch failed, symbol skipped this cycle", "symbol", sym, "error", err)
			continue
		}
		if len(bars) > 0 {
			out[sym] = bars
		}
	}
	return out, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *YahooSource) fetchOne(ctx context.Context, symbol string) ([]types.Bar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", y.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Add("interval", "1m")
	q.Add("range", "1d")
	q.Add("includePrePost", "false")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "orb-scanner/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API status %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)",
			payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	res := payload.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	bars := make([]types.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == nil && h == nil && l == nil && c == nil && at(quote.Volume, i) == nil {
			continue
		}
		if o == nil || h == nil || l == nil || c == nil {
			continue
		}
		bar := types.Bar{
			Ts:    time.Unix(ts, 0).In(y.loc),
			Open:  *o,
			High:  *h,
			Low:   *l,
			Close: *c,
		}
		// Null volume comes through as zero and therefore never passes
		// the volume confirmation.
		if v := at(quote.Volume, i); v != nil {
			bar.Volume = *v
		}
		bars = append(bars, bar)
	}
	return Normalize(bars, y.loc), nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}
