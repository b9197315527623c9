package marketdata

import (
	"encoding/json"
	"fmt"
)

// KrakenTickerResponse is the /Ticker response body
type KrakenTickerResponse struct {
	Error  []string                    `json:"error"`
	Result map[string]KrakenTickerData `json:"result"`
}

// KrakenTickerData holds the ticker fields for one pair
type KrakenTickerData struct {
	Ask             []string `json:"a"`
	Bid             []string `json:"b"`
	LastTradeClosed []string `json:"c"`
	Volume          []string `json:"v"`
	Low             []string `json:"l"`
	High            []string `json:"h"`
	// OpeningPrice is a string for spot pairs and an array on some legacy pairs
	OpeningPrice any `json:"o"`
}

// LastTradedPrice parses c[0]
func (t *KrakenTickerData) LastTradedPrice() (float64, error) {
	if len(t.LastTradeClosed) == 0 {
		return 0, fmt.Errorf("%w: ticker has no last trade", ErrInvalidResponse)
	}
	return parsePrice(t.LastTradeClosed[0])
}

// Open parses today's opening price, zero when absent
func (t *KrakenTickerData) Open() float64 {
	var raw string
	switch v := t.OpeningPrice.(type) {
	case string:
		raw = v
	case []any:
		if len(v) > 0 {
			raw, _ = v[0].(string)
		}
	}
	if raw == "" {
		return 0
	}
	open, err := parsePrice(raw)
	if err != nil {
		return 0
	}
	return open
}

// KrakenOHLCResponse is the /OHLC response body. Result holds one array of
// candles keyed by pair name plus a "last" cursor.
type KrakenOHLCResponse struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

// CloseAt returns the close of the candle starting at unix time ts
func (r *KrakenOHLCResponse) CloseAt(ts int64) (float64, error) {
	for name, raw := range r.Result {
		if name == "last" {
			continue
		}

		var rows [][]any
		if err := json.Unmarshal(raw, &rows); err != nil {
			return 0, fmt.Errorf("%w: malformed OHLC rows: %v", ErrInvalidResponse, err)
		}

		for _, row := range rows {
			// [time, open, high, low, close, vwap, volume, count]
			if len(row) < 5 {
				continue
			}
			t, ok := row[0].(float64)
			if !ok || int64(t) != ts {
				continue
			}
			closeRaw, ok := row[4].(string)
			if !ok {
				return 0, fmt.Errorf("%w: OHLC close is not a string", ErrInvalidResponse)
			}
			return parsePrice(closeRaw)
		}
	}
	return 0, ErrNoData
}
