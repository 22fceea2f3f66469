package feeds

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// stooqQuoteURL serves one-line CSV snapshots; stooqHistoryURL serves
// daily OHLC history. US tickers carry a ".us" suffix on Stooq.
const (
	stooqQuoteURL   = "https://stooq.com/q/l/?s=%s&f=sd2t2ohlcv&h&e=csv"
	stooqHistoryURL = "https://stooq.com/q/d/l/?s=%s&i=d"
)

// ErrNoQuote is returned when Stooq has no data for a ticker.
var ErrNoQuote = errors.New("feeds: no quote data")

// Quote is a single stock snapshot.
type Quote struct {
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Date   string
	Time   string
}

// Change returns the intraday price change and its percentage relative to
// the open. A zero open yields a zero percentage.
func (q Quote) Change() (delta, percent float64) {
	delta = q.Close - q.Open
	if q.Open != 0 {
		percent = delta / q.Open * 100
	}
	return delta, percent
}

// FetchQuote fetches the latest snapshot for one ticker.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (Quote, error) {
	body, err := c.get(ctx, fmt.Sprintf(stooqQuoteURL, url.QueryEscape(stooqSymbol(ticker))))
	if err != nil {
		return Quote{}, err
	}
	return ParseQuoteCSV(string(body))
}

// FetchQuotes fetches snapshots for several tickers, preserving order.
// It fails on the first ticker that cannot be fetched.
func (c *Client) FetchQuotes(ctx context.Context, tickers []string) ([]Quote, error) {
	quotes := make([]Quote, 0, len(tickers))
	for _, t := range tickers {
		q, err := c.FetchQuote(ctx, t)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// FetchDailyCloses fetches up to limit recent daily closing prices for a
// ticker, oldest first.
func (c *Client) FetchDailyCloses(ctx context.Context, ticker string, limit int) ([]float64, error) {
	body, err := c.get(ctx, fmt.Sprintf(stooqHistoryURL, url.QueryEscape(stooqSymbol(ticker))))
	if err != nil {
		return nil, err
	}
	return ParseDailyCloses(string(body), limit)
}

// ParseQuoteCSV parses Stooq's one-line snapshot format:
//
//	Symbol,Date,Time,Open,High,Low,Close,Volume
//	AAPL.US,2026-08-28,22:00:00,231.5,233.1,230.2,232.56,41260000
//
// Tickers Stooq does not know come back with "N/D" fields.
func ParseQuoteCSV(data string) (Quote, error) {
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		return Quote{}, fmt.Errorf("feeds: parse quote csv: %w", err)
	}
	if len(records) < 2 || len(records[1]) < 8 {
		return Quote{}, ErrNoQuote
	}

	row := records[1]
	if row[3] == "N/D" || row[6] == "N/D" {
		return Quote{}, fmt.Errorf("%w: %s", ErrNoQuote, row[0])
	}

	q := Quote{
		Symbol: strings.TrimSuffix(strings.ToUpper(row[0]), ".US"),
		Date:   row[1],
		Time:   row[2],
	}
	if q.Open, err = strconv.ParseFloat(row[3], 64); err != nil {
		return Quote{}, fmt.Errorf("feeds: parse open %q: %w", row[3], err)
	}
	if q.High, err = strconv.ParseFloat(row[4], 64); err != nil {
		return Quote{}, fmt.Errorf("feeds: parse high %q: %w", row[4], err)
	}
	if q.Low, err = strconv.ParseFloat(row[5], 64); err != nil {
		return Quote{}, fmt.Errorf("feeds: parse low %q: %w", row[5], err)
	}
	if q.Close, err = strconv.ParseFloat(row[6], 64); err != nil {
		return Quote{}, fmt.Errorf("feeds: parse close %q: %w", row[6], err)
	}
	// Volume is blank for indices.
	if row[7] != "" {
		if q.Volume, err = strconv.ParseInt(row[7], 10, 64); err != nil {
			return Quote{}, fmt.Errorf("feeds: parse volume %q: %w", row[7], err)
		}
	}
	return q, nil
}

// ParseDailyCloses parses Stooq's daily history CSV
// (Date,Open,High,Low,Close,Volume) and returns up to limit closing
// prices, oldest first. Rows that fail to parse are skipped.
func ParseDailyCloses(data string, limit int) ([]float64, error) {
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("feeds: parse history csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoQuote
	}

	closes := make([]float64, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) < 5 {
			continue
		}
		v, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}
		closes = append(closes, v)
	}
	if len(closes) == 0 {
		return nil, ErrNoQuote
	}
	if limit > 0 && len(closes) > limit {
		closes = closes[len(closes)-limit:]
	}
	return closes, nil
}

// stooqSymbol maps a plain ticker to Stooq's symbol form. Bare tickers
// are treated as US listings; anything already carrying an exchange
// suffix or index prefix passes through.
func stooqSymbol(ticker string) string {
	t := strings.ToLower(strings.TrimSpace(ticker))
	if t == "" {
		return t
	}
	if strings.ContainsAny(t, ".^") {
		return t
	}
	return t + ".us"
}
