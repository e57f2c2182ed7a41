package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"smarttrader/internal/model"
)

const (
	DefaultLookbackDays = 60
	DefaultNPast        = 30
)

// WindowFetcher pulls the model input window from a Source.
type WindowFetcher struct {
	Source       Source
	LookbackDays int
	NPast        int
}

// NewWindowFetcher creates a WindowFetcher, falling back to defaults for
// non-positive sizes.
func NewWindowFetcher(src Source, lookbackDays, nPast int) *WindowFetcher {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if nPast <= 0 {
		nPast = DefaultNPast
	}
	return &WindowFetcher{Source: src, LookbackDays: lookbackDays, NPast: nPast}
}

// Fetch returns the NPast most recent bars in [asOf-LookbackDays, asOf).
// A short history is an error, never padded.
func (f *WindowFetcher) Fetch(ctx context.Context, ticker string, asOf time.Time) (*model.Window, error) {
	start := asOf.AddDate(0, 0, -f.LookbackDays)
	bars, err := f.Source.History(ctx, ticker, start, asOf)
	if err != nil {
		return nil, fmt.Errorf("fetch %s history: %w", ticker, err)
	}
	if len(bars) < f.NPast {
		return nil, fmt.Errorf("%w: need %d past days for %s, only got %d between %s and %s",
			model.ErrInsufficientHistory, f.NPast, ticker, len(bars),
			start.Format(model.DateLayout), asOf.Format(model.DateLayout))
	}

	recent := make([]model.Bar, f.NPast)
	copy(recent, bars[len(bars)-f.NPast:])
	log.Printf("[INFO] %s: window %s..%s (%d of %d bars from %s)", ticker,
		recent[0].Date.Format(model.DateLayout), recent[len(recent)-1].Date.Format(model.DateLayout),
		f.NPast, len(bars), f.Source.Name())

	return &model.Window{Ticker: ticker, AsOf: asOf, Bars: recent}, nil
}

// Range fetches bars in [start, end) without window constraints.
func (f *WindowFetcher) Range(ctx context.Context, ticker string, start, end time.Time) ([]model.Bar, error) {
	bars, err := f.Source.History(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s range: %w", ticker, err)
	}
	return bars, nil
}
