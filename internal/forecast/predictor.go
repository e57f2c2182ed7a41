package forecast

import (
	"context"
	"fmt"
	"log"
	"time"

	"smarttrader/internal/calculator"
	"smarttrader/internal/collector"
	"smarttrader/internal/inference"
	"smarttrader/internal/model"
)

// Predictor runs the full pipeline: fetch, scale, infer, assemble.
// It keeps no per-request state and is safe for concurrent use when its
// Model is.
type Predictor struct {
	Fetcher       *collector.WindowFetcher
	Engine        *inference.Engine
	DefaultTicker string
}

func NewPredictor(f *collector.WindowFetcher, e *inference.Engine, defaultTicker string) *Predictor {
	return &Predictor{Fetcher: f, Engine: e, DefaultTicker: defaultTicker}
}

// ModelName identifies the model behind the engine, for history records.
func (p *Predictor) ModelName() string {
	if p.Engine == nil || p.Engine.Model == nil {
		return ""
	}
	return p.Engine.Model.Name()
}

func (p *Predictor) ticker(t string) string {
	if t == "" {
		return p.DefaultTicker
	}
	return t
}

// Predict forecasts the NFuture business days after asOfDate.
func (p *Predictor) Predict(ctx context.Context, ticker, asOfDate string) (*model.Forecast, error) {
	asOf, err := ParseDate(asOfDate)
	if err != nil {
		return nil, err
	}
	ticker = p.ticker(ticker)
	start := time.Now()

	window, err := p.Fetcher.Fetch(ctx, ticker, asOf)
	if err != nil {
		return nil, err
	}
	scaled, scaler := calculator.FitTransform(window)
	raw, err := p.Engine.Infer(ctx, scaled)
	if err != nil {
		return nil, err
	}
	fc, err := Assemble(raw, scaler, asOfDate, p.Engine.NFuture)
	if err != nil {
		return nil, err
	}
	fc.Ticker = ticker

	log.Printf("[INFO] %s: forecast %s..%s from %s (%v)", ticker,
		fc.Entries[0].Date.Format(model.DateLayout), fc.Entries[len(fc.Entries)-1].Date.Format(model.DateLayout),
		asOf.Format(model.DateLayout), time.Since(start).Round(time.Millisecond))
	return fc, nil
}

// Actual returns the realised bars for the business days Predict would
// forecast from asOfDate. Days without a bar yet are simply absent.
func (p *Predictor) Actual(ctx context.Context, ticker, asOfDate string) ([]model.Bar, error) {
	asOf, err := ParseDate(asOfDate)
	if err != nil {
		return nil, err
	}
	ticker = p.ticker(ticker)
	days := calculator.BusinessDays(asOf, p.Engine.NFuture)
	end := calculator.NextBusinessDay(days[len(days)-1])

	bars, err := p.Fetcher.Range(ctx, ticker, days[0], end)
	if err != nil {
		return nil, fmt.Errorf("actual: %w", err)
	}
	want := make(map[string]bool, len(days))
	for _, d := range days {
		want[d.Format(model.DateLayout)] = true
	}
	out := make([]model.Bar, 0, len(days))
	for _, b := range bars {
		if want[b.Date.Format(model.DateLayout)] {
			out = append(out, b)
		}
	}
	return out, nil
}
