package collector

import (
	"context"
	"time"

	"smarttrader/internal/model"
)

// StaticSource serves a fixed set of bars for development and testing.
// It filters by the requested range like a real provider would.
type StaticSource struct {
	Bars  []model.Bar
	Err   error
	Calls int
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) History(_ context.Context, _ string, start, end time.Time) ([]model.Bar, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Bar, 0, len(s.Bars))
	for _, b := range s.Bars {
		if b.Date.Before(start) || !b.Date.Before(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// GenerateBars returns count weekday bars ending on the last weekday before
// end, drifting gently around basePrice.
func GenerateBars(basePrice float64, end time.Time, count int) []model.Bar {
	bars := make([]model.Bar, count)
	d := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for i := count - 1; i >= 0; i-- {
		d = d.AddDate(0, 0, -1)
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, -1)
		}
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:  d,
			Open:  p * 0.999,
			High:  p * 1.005,
			Low:   p * 0.995,
			Close: p,
		}
	}
	return bars
}
