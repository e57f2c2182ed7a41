package calculator

import (
	"math"

	"smarttrader/internal/model"
)

// MinMaxScaler holds per-column bounds fitted on a single window.
type MinMaxScaler struct {
	Min [model.NumColumns]float64
	Max [model.NumColumns]float64
}

// ScaledWindow is a window mapped into [0,1] together with the scaler that
// produced it.
type ScaledWindow struct {
	Rows   [][model.NumColumns]float64
	Scaler *MinMaxScaler
}

// ColumnRange scans bars and returns the low and high of one column.
func ColumnRange(bars []model.Bar, col model.Column) (low, high float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, b := range bars {
		v := b.Values()[col]
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return low, high
}

// Fit computes column bounds over the window.
func Fit(w *model.Window) *MinMaxScaler {
	s := &MinMaxScaler{}
	if w == nil {
		return s
	}
	for c := 0; c < model.NumColumns; c++ {
		s.Min[c], s.Max[c] = ColumnRange(w.Bars, model.Column(c))
	}
	return s
}

// FitTransform fits a fresh scaler on w and scales every bar with it.
func FitTransform(w *model.Window) (*ScaledWindow, *MinMaxScaler) {
	s := Fit(w)
	if w == nil {
		return &ScaledWindow{Scaler: s}, s
	}
	sw := &ScaledWindow{Rows: make([][model.NumColumns]float64, w.Len()), Scaler: s}
	for i, b := range w.Bars {
		vals := b.Values()
		for c := 0; c < model.NumColumns; c++ {
			sw.Rows[i][c] = s.Transform(vals[c], model.Column(c))
		}
	}
	return sw, s
}

// Transform maps v into the fitted range. A flat column maps to 0.
func (s *MinMaxScaler) Transform(v float64, col model.Column) float64 {
	span := s.Max[col] - s.Min[col]
	if span == 0 {
		return 0
	}
	return (v - s.Min[col]) / span
}

// Inverse maps a scaled value back into price units.
func (s *MinMaxScaler) Inverse(v float64, col model.Column) float64 {
	return v*(s.Max[col]-s.Min[col]) + s.Min[col]
}
