package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"smarttrader/internal/model"
)

// Round2 rounds half away from zero to 2 decimal places, working on the
// shortest decimal representation of v.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Summarize reduces a forecast to its average close, highest high, lowest
// low and per-day labels. An empty forecast yields zeros and an empty
// strategy.
func Summarize(fc *model.Forecast) *model.Summary {
	sum := &model.Summary{Strategy: []model.StrategyEntry{}}
	if fc == nil || len(fc.Entries) == 0 {
		return sum
	}

	closes := decimal.Zero
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, e := range fc.Entries {
		closes = closes.Add(decimal.NewFromFloat(e.Close))
		if e.High > high {
			high = e.High
		}
		if e.Low < low {
			low = e.Low
		}
		sum.Strategy = append(sum.Strategy, model.StrategyEntry{
			Date:  e.Date.Format(model.DateLayout),
			Label: Classify(e),
		})
	}

	avg := closes.Div(decimal.NewFromInt(int64(len(fc.Entries))))
	sum.Avg = avg.Round(2).InexactFloat64()
	sum.High = Round2(high)
	sum.Low = Round2(low)
	return sum
}
