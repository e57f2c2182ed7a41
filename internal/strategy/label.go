package strategy

import "smarttrader/internal/model"

// Classify labels one forecast day by comparing its close with its own open.
func Classify(e model.ForecastEntry) model.Label {
	switch {
	case e.Close > e.Open:
		return model.LabelBull
	case e.Close < e.Open:
		return model.LabelBear
	default:
		return model.LabelIdle
	}
}
