package api

import (
	"time"

	"smarttrader/internal/model"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ForecastResponse carries the full forecast rows.
type ForecastResponse struct {
	Ticker   string                `json:"ticker"`
	AsOf     string                `json:"as_of"`
	Forecast []model.ForecastEntry `json:"forecast"`
}

// BarResponse is one realised bar.
type BarResponse struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// ActualResponse lists realised bars for the forecast days.
type ActualResponse struct {
	Ticker string        `json:"ticker"`
	AsOf   string        `json:"as_of"`
	Actual []BarResponse `json:"actual"`
}

// PredictionResponse is one stored prediction.
type PredictionResponse struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Origin    string        `json:"origin"`
	Ticker    string        `json:"ticker"`
	AsOf      string        `json:"as_of"`
	Model     string        `json:"model"`
	Summary   model.Summary `json:"summary"`
}
