package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawForecast is the model output in normalized space, one row per horizon day.
type RawForecast struct {
	Rows [][NumColumns]float64
}

// ForecastEntry is one forecast business day in price units.
type ForecastEntry struct {
	Date  time.Time `json:"-"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

func (e ForecastEntry) MarshalJSON() ([]byte, error) {
	type alias ForecastEntry
	return json.Marshal(struct {
		Date string `json:"date"`
		alias
	}{Date: e.Date.Format(DateLayout), alias: alias(e)})
}

func (e *ForecastEntry) UnmarshalJSON(data []byte) error {
	type alias ForecastEntry
	aux := struct {
		Date string `json:"date"`
		*alias
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, aux.Date)
	if err != nil {
		return fmt.Errorf("forecast entry date: %w", err)
	}
	e.Date = d
	return nil
}

// Forecast is the date-indexed result of one prediction request.
type Forecast struct {
	Ticker  string
	AsOf    time.Time
	Entries []ForecastEntry
}

// DateLayout is the wire format for all dates.
const DateLayout = "2006-01-02"

// Label is the per-day directional bias.
type Label string

const (
	LabelBull Label = "BULL"
	LabelBear Label = "BEAR"
	LabelIdle Label = "IDLE"
)

// StrategyEntry pairs a forecast date with its label. It is encoded as a
// two-element array: ["2024-08-05", "BULL"].
type StrategyEntry struct {
	Date  string
	Label Label
}

func (s StrategyEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{s.Date, string(s.Label)})
}

func (s *StrategyEntry) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("strategy entry: expected 2 elements, got %d", len(pair))
	}
	s.Date = pair[0]
	s.Label = Label(pair[1])
	return nil
}

// Summary is the compact decision view of a forecast.
type Summary struct {
	Avg      float64         `json:"avg"`
	High     float64         `json:"high"`
	Low      float64         `json:"low"`
	Strategy []StrategyEntry `json:"strategy"`
}
