package model

import "time"

// Bar is one trading day's prices.
type Bar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Column indexes an OHLC field. The order is shared with the model artifact
// and must not change.
type Column int

const (
	ColOpen Column = iota
	ColHigh
	ColLow
	ColClose
)

// NumColumns is the feature width of every window and forecast row.
const NumColumns = 4

var columnNames = [NumColumns]string{"Open", "High", "Low", "Close"}

func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return "Unknown"
	}
	return columnNames[c]
}

// Values returns the bar as a row in column order.
func (b Bar) Values() [NumColumns]float64 {
	return [NumColumns]float64{b.Open, b.High, b.Low, b.Close}
}

// Window is the fixed-length history fed to the model, oldest first.
type Window struct {
	Ticker string
	AsOf   time.Time
	Bars   []Bar
}

// Len returns the number of bars in the window.
func (w *Window) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Bars)
}
