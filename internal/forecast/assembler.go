package forecast

import (
	"fmt"
	"strings"
	"time"

	"smarttrader/internal/calculator"
	"smarttrader/internal/model"
)

// dateLayout accepts 2024-08-02 as well as the unpadded 2024-8-2.
const dateLayout = "2006-1-2"

// Inverter maps a scaled value back to price units.
type Inverter interface {
	Inverse(v float64, col model.Column) float64
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", model.ErrDateParse)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", model.ErrDateParse, s)
	}
	return t, nil
}

// Assemble inverse-scales raw and dates each row with the business days
// following asOfDate.
func Assemble(raw *model.RawForecast, inv Inverter, asOfDate string, nFuture int) (*model.Forecast, error) {
	asOf, err := ParseDate(asOfDate)
	if err != nil {
		return nil, err
	}
	if raw == nil || len(raw.Rows) != nFuture {
		got := 0
		if raw != nil {
			got = len(raw.Rows)
		}
		return nil, fmt.Errorf("%w: forecast has %d rows, expected %d", model.ErrModelInference, got, nFuture)
	}

	dates := calculator.BusinessDays(asOf, nFuture)
	fc := &model.Forecast{AsOf: asOf, Entries: make([]model.ForecastEntry, nFuture)}
	for i, row := range raw.Rows {
		fc.Entries[i] = model.ForecastEntry{
			Date:  dates[i],
			Open:  inv.Inverse(row[model.ColOpen], model.ColOpen),
			High:  inv.Inverse(row[model.ColHigh], model.ColHigh),
			Low:   inv.Inverse(row[model.ColLow], model.ColLow),
			Close: inv.Inverse(row[model.ColClose], model.ColClose),
		}
	}
	return fc, nil
}
