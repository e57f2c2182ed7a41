package collector

import (
	"context"
	"time"

	"smarttrader/internal/model"
)

// Source provides daily bars for a ticker. start is inclusive, end is
// exclusive, matching the reference market data provider.
type Source interface {
	History(ctx context.Context, ticker string, start, end time.Time) ([]model.Bar, error)
	Name() string
}
