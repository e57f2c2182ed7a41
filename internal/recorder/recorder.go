package recorder

import (
	"time"

	"smarttrader/internal/model"
)

// Origin says what triggered a prediction.
type Origin string

const (
	OriginAPI    Origin = "API"
	OriginDigest Origin = "DIGEST"
	OriginCLI    Origin = "CLI"
	OriginBot    Origin = "BOT"
)

// PredictionRecord is one stored prediction with its summary and rows.
type PredictionRecord struct {
	ID        string
	CreatedAt time.Time
	Origin    Origin
	Ticker    string
	AsOf      string
	Model     string
	Summary   model.Summary
	Entries   []model.ForecastEntry
}

// Recorder persists prediction history for later review.
type Recorder interface {
	RecordPrediction(rec *PredictionRecord) error
	RecentPredictions(limit int) ([]PredictionRecord, error)
	Close() error
}

// NewRecord builds a record from a finished pipeline run.
func NewRecord(origin Origin, modelName string, fc *model.Forecast, sum *model.Summary) *PredictionRecord {
	rec := &PredictionRecord{
		Origin:  origin,
		Model:   modelName,
		Ticker:  fc.Ticker,
		AsOf:    fc.AsOf.Format(model.DateLayout),
		Entries: fc.Entries,
	}
	if sum != nil {
		rec.Summary = *sum
	}
	return rec
}
