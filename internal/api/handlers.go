package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"smarttrader/internal/model"
	"smarttrader/internal/recorder"
	"smarttrader/internal/strategy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Forecaster is the pipeline the handlers serve.
type Forecaster interface {
	Predict(ctx context.Context, ticker, asOfDate string) (*model.Forecast, error)
	Actual(ctx context.Context, ticker, asOfDate string) ([]model.Bar, error)
	ModelName() string
}

// Handler serves the forecast endpoints.
type Handler struct {
	Forecaster    Forecaster
	Recorder      recorder.Recorder
	DefaultTicker string
	// Timeout bounds one pipeline run; zero means only the client's context applies.
	Timeout time.Duration
}

func NewHandler(fc Forecaster, rec recorder.Recorder, defaultTicker string, timeout time.Duration) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{Forecaster: fc, Recorder: rec, DefaultTicker: defaultTicker, Timeout: timeout}
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.Timeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.Timeout)
	}
	return context.WithCancel(c.Request.Context())
}

// requireDate reads the date query parameter or responds DATE_REQUIRED.
func requireDate(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		respondError(c, http.StatusBadRequest, CodeDateRequired, "date query parameter is required (YYYY-MM-DD)")
		return "", false
	}
	return date, true
}

// Index handles GET /
func (h *Handler) Index(c *gin.Context) {
	c.String(http.StatusOK, "Hello, World!")
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Predict handles GET /predict and returns the summary view.
func (h *Handler) Predict(c *gin.Context) {
	date, ok := requireDate(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	fc, err := h.Forecaster.Predict(ctx, c.Query("ticker"), date)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	sum := strategy.Summarize(fc)

	rec := recorder.NewRecord(recorder.OriginAPI, h.Forecaster.ModelName(), fc, sum)
	rec.ID = uuid.NewString()
	if err := h.Recorder.RecordPrediction(rec); err != nil {
		log.Printf("[ERROR] record prediction %s: %v", rec.ID, err)
	}
	c.Header("X-Prediction-ID", rec.ID)
	c.JSON(http.StatusOK, sum)
}

// Forecast handles GET /forecast and returns the full rows.
func (h *Handler) Forecast(c *gin.Context) {
	date, ok := requireDate(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	fc, err := h.Forecaster.Predict(ctx, c.Query("ticker"), date)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	entries := fc.Entries
	if entries == nil {
		entries = []model.ForecastEntry{}
	}
	c.JSON(http.StatusOK, ForecastResponse{
		Ticker:   fc.Ticker,
		AsOf:     fc.AsOf.Format(model.DateLayout),
		Forecast: entries,
	})
}

// Actual handles GET /actual and returns realised bars for the forecast days.
func (h *Handler) Actual(c *gin.Context) {
	date, ok := requireDate(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	ticker := c.DefaultQuery("ticker", h.DefaultTicker)
	bars, err := h.Forecaster.Actual(ctx, ticker, date)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	out := make([]BarResponse, len(bars))
	for i, b := range bars {
		out[i] = BarResponse{
			Date: b.Date.Format(model.DateLayout),
			Open: b.Open, High: b.High, Low: b.Low, Close: b.Close,
		}
	}
	c.JSON(http.StatusOK, ActualResponse{Ticker: ticker, AsOf: date, Actual: out})
}

// Predictions handles GET /predictions?limit=N
func (h *Handler) Predictions(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, CodeInvalidParam, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	recs, err := h.Recorder.RecentPredictions(limit)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	out := make([]PredictionResponse, len(recs))
	for i, r := range recs {
		out[i] = PredictionResponse{
			ID: r.ID, CreatedAt: r.CreatedAt, Origin: string(r.Origin),
			Ticker: r.Ticker, AsOf: r.AsOf, Model: r.Model, Summary: r.Summary,
		}
	}
	c.JSON(http.StatusOK, gin.H{"predictions": out, "count": len(out)})
}
