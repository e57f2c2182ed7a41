// Package app assembles the pipeline and its side services from Config.
package app

import (
	"fmt"
	"log"

	"smarttrader/internal/collector"
	"smarttrader/internal/config"
	"smarttrader/internal/forecast"
	"smarttrader/internal/inference"
	"smarttrader/internal/notifier"
	"smarttrader/internal/recorder"
)

// NewSource picks the market data provider.
func NewSource(cfg *config.Config) (collector.Source, error) {
	switch cfg.DataSource.Provider {
	case "yahoo":
		return collector.NewYahooSource(cfg.Proxy), nil
	case "rest":
		return collector.NewRESTSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy), nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}
}

// NewModel picks the inference backend, serialized when configured.
func NewModel(cfg *config.Config) (inference.Model, error) {
	var m inference.Model
	switch cfg.Model.Kind {
	case "naive":
		m = &inference.NaiveModel{Horizon: cfg.Predictor.NFuture}
	case "serving":
		m = inference.NewServingModel(cfg.Model.ServingURL, cfg.Model.Name, cfg.Model.Timeout)
	default:
		return nil, fmt.Errorf("unknown model kind %q", cfg.Model.Kind)
	}
	if cfg.Model.Serialize {
		m = inference.NewSerializedModel(m)
	}
	return m, nil
}

// NewPredictor wires source, window fetcher, model and engine together.
func NewPredictor(cfg *config.Config) (*forecast.Predictor, error) {
	src, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] data source: %s, model: %s", src.Name(), m.Name())

	fetcher := collector.NewWindowFetcher(src, cfg.Predictor.LookbackDays, cfg.Predictor.NPast)
	engine := inference.NewEngine(m, cfg.Predictor.NFuture)
	return forecast.NewPredictor(fetcher, engine, cfg.Predictor.Ticker), nil
}

// OpenRecorder returns the SQLite recorder, or a no-op one when the path is
// empty or the database cannot be opened.
func OpenRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// NewNotifier returns nil when Telegram credentials are absent.
func NewNotifier(cfg *config.Config) *notifier.TelegramNotifier {
	if !cfg.TelegramEnabled() {
		return nil
	}
	return notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
}
