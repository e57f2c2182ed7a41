package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists prediction history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so history reads don't block the request path.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			origin        TEXT,
			ticker        TEXT NOT NULL,
			as_of         TEXT NOT NULL,
			model         TEXT,
			avg_close     REAL,
			high          REAL,
			low           REAL,
			strategy_json TEXT,
			forecast_json TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ticker_asof ON predictions(ticker, as_of)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordPrediction stores rec, assigning an ID and timestamp when missing.
func (r *SQLiteRecorder) RecordPrediction(rec *PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	strategyJSON, err := json.Marshal(rec.Summary.Strategy)
	if err != nil {
		return fmt.Errorf("marshal strategy: %w", err)
	}
	forecastJSON, err := json.Marshal(rec.Entries)
	if err != nil {
		return fmt.Errorf("marshal forecast: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO predictions
		(id, timestamp, origin, ticker, as_of, model, avg_close, high, low, strategy_json, forecast_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.CreatedAt.UnixMilli(), string(rec.Origin), rec.Ticker, rec.AsOf, rec.Model,
		rec.Summary.Avg, rec.Summary.High, rec.Summary.Low,
		string(strategyJSON), string(forecastJSON),
	)
	return err
}

// RecentPredictions returns up to limit records, newest first.
func (r *SQLiteRecorder) RecentPredictions(limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, origin, ticker, as_of, model, avg_close, high, low, strategy_json, forecast_json
		FROM predictions ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []PredictionRecord
	for rows.Next() {
		var (
			rec                        PredictionRecord
			ts                         int64
			origin                     string
			strategyJSON, forecastJSON string
		)
		if err := rows.Scan(&rec.ID, &ts, &origin, &rec.Ticker, &rec.AsOf, &rec.Model,
			&rec.Summary.Avg, &rec.Summary.High, &rec.Summary.Low, &strategyJSON, &forecastJSON); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(ts)
		rec.Origin = Origin(origin)
		if err := json.Unmarshal([]byte(strategyJSON), &rec.Summary.Strategy); err != nil {
			return nil, fmt.Errorf("decode strategy %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(forecastJSON), &rec.Entries); err != nil {
			return nil, fmt.Errorf("decode forecast %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
