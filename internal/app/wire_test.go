package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrader/internal/collector"
	"smarttrader/internal/config"
	"smarttrader/internal/inference"
	"smarttrader/internal/recorder"
)

func defaults(t *testing.T) *config.Config {
	t.Helper()
	for _, k := range []string{"DATA_PROVIDER", "MODEL_KIND", "SQLITE_PATH", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "TICKER"} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestNewSource(t *testing.T) {
	cfg := defaults(t)
	src, err := NewSource(cfg)
	require.NoError(t, err)
	assert.IsType(t, &collector.YahooSource{}, src)

	cfg.DataSource.Provider = "rest"
	cfg.DataSource.BaseURL = "http://bars"
	src, err = NewSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "rest", src.Name())

	cfg.DataSource.Provider = "ftp"
	_, err = NewSource(cfg)
	assert.Error(t, err)
}

func TestNewModel(t *testing.T) {
	cfg := defaults(t)
	m, err := NewModel(cfg)
	require.NoError(t, err)
	assert.Equal(t, "naive", m.Name())

	cfg.Model.Kind = "serving"
	cfg.Model.ServingURL = "http://tf:8501"
	cfg.Model.Serialize = true
	m, err = NewModel(cfg)
	require.NoError(t, err)
	assert.IsType(t, &inference.SerializedModel{}, m)
	assert.Equal(t, "serving:nvda_lstm", m.Name())
}

func TestNewPredictor(t *testing.T) {
	cfg := defaults(t)
	p, err := NewPredictor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "NVDA", p.DefaultTicker)
	assert.Equal(t, 5, p.Engine.NFuture)
	assert.Equal(t, 30, p.Fetcher.NPast)
	assert.Equal(t, "naive", p.ModelName())
}

func TestOpenRecorderAndNotifier(t *testing.T) {
	cfg := defaults(t)
	assert.IsType(t, &recorder.NoopRecorder{}, OpenRecorder(cfg))
	assert.Nil(t, NewNotifier(cfg))

	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "p.db")
	rec := OpenRecorder(cfg)
	defer rec.Close()
	assert.IsType(t, &recorder.SQLiteRecorder{}, rec)

	cfg.Telegram.BotToken = "tok"
	cfg.Telegram.ChatID = "1"
	assert.NotNil(t, NewNotifier(cfg))
}
