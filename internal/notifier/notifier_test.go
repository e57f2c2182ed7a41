package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrader/internal/model"
)

func newTestNotifier(url string) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = url
	tn.Backoff = time.Millisecond
	return tn
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv.URL).Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv.URL).SendWithRetry(context.Background(), "x", 3))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).SendWithRetry(context.Background(), "x", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 retries exhausted")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestStartPolling_RepliesToCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		offsets []string
		replies []string
		served  int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			mu.Lock()
			offsets = append(offsets, r.URL.Query().Get("offset"))
			mu.Unlock()
			if atomic.AddInt32(&served, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help "}},{"update_id":8}]}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			mu.Lock()
			replies = append(replies, p["text"])
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
			cancel()
		}
	}))
	defer srv.Close()

	done := make(chan struct{})
	go func() {
		newTestNotifier(srv.URL).StartPolling(ctx, func(_ context.Context, cmd string) string {
			if cmd == "/help" {
				return FormatHelp()
			}
			return ""
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "/predict")
	assert.Equal(t, "0", offsets[0])
}

func digestFixture() (*model.Forecast, *model.Summary) {
	d := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	fc := &model.Forecast{
		Ticker: "NVDA",
		AsOf:   time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC),
		Entries: []model.ForecastEntry{
			{Date: d, Open: 100, High: 106, Low: 99, Close: 105},
			{Date: d.AddDate(0, 0, 1), Open: 105, High: 107, Low: 101, Close: 102},
		},
	}
	sum := &model.Summary{
		Avg: 103.5, High: 107, Low: 99,
		Strategy: []model.StrategyEntry{
			{Date: "2024-08-05", Label: model.LabelBull},
			{Date: "2024-08-06", Label: model.LabelBear},
		},
	}
	return fc, sum
}

func TestFormatDigest(t *testing.T) {
	fc, sum := digestFixture()
	msg := FormatDigest(fc, sum)
	assert.Contains(t, msg, "NVDA forecast")
	assert.Contains(t, msg, "as of 2024-08-02")
	assert.Contains(t, msg, "Avg close: 103.50")
	assert.Contains(t, msg, "High: 107.00 | Low: 99.00")
	assert.Contains(t, msg, "2024-08-05 BULL")
	assert.Contains(t, msg, "2024-08-06 BEAR")
}

func TestFormatComparison(t *testing.T) {
	fc, _ := digestFixture()
	actual := []model.Bar{{Date: fc.Entries[0].Date, Close: 106}}
	msg := FormatComparison(fc, actual)
	assert.Contains(t, msg, "2024-08-05  close 105.00 vs 106.00 (+1.00)")
	assert.Contains(t, msg, "2024-08-06  close 102.00 vs n/a")
}
