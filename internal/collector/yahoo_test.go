package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smarttrader/internal/model"
)

const chartBody = `{"chart":{"result":[{"meta":{"gmtoffset":-14400},
"timestamp":[1722432600,1722519000,1722346200],
"indicators":{"quote":[{
 "open":[101.5,null,100.0],
 "high":[103.0,null,102.0],
 "low":[100.5,null,99.0],
 "close":[102.0,null,101.0]}]}}],"error":null}}`

func TestYahooHistory_ParsesAndSorts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	src := NewYahooSource("")
	src.BaseURL = srv.URL
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	bars, err := src.History(context.Background(), "NVDA", start, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected null bar to be skipped, got %d bars", len(bars))
	}
	if got := bars[0].Date.Format(model.DateLayout); got != "2024-07-30" {
		t.Errorf("expected first bar 2024-07-30, got %s", got)
	}
	if got := bars[1].Date.Format(model.DateLayout); got != "2024-07-31" {
		t.Errorf("expected second bar 2024-07-31, got %s", got)
	}
	if bars[1].Open != 101.5 || bars[1].Close != 102.0 {
		t.Errorf("unexpected prices: %+v", bars[1])
	}
	want := "interval=1d&period1=1719792000&period2=1722556800&events=history"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
}

func TestYahooHistory_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	src := NewYahooSource("")
	src.BaseURL = srv.URL
	_, err := src.History(context.Background(), "XXXX", asOf.AddDate(0, 0, -60), asOf)
	var dsErr *model.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
	if dsErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", dsErr.StatusCode)
	}
}

func TestYahooHistory_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := NewYahooSource("")
	src.BaseURL = srv.URL
	_, err := src.History(context.Background(), "NVDA", asOf.AddDate(0, 0, -60), asOf)
	if !errors.Is(err, model.ErrDataSource) {
		t.Errorf("expected ErrDataSource, got %v", err)
	}
}
