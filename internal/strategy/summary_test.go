package strategy

import (
	"encoding/json"
	"testing"
	"time"

	"smarttrader/internal/model"
)

func entries(rows ...[4]float64) *model.Forecast {
	fc := &model.Forecast{Ticker: "NVDA"}
	d := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	for _, r := range rows {
		fc.Entries = append(fc.Entries, model.ForecastEntry{Date: d, Open: r[0], High: r[1], Low: r[2], Close: r[3]})
		d = d.AddDate(0, 0, 1)
	}
	return fc
}

func TestClassify(t *testing.T) {
	tests := []struct {
		open, close float64
		want        model.Label
	}{
		{100, 105, model.LabelBull},
		{105, 100, model.LabelBear},
		{100, 100, model.LabelIdle},
	}
	for _, tt := range tests {
		got := Classify(model.ForecastEntry{Open: tt.open, Close: tt.close})
		if got != tt.want {
			t.Errorf("open=%.0f close=%.0f: expected %s, got %s", tt.open, tt.close, tt.want, got)
		}
	}
}

func TestSummarize_Aggregates(t *testing.T) {
	fc := entries(
		[4]float64{99, 101.111, 97.5, 100.004},
		[4]float64{101, 104.987, 99.2, 102.0},
		[4]float64{98, 99.5, 96.125, 98.0},
	)
	sum := Summarize(fc)
	if sum.Avg != 100.0 {
		t.Errorf("expected avg 100.0, got %v", sum.Avg)
	}
	if sum.High != 104.99 {
		t.Errorf("expected high 104.99, got %v", sum.High)
	}
	if sum.Low != 96.13 {
		t.Errorf("expected low 96.13 (half away from zero), got %v", sum.Low)
	}
	want := []model.StrategyEntry{
		{Date: "2024-08-05", Label: model.LabelBull},
		{Date: "2024-08-06", Label: model.LabelBull},
		{Date: "2024-08-07", Label: model.LabelIdle},
	}
	for i, s := range sum.Strategy {
		if s != want[i] {
			t.Errorf("strategy %d = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestSummarize_HighLowIndependentOfOpenClose(t *testing.T) {
	// High/Low come from their own columns even when Open/Close lie outside.
	fc := entries([4]float64{150, 120, 110, 50})
	sum := Summarize(fc)
	if sum.High != 120 || sum.Low != 110 {
		t.Errorf("expected high 120 low 110, got %v %v", sum.High, sum.Low)
	}
	if sum.Avg != 50 {
		t.Errorf("expected avg 50, got %v", sum.Avg)
	}
}

func TestSummarize_Empty(t *testing.T) {
	for _, fc := range []*model.Forecast{nil, {}} {
		sum := Summarize(fc)
		if sum.Avg != 0 || sum.High != 0 || sum.Low != 0 {
			t.Errorf("expected zero summary, got %+v", sum)
		}
		if sum.Strategy == nil || len(sum.Strategy) != 0 {
			t.Errorf("expected empty non-nil strategy, got %#v", sum.Strategy)
		}
		raw, _ := json.Marshal(sum)
		if string(raw) != `{"avg":0,"high":0,"low":0,"strategy":[]}` {
			t.Errorf("unexpected JSON %s", raw)
		}
	}
}

func TestSummary_JSONShape(t *testing.T) {
	sum := Summarize(entries([4]float64{100, 106, 99, 105}))
	raw, err := json.Marshal(sum)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"avg":105,"high":106,"low":99,"strategy":[["2024-08-05","BULL"]]}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{-1.005, -1.01},
		{100.00133, 100.0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
