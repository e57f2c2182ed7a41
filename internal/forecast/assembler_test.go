package forecast

import (
	"errors"
	"testing"

	"smarttrader/internal/calculator"
	"smarttrader/internal/model"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-08-02", "2024-08-02", false},
		{"2024-8-3", "2024-08-03", false},
		{" 2024-08-02 ", "2024-08-02", false},
		{"", "", true},
		{"08/02/2024", "", true},
		{"2024-02-30", "", true},
		{"2024-13-01", "", true},
		{"2024-08-02T10:00:00Z", "", true},
		{"tomorrow", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if !errors.Is(err, model.ErrDateParse) {
				t.Errorf("%q: expected ErrDateParse, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if s := got.Format(model.DateLayout); s != tt.want {
			t.Errorf("%q: got %s, want %s", tt.in, s, tt.want)
		}
	}
}

func TestAssemble_InverseAndDates(t *testing.T) {
	s := &calculator.MinMaxScaler{
		Min: [4]float64{100, 110, 90, 95},
		Max: [4]float64{120, 130, 100, 125},
	}
	raw := &model.RawForecast{Rows: [][4]float64{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0.5, 0.5, 0.5, 0.5},
		{0.25, 0.75, 0.1, 0.9},
		{0, 1, 0, 1},
	}}
	fc, err := Assemble(raw, s, "2024-08-02", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDates := []string{"2024-08-05", "2024-08-06", "2024-08-07", "2024-08-08", "2024-08-09"}
	for i, e := range fc.Entries {
		if got := e.Date.Format(model.DateLayout); got != wantDates[i] {
			t.Errorf("entry %d: date %s, want %s", i, got, wantDates[i])
		}
	}
	if e := fc.Entries[1]; e.Open != 120 || e.High != 130 || e.Low != 100 || e.Close != 125 {
		t.Errorf("entry 1 should be column maxima, got %+v", e)
	}
	if e := fc.Entries[2]; e.Open != 110 || e.Close != 110 {
		t.Errorf("entry 2 should be midpoints, got %+v", e)
	}
	if e := fc.Entries[3]; e.High != 125 || e.Low != 91 || e.Close != 122 {
		t.Errorf("entry 3 unexpected values %+v", e)
	}
}

func TestAssemble_FridayStartsMonday(t *testing.T) {
	raw := &model.RawForecast{Rows: make([][4]float64, 1)}
	fc, err := Assemble(raw, &calculator.MinMaxScaler{}, "2024-08-02", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fc.Entries[0].Date.Weekday().String(); got != "Monday" {
		t.Errorf("expected Monday, got %s", got)
	}
}

func TestAssemble_Errors(t *testing.T) {
	raw := &model.RawForecast{Rows: make([][4]float64, 5)}
	if _, err := Assemble(raw, &calculator.MinMaxScaler{}, "2024/08/02", 5); !errors.Is(err, model.ErrDateParse) {
		t.Errorf("expected ErrDateParse, got %v", err)
	}
	if _, err := Assemble(raw, &calculator.MinMaxScaler{}, "2024-08-02", 4); !errors.Is(err, model.ErrModelInference) {
		t.Errorf("expected ErrModelInference for row mismatch, got %v", err)
	}
	if _, err := Assemble(nil, &calculator.MinMaxScaler{}, "2024-08-02", 5); !errors.Is(err, model.ErrModelInference) {
		t.Errorf("expected ErrModelInference for nil forecast, got %v", err)
	}
}
