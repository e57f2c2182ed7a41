package calculator

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBusinessDays(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want []string
	}{
		{"2024-08-02", 5, []string{"2024-08-05", "2024-08-06", "2024-08-07", "2024-08-08", "2024-08-09"}}, // Friday
		{"2024-08-03", 2, []string{"2024-08-05", "2024-08-06"}},                                             // Saturday
		{"2024-08-04", 1, []string{"2024-08-05"}},                                                           // Sunday
		{"2024-08-07", 5, []string{"2024-08-08", "2024-08-09", "2024-08-12", "2024-08-13", "2024-08-14"}}, // Wednesday
		{"2024-07-03", 2, []string{"2024-07-04", "2024-07-05"}},                                             // no holidays
	}
	for _, tt := range tests {
		got := BusinessDays(day(tt.from), tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("from %s: expected %d days, got %d", tt.from, len(tt.want), len(got))
		}
		for i := range got {
			if s := got[i].Format("2006-01-02"); s != tt.want[i] {
				t.Errorf("from %s: day %d = %s, want %s", tt.from, i, s, tt.want[i])
			}
		}
	}
}

func TestBusinessDays_NonPositive(t *testing.T) {
	if got := BusinessDays(day("2024-08-02"), 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}
