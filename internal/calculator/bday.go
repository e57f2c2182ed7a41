package calculator

import "time"

// IsBusinessDay reports whether t falls on Monday through Friday.
// There is no holiday calendar.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextBusinessDay returns the first business day strictly after t.
func NextBusinessDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// BusinessDays returns n consecutive business days starting after t.
func BusinessDays(t time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, n)
	d := t
	for i := range days {
		d = NextBusinessDay(d)
		days[i] = d
	}
	return days
}
