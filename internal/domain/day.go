package domain

import "time"

const DateLayout = "2006-01-02"

// Day truncates t to midnight of its calendar day and moves it to UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date or an RFC3339 timestamp.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, NewError(KindInvalidInput, "invalid date "+s)
	}
	return Day(t), nil
}

// Nights counts whole nights between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(Day(checkOut).Sub(Day(checkIn)).Hours() / 24)
}
