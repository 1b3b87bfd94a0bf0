package domain

import "time"

// DateLayout is the wire format for all calendar dates (check-in,
// check-out, policy ranges, business date).
const DateLayout = "2006-01-02"

// Date truncates t to a calendar date at UTC midnight. Every date the
// engine stores or compares goes through this so (room-type, night)
// lookups never miss on a time-of-day component.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a DateLayout string into a UTC-midnight date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}

// Nights returns every calendar night of a stay: [checkIn, checkOut),
// check-out night excluded. A stay of N nights touches N inventory rows.
func Nights(checkIn, checkOut time.Time) []time.Time {
	var nights []time.Time
	for d := Date(checkIn); d.Before(Date(checkOut)); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
