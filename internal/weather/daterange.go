package weather

import (
	"fmt"
	"time"
)

// DefaultWindowDays is the length of the range used when no bound is given.
const DefaultWindowDays = 5

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns every calendar day in the range, in order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Truncate returns the calendar day of t as midnight UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FillDefaults validates the optional bounds and fills in the missing ones.
// A single bound collapses the range to that day; no bounds yields a
// DefaultWindowDays window starting at today.
func FillDefaults(start, end *time.Time, today time.Time) (DateRange, error) {
	switch {
	case start != nil && end != nil:
		s, e := Truncate(*start), Truncate(*end)
		if s.After(e) {
			return DateRange{}, ErrInvalidRange
		}
		return DateRange{Start: s, End: e}, nil
	case start != nil:
		s := Truncate(*start)
		return DateRange{Start: s, End: s}, nil
	case end != nil:
		e := Truncate(*end)
		return DateRange{Start: e, End: e}, nil
	default:
		s := Truncate(today)
		return DateRange{Start: s, End: s.AddDate(0, 0, DefaultWindowDays-1)}, nil
	}
}
