package progress

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Day is a calendar day in a reference timezone, as the half-open instant range [Start, End).
type Day struct {
	Start time.Time
	End   time.Time
}

// DayOf returns the calendar day containing t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	// AddDate keeps DST days at their real length (23h or 25h).
	return Day{Start: start, End: start.AddDate(0, 0, 1)}
}

// Key returns the YYYY-MM-DD form of the day.
func (d Day) Key() string {
	return d.Start.Format(DateLayout)
}

// Contains reports whether t falls within the day.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return DayOf(d.End, d.Start.Location())
}

// AddDays shifts the day by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Start.AddDate(0, 0, n), d.Start.Location())
}

// WeekStart returns the first day of the week containing t, where weeks begin on first.
func WeekStart(t time.Time, first time.Weekday, loc *time.Location) Day {
	day := DayOf(t, loc)
	offset := (int(day.Start.Weekday()) - int(first) + 7) % 7
	return day.AddDays(-offset)
}

// DaysEndingAt returns n consecutive days whose last element is the day containing end.
func DaysEndingAt(end time.Time, n int, loc *time.Location) []Day {
	if n <= 0 {
		return nil
	}
	last := DayOf(end, loc)
	days := make([]Day, n)
	for i := 0; i < n; i++ {
		days[i] = last.AddDays(i - (n - 1))
	}
	return days
}

// ParseDate parses a YYYY-MM-DD string into the matching day in loc.
func ParseDate(s string, loc *time.Location) (Day, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return Day{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidArgument, s)
	}
	return DayOf(t, loc), nil
}

// ParseWeekday accepts "sunday"/"monday" style names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown weekday %q", ErrInvalidArgument, s)
}
