package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CalendarDate is a civil date with no time-of-day and no timezone.
// Once constructed it carries no memory of where it came from.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// CalendarMonth identifies a fetch granularity: one upstream request per month.
type CalendarMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ErrInvalidDateFormat is returned by ParseCalendarDate for input that is
// not a YYYY-MM-DD date string.
var ErrInvalidDateFormat = errors.New("not a valid YYYY-MM-DD date")

var calendarDatePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// CalendarDateOf returns the civil date of t in t's own location.
func CalendarDateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: int(m), Day: d}
}

// CalendarDateIn returns the civil date of t in the given location,
// independent of the process-local timezone.
func CalendarDateIn(t time.Time, loc *time.Location) CalendarDate {
	return CalendarDateOf(t.In(loc))
}

// Compare orders two dates lexicographically by (year, month, day).
// Returns -1 when a is earlier, 0 when equal, 1 when a is later.
func Compare(a, b CalendarDate) int {
	switch {
	case a.Year != b.Year:
		return sign(a.Year - b.Year)
	case a.Month != b.Month:
		return sign(a.Month - b.Month)
	default:
		return sign(a.Day - b.Day)
	}
}

// SameDate reports whether a and b are exactly the same civil date.
func SameDate(a, b CalendarDate) bool {
	return a == b
}

// AddDays returns the date n days after d (n may be negative), rolling
// months and years as needed.
func AddDays(d CalendarDate, n int) CalendarDate {
	t := time.Date(d.Year, time.Month(d.Month), d.Day+n, 0, 0, 0, 0, time.UTC)
	return CalendarDateOf(t)
}

// MonthOf returns the calendar month containing d.
func MonthOf(d CalendarDate) CalendarMonth {
	return CalendarMonth{Year: d.Year, Month: d.Month}
}

// FirstDay returns day 1 of m.
func FirstDay(m CalendarMonth) CalendarDate {
	return CalendarDate{Year: m.Year, Month: m.Month, Day: 1}
}

// String formats the date as zero-padded YYYY-MM-DD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// String formats the month as zero-padded YYYY-MM.
func (m CalendarMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// ParseCalendarDate is the inverse of CalendarDate.String. It fails with
// ErrInvalidDateFormat for anything that does not match YYYY-MM-DD.
func ParseCalendarDate(input string) (CalendarDate, error) {
	m := calendarDatePattern.FindStringSubmatch(input)
	if m == nil {
		return CalendarDate{}, fmt.Errorf("%q: %w", input, ErrInvalidDateFormat)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
