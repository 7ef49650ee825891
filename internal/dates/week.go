package dates

import (
	"fmt"
	"time"
)

// Disposition classifies a weekday relative to a timezone-aware "now".
type Disposition string

const (
	DispositionPast    Disposition = "past"
	DispositionPresent Disposition = "present"
	DispositionFuture  Disposition = "future"
)

// WeekDay is one Monday-to-Friday entry with its relation to the reference day.
type WeekDay struct {
	Date        CalendarDate `json:"date"`
	Disposition Disposition  `json:"disposition"`
}

// DefaultDayTransitionMinutes is the local time-of-day, in minutes from
// midnight, at which the "current" day rolls over to the next one. Past
// noon, people asking about lunch mean tomorrow's lunch.
const DefaultDayTransitionMinutes = 12 * 60

// WeekDays returns the five weekdays (Mon-Fri) of the week containing the
// reference instant, evaluated in the named timezone. If the instant's
// local time-of-day is at or past transitionMinutes the reference day
// advances by one first. A weekend reference rolls forward to the next
// week's Monday. Each entry is classified past/present/future against the
// (possibly advanced) reference day.
func WeekDays(reference time.Time, timezone string, transitionMinutes int) ([]WeekDay, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	local := reference.In(loc)

	referenceDate := CalendarDateOf(local)
	if local.Hour()*60+local.Minute() >= transitionMinutes {
		referenceDate = AddDays(referenceDate, 1)
	}

	monday := mondayOfWeek(referenceDate)

	result := make([]WeekDay, 0, 5)
	for i := 0; i < 5; i++ {
		date := AddDays(monday, i)

		disposition := DispositionPast
		switch Compare(date, referenceDate) {
		case 0:
			disposition = DispositionPresent
		case 1:
			disposition = DispositionFuture
		}

		result = append(result, WeekDay{Date: date, Disposition: disposition})
	}

	return result, nil
}

// mondayOfWeek returns the Monday of d's week for Mon-Fri dates, and the
// following Monday for Sat/Sun dates.
func mondayOfWeek(d CalendarDate) CalendarDate {
	weekday := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Weekday()

	switch weekday {
	case time.Monday:
		return d
	case time.Saturday:
		return AddDays(d, 2)
	case time.Sunday:
		return AddDays(d, 1)
	default:
		// Tuesday through Friday roll back to this week's Monday.
		return AddDays(d, -int(weekday-time.Monday))
	}
}
