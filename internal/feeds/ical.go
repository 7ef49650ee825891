package feeds

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/menus"
)

const icalProductID = "-//lunchbot//menu feed//EN"

// BuildWeekCalendar renders the week's menus as an iCalendar document of
// all-day events, one per day that has content or a day-off note.
func BuildWeekCalendar(days []dates.WeekDay, weekMenus []*menus.Menu, now time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icalProductID)

	for _, entry := range zipWeek(days, weekMenus) {
		if entry.menu == nil {
			continue
		}
		if !menus.HasContent(entry.menu) && entry.menu.Note == "" {
			continue
		}

		cal.Children = append(cal.Children, dayEvent(entry, now).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func dayEvent(entry weekDayMenu, now time.Time) *ical.Event {
	date := entry.menu.Date

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("menu-%s@lunchbot", date))

	dtStamp := ical.NewProp(ical.PropDateTimeStamp)
	dtStamp.SetDateTime(now.UTC())
	event.Props.Set(dtStamp)

	// All-day event: DTSTART carries a date, not a timestamp.
	dtStart := ical.NewProp(ical.PropDateTimeStart)
	dtStart.SetDate(time.Date(date.Year, time.Month(date.Month), date.Day, 0, 0, 0, 0, time.UTC))
	event.Props.Set(dtStart)

	event.Props.SetText(ical.PropSummary, eventSummary(entry.menu))
	if description := eventDescription(entry.menu); description != "" {
		event.Props.SetText(ical.PropDescription, description)
	}

	return event
}

// eventSummary prefers a day-off note, then the rarest callout-worthy
// item, then a generic label.
func eventSummary(menu *menus.Menu) string {
	if menu.Note != "" {
		return menu.Note
	}

	interesting := menus.InterestingItems(menu.Categories, InterestingnessThreshold)
	if len(interesting) > 0 {
		best := interesting[0]
		for _, candidate := range interesting[1:] {
			if candidate.Item.Interestingness > best.Item.Interestingness {
				best = candidate
			}
		}
		return best.Item.Name
	}

	return "Lunch menu"
}

func eventDescription(menu *menus.Menu) string {
	var lines []string
	for _, category := range menu.Categories {
		lines = append(lines, category.Name+":")
		for _, item := range category.Items {
			lines = append(lines, "- "+itemText(item))
		}
	}
	return strings.Join(lines, "\n")
}
