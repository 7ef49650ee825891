// Package feeds renders the current week's menus as subscribable RSS and
// iCalendar feeds.
package feeds

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/menus"
)

// InterestingnessThreshold is the minimum score for an item to be called
// out in digest views.
const InterestingnessThreshold = 0.75

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// weekDayMenu pairs a weekday slot with its (possibly absent) menu.
type weekDayMenu struct {
	day  dates.WeekDay
	menu *menus.Menu
}

// BuildWeekRSS renders one RSS 2.0 document with a single item describing
// the whole week.
func BuildWeekRSS(days []dates.WeekDay, weekMenus []*menus.Menu, now time.Time) (string, error) {
	week := zipWeek(days, weekMenus)

	title := "Menu"
	itemTitle := "Menu"
	guid := "menu"
	if len(week) > 0 {
		itemTitle = fmt.Sprintf("Menu for the week of %s", week[0].day.Date)
		guid = fmt.Sprintf("menu-%s", week[0].day.Date)
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title: title,
			Items: []rssItem{
				{
					Title:       itemTitle,
					GUID:        guid,
					PubDate:     now.UTC().Format(time.RFC1123Z),
					Description: buildWeekHTML(week),
				},
			},
		},
	}

	out, err := xml.Marshal(feed)
	if err != nil {
		return "", err
	}

	return xml.Header + string(out), nil
}

// buildWeekHTML builds the per-day digest list. Days with nothing to say
// (no items, no note) are omitted; days whose menu has an item rare enough
// to be interesting get either a one-line callout or the full menu.
func buildWeekHTML(week []weekDayMenu) string {
	var b strings.Builder
	b.WriteString("<ul>")

	for _, entry := range week {
		writeDayHTML(&b, entry)
	}

	b.WriteString("</ul>")
	return b.String()
}

func writeDayHTML(b *strings.Builder, entry weekDayMenu) {
	date := entry.day.Date

	if entry.menu == nil || !menus.HasContent(entry.menu) {
		if entry.menu != nil && entry.menu.Note != "" {
			fmt.Fprintf(b, "<li>%s: %s</li>", date, html.EscapeString(entry.menu.Note))
		}
		return
	}

	prefix := date.String()
	if entry.menu.Note != "" {
		prefix = fmt.Sprintf("%s (%s)", date, html.EscapeString(entry.menu.Note))
	}

	interesting := menus.InterestingItems(entry.menu.Categories, InterestingnessThreshold)

	switch len(interesting) {
	case 0:
		if entry.menu.Note != "" {
			fmt.Fprintf(b, "<li>%s</li>", prefix)
		}
	case 1:
		fmt.Fprintf(b, "<li>%s: %s</li>", prefix, html.EscapeString(interesting[0].Item.Name))
	default:
		fmt.Fprintf(b, "<li>%s:<ul>", prefix)
		for _, category := range entry.menu.Categories {
			fmt.Fprintf(b, "<li>%s<ul>", html.EscapeString(category.Name))
			for _, item := range category.Items {
				fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(itemText(item)))
			}
			b.WriteString("</ul></li>")
		}
		b.WriteString("</ul></li>")
	}
}

func itemText(item menus.Item) string {
	switch it := item.(type) {
	case *menus.RecipeItem:
		return it.Name
	case *menus.TextItem:
		return it.Text
	}
	return ""
}

func zipWeek(days []dates.WeekDay, weekMenus []*menus.Menu) []weekDayMenu {
	week := make([]weekDayMenu, len(days))
	for i, day := range days {
		week[i] = weekDayMenu{day: day}
		if i < len(weekMenus) {
			week[i].menu = weekMenus[i]
		}
	}
	return week
}
