package menus

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/matthinz/lunchbot/internal/dates"
)

// DefaultIgnoredText lists feed text rows that are presentation-only
// connectives and are dropped during normalization.
var DefaultIgnoredText = []string{"Choice of", "Or"}

// Raw shapes of the MySchoolMenus response. The setting fields arrive as
// JSON-encoded strings and get decoded a second time into rawSetting.

type rawResponse struct {
	Data *rawData `json:"data"`
}

type rawData struct {
	MenuMonth         string            `json:"menu_month"`
	MenuMonthCalendar []json.RawMessage `json:"menu_month_calendar"`
}

type rawCalendarDay struct {
	ID              int     `json:"id"`
	Day             string  `json:"day"`
	MenuMonthID     int     `json:"menu_month_id"`
	Setting         *string `json:"setting"`
	SettingOriginal *string `json:"setting_original"`
	Overwritten     bool    `json:"overwritten"`
}

type rawSetting struct {
	CurrentDisplay   []rawDisplayItem  `json:"current_display"`
	AvailableRecipes []json.RawMessage `json:"available_recipes"`
	HiddenItems      []json.RawMessage `json:"hidden_items"`
	DaysOff          json.RawMessage   `json:"days_off"`
}

type rawDisplayItem struct {
	Item   json.RawMessage `json:"item"` // string or int id
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Weight int             `json:"weight"`
}

type rawDaysOff struct {
	Status      int    `json:"status"`
	Description string `json:"description"`
}

// parseMonthResponse validates and normalizes one month's raw response
// body into scored Menu days.
func parseMonthResponse(body []byte, ignoredText []string) ([]Menu, error) {
	var response rawResponse
	if err := decode("data", body, &response); err != nil {
		return nil, err
	}
	if response.Data == nil {
		return nil, &ValidationError{Path: "data", Expected: "object", Actual: "null"}
	}

	var menus []Menu

	for i, rawDay := range response.Data.MenuMonthCalendar {
		path := fmt.Sprintf("data.menu_month_calendar[%d]", i)

		// Null entries are days the provider never published.
		if isJSONNull(rawDay) {
			continue
		}

		var day rawCalendarDay
		if err := decode(path, rawDay, &day); err != nil {
			return nil, err
		}

		date, err := dates.ParseCalendarDate(day.Day)
		if err != nil {
			return nil, &ValidationError{
				Path:     path + ".day",
				Expected: "YYYY-MM-DD date",
				Actual:   fmt.Sprintf("%q", day.Day),
			}
		}

		// Days without a setting have no published schedule.
		if day.Setting == nil {
			continue
		}

		var setting rawSetting
		if err := decode(path+".setting", []byte(*day.Setting), &setting); err != nil {
			return nil, err
		}

		menu, err := normalizeDay(date, &setting, path+".setting", ignoredText)
		if err != nil {
			return nil, err
		}

		menus = append(menus, *menu)
	}

	scoreInterestingness(menus)

	return menus, nil
}

// normalizeDay walks current_display in ascending weight order, grouping
// items under the most recently opened category.
func normalizeDay(date dates.CalendarDate, setting *rawSetting, path string, ignoredText []string) (*Menu, error) {
	menu := &Menu{Date: date}

	daysOff, err := normalizeDaysOff(setting.DaysOff, path+".days_off")
	if err != nil {
		return nil, err
	}
	if daysOff != nil && daysOff.Status != 0 {
		menu.Note = daysOff.Description
	}

	display := make([]rawDisplayItem, len(setting.CurrentDisplay))
	copy(display, setting.CurrentDisplay)
	sort.SliceStable(display, func(i, j int) bool {
		return display[i].Weight < display[j].Weight
	})

	var current *Category

	for _, item := range display {
		switch item.Type {
		case "category":
			menu.Categories = append(menu.Categories, Category{Name: item.Name})
			current = &menu.Categories[len(menu.Categories)-1]

		case "text":
			if current == nil {
				return nil, &StructuralError{
					Message: fmt.Sprintf("text item %q without category on %s", item.Name, date),
				}
			}
			if !containsString(ignoredText, item.Name) {
				current.Items = append(current.Items, &TextItem{Text: item.Name})
			}

		case "recipe":
			if current == nil {
				return nil, &StructuralError{
					Message: fmt.Sprintf("recipe item %q without category on %s", item.Name, date),
				}
			}
			if !augmentExistingItem(item.Name, current.Items) {
				current.Items = append(current.Items, &RecipeItem{Name: item.Name})
			}

		default:
			return nil, &StructuralError{
				Message: fmt.Sprintf("unknown item type %q on %s", item.Type, date),
			}
		}
	}

	return menu, nil
}

// normalizeDaysOff handles the feed quirk that days_off is either an
// object or an empty array; the empty array means "absent".
func normalizeDaysOff(raw json.RawMessage, path string) (*rawDaysOff, error) {
	if isJSONNull(raw) {
		return nil, nil
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var list []json.RawMessage
		if err := decode(path, raw, &list); err != nil {
			return nil, err
		}
		if len(list) != 0 {
			return nil, &ValidationError{Path: path, Expected: "object or empty array", Actual: "non-empty array"}
		}
		return nil, nil
	}

	var daysOff rawDaysOff
	if err := decode(path, raw, &daysOff); err != nil {
		return nil, err
	}
	return &daysOff, nil
}

var servedWithPattern = regexp.MustCompile(`Served with (.+)`)

// augmentExistingItem folds a "Served with X" recipe row into the earlier
// recipe item it describes. The feed sometimes splits one logical serving
// into a primary row and a side/protein row; when the new row's name has
// exactly one dash-separated segment matching "Served with X" and an
// existing recipe in the category mentions X, that recipe is renamed to
// "X (<new row's full name>)" and the new row is dropped.
func augmentExistingItem(name string, items []Item) bool {
	var suffix string
	matches := 0

	for _, segment := range strings.Split(name, "-") {
		if m := servedWithPattern.FindStringSubmatch(strings.TrimSpace(segment)); m != nil {
			matches++
			suffix = m[1]
		}
	}

	if matches != 1 {
		return false
	}

	for _, item := range items {
		if recipe, ok := item.(*RecipeItem); ok && strings.Contains(recipe.Name, suffix) {
			recipe.Name = fmt.Sprintf("%s (%s)", suffix, name)
			return true
		}
	}

	return false
}

// scoreInterestingness assigns 1 - (days an item appears on / days with
// content) to every recipe item in the month. Items on every eligible day
// score 0; rarer items approach 1. Scores only consider the fetched month.
func scoreInterestingness(menus []Menu) {
	daysWithContent := 0
	dayCounts := make(map[string]int)

	for i := range menus {
		if !HasContent(&menus[i]) {
			continue
		}
		daysWithContent++

		seen := make(map[string]bool)
		eachRecipeItem(menus[i:i+1], func(category *Category, item *RecipeItem) {
			key := category.Name + "|" + item.Name
			if !seen[key] {
				seen[key] = true
				dayCounts[key]++
			}
		})
	}

	if daysWithContent == 0 {
		return
	}

	eachRecipeItem(menus, func(category *Category, item *RecipeItem) {
		key := category.Name + "|" + item.Name
		item.Interestingness = 1 - float64(dayCounts[key])/float64(daysWithContent)
	})
}

func eachRecipeItem(menus []Menu, visit func(category *Category, item *RecipeItem)) {
	for i := range menus {
		for j := range menus[i].Categories {
			category := &menus[i].Categories[j]
			for _, item := range category.Items {
				if recipe, ok := item.(*RecipeItem); ok {
					visit(category, recipe)
				}
			}
		}
	}
}

// decode unmarshals data into v, converting type mismatches into
// ValidationErrors that name the offending path.
func decode(path string, data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		p := path
		if typeErr.Field != "" {
			p = path + "." + typeErr.Field
		}
		return &ValidationError{
			Path:     p,
			Expected: typeErr.Type.String(),
			Actual:   typeErr.Value,
		}
	}

	return &ValidationError{Path: path, Expected: "valid JSON", Actual: err.Error()}
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return len(raw) == 0 || trimmed == "null"
}

func containsString(list []string, s string) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
