// Package menus fetches school lunch menus from the MySchoolMenus public
// API, normalizes them into calendar-indexed days, and scores items by how
// rarely they appear within the fetched month.
package menus

import (
	"github.com/matthinz/lunchbot/internal/dates"
)

// Item is either a RecipeItem (actual food) or a TextItem (an annotation
// line from the feed). The marker method keeps the union closed.
type Item interface {
	menuItem()
}

// RecipeItem is a food item. Interestingness is 0-1; higher means the item
// appears on fewer of the month's days with published content.
type RecipeItem struct {
	Name            string  `json:"name"`
	Interestingness float64 `json:"interestingness"`
}

// TextItem is an annotation or separator line from the feed.
type TextItem struct {
	Text string `json:"text"`
}

func (*RecipeItem) menuItem() {}
func (*TextItem) menuItem()   {}

// Category is one feed-defined grouping of items, in feed display order.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Menu is one calendar day of a menu. Note carries the feed's "day off"
// description when the day is marked closed; such days normally have no
// categories.
type Menu struct {
	Date       dates.CalendarDate `json:"date"`
	Note       string             `json:"note,omitempty"`
	Categories []Category         `json:"categories"`
}

// HasContent reports whether the day has any published categories.
func HasContent(m *Menu) bool {
	return len(m.Categories) > 0
}

// InterestingItems returns the recipe items across categories whose
// interestingness meets the threshold, paired with their category.
func InterestingItems(categories []Category, threshold float64) []InterestingItem {
	var result []InterestingItem
	for i := range categories {
		for _, item := range categories[i].Items {
			if recipe, ok := item.(*RecipeItem); ok && recipe.Interestingness >= threshold {
				result = append(result, InterestingItem{Category: &categories[i], Item: recipe})
			}
		}
	}
	return result
}

// InterestingItem is a recipe item together with the category it appears in.
type InterestingItem struct {
	Category *Category
	Item     *RecipeItem
}
