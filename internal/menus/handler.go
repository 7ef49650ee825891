package menus

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/httpcache"
)

// Handler serves the menu lookup routes. Both routes answer "what is the
// next school day with a published menu at or after this date?".
type Handler struct {
	fetch Fetcher
	loc   *time.Location
	now   func() time.Time
}

func NewHandler(fetch Fetcher, loc *time.Location) *Handler {
	return &Handler{
		fetch: fetch,
		loc:   loc,
		now:   time.Now,
	}
}

// GetMenu renders the next school day's menu as HTML. When the found day
// is not the requested one, it redirects to the canonical ?date= URL.
func (h *Handler) GetMenu(c *gin.Context) {
	date, menu, ok := h.lookup(c)
	if !ok {
		return
	}

	if !dates.SameDate(menu.Date, date) {
		c.Redirect(http.StatusFound, "/menu?date="+menu.Date.String())
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	if err := menuTemplate.Execute(c.Writer, newDayView(menu)); err != nil {
		log.Printf("rendering menu for %s: %v", menu.Date, err)
	}
}

// GetMenuJSON is the same lookup with a JSON body.
func (h *Handler) GetMenuJSON(c *gin.Context) {
	_, menu, ok := h.lookup(c)
	if !ok {
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.JSON(http.StatusOK, menu)
}

func (h *Handler) lookup(c *gin.Context) (dates.CalendarDate, *Menu, bool) {
	date := dates.CalendarDateIn(h.now(), h.loc)

	if raw := c.Query("date"); raw != "" {
		parsed, err := dates.ParseCalendarDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return date, nil, false
		}
		date = parsed
	}

	menu, err := FindNextMatchingDay(c.Request.Context(), date, h.fetch, HasContent, DefaultMaxMonthFetches)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return date, nil, false
	}

	if menu == nil {
		c.Status(http.StatusNotFound)
		return date, nil, false
	}

	return date, menu, true
}

// statusForError maps upstream failures to 502 and everything else to 500.
func statusForError(err error) int {
	var httpErr *httpcache.HTTPError
	var validationErr *ValidationError
	var structuralErr *StructuralError

	if errors.As(err, &httpErr) || errors.As(err, &validationErr) || errors.As(err, &structuralErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type dayView struct {
	Date       string
	Note       string
	Categories []categoryView
}

type categoryView struct {
	Name  string
	Items []string
}

func newDayView(menu *Menu) dayView {
	view := dayView{
		Date: menu.Date.String(),
		Note: menu.Note,
	}

	for _, category := range menu.Categories {
		cv := categoryView{Name: category.Name}
		for _, item := range category.Items {
			switch it := item.(type) {
			case *RecipeItem:
				cv.Items = append(cv.Items, it.Name)
			case *TextItem:
				cv.Items = append(cv.Items, it.Text)
			}
		}
		view.Categories = append(view.Categories, cv)
	}

	return view
}

var menuTemplate = template.Must(template.New("menu").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 40rem; padding: 0 1rem; }
h1 { font-size: 1.5rem; }
</style>
</head>
<body>
<h1>{{.Date}}</h1>
{{if .Note}}<p>{{.Note}}</p>{{end}}
<ul>
{{range .Categories}}<li>{{.Name}}
<ul>
{{range .Items}}<li>{{.}}</li>
{{end}}</ul>
</li>
{{end}}</ul>
</body>
</html>
`))
