package feeds

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/menus"
)

// Handler serves the weekly RSS and iCalendar feeds.
type Handler struct {
	fetch    menus.Fetcher
	timezone string
	now      func() time.Time
}

func NewHandler(fetch menus.Fetcher, timezone string) *Handler {
	return &Handler{
		fetch:    fetch,
		timezone: timezone,
		now:      time.Now,
	}
}

// GetRSS serves the week digest as RSS 2.0.
func (h *Handler) GetRSS(c *gin.Context) {
	days, weekMenus, ok := h.loadWeek(c)
	if !ok {
		return
	}

	body, err := BuildWeekRSS(days, weekMenus, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(body))
}

// GetICS serves the week as an iCalendar subscription.
func (h *Handler) GetICS(c *gin.Context) {
	days, weekMenus, ok := h.loadWeek(c)
	if !ok {
		return
	}

	body, err := BuildWeekCalendar(days, weekMenus, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *Handler) loadWeek(c *gin.Context) ([]dates.WeekDay, []*menus.Menu, bool) {
	days, err := dates.WeekDays(h.now(), h.timezone, dates.DefaultDayTransitionMinutes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	requested := make([]dates.CalendarDate, len(days))
	for i, day := range days {
		requested[i] = day.Date
	}

	weekMenus, err := menus.LoadMenusForDates(c.Request.Context(), requested, h.fetch)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	return days, weekMenus, true
}
