// Package slack serves the /lunch slash command.
package slack

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/menus"
)

// Handler answers Slack slash-command posts with the next school day's
// menu. Requests are rejected unless they carry the configured
// verification token; with no token configured everything is rejected.
type Handler struct {
	verificationToken string
	fetch             menus.Fetcher
	loc               *time.Location
	now               func() time.Time
}

func NewHandler(fetch menus.Fetcher, loc *time.Location, verificationToken string) *Handler {
	return &Handler{
		verificationToken: verificationToken,
		fetch:             fetch,
		loc:               loc,
		now:               time.Now,
	}
}

// SlashCommand handles the form-encoded POST from Slack.
func (h *Handler) SlashCommand(c *gin.Context) {
	token := c.PostForm("token")
	if h.verificationToken == "" || token != h.verificationToken {
		c.Status(http.StatusForbidden)
		return
	}

	reference := dates.CalendarDateIn(h.now(), h.loc)

	menu, err := menus.FindNextMatchingDay(c.Request.Context(), reference, h.fetch, menus.HasContent, menus.DefaultMaxMonthFetches)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if menu == nil {
		c.JSON(http.StatusOK, gin.H{
			"response_type": "ephemeral",
			"text":          "No upcoming lunch menu found.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response_type": "in_channel",
		"text":          formatMenuText(menu),
	})
}

// formatMenuText renders a menu day as Slack markdown.
func formatMenuText(menu *menus.Menu) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Lunch for %s*", menu.Date)
	if menu.Note != "" {
		fmt.Fprintf(&b, " _(%s)_", menu.Note)
	}

	for _, category := range menu.Categories {
		fmt.Fprintf(&b, "\n*%s*", category.Name)
		for _, item := range category.Items {
			switch it := item.(type) {
			case *menus.RecipeItem:
				fmt.Fprintf(&b, "\n• %s", it.Name)
			case *menus.TextItem:
				fmt.Fprintf(&b, "\n_%s_", it.Text)
			}
		}
	}

	return b.String()
}
