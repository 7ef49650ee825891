package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/menus"
)

func testRouter(verificationToken string, fetch menus.Fetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(fetch, time.UTC, verificationToken)
	handler.now = func() time.Time {
		return time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC)
	}

	r := gin.New()
	r.POST("/slack/lunch", handler.SlashCommand)
	return r
}

func postCommand(r *gin.Engine, token string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("token", token)
	form.Set("command", "/lunch")
	form.Set("user_id", "U123")

	req := httptest.NewRequest(http.MethodPost, "/slack/lunch", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func menuFetch(t *testing.T) menus.Fetcher {
	return func(ctx context.Context, month dates.CalendarMonth) ([]menus.Menu, error) {
		return []menus.Menu{
			{
				Date: dates.CalendarDate{Year: 2024, Month: 8, Day: 5},
				Categories: []menus.Category{
					{Name: "Lunch", Items: []menus.Item{
						&menus.RecipeItem{Name: "Pizza"},
						&menus.TextItem{Text: "served daily"},
					}},
				},
			},
		}, nil
	}
}

func TestSlashCommandRejectsWrongToken(t *testing.T) {
	r := testRouter("secret", menuFetch(t))

	w := postCommand(r, "not-the-secret")

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestSlashCommandRejectsWhenNoTokenConfigured(t *testing.T) {
	r := testRouter("", menuFetch(t))

	w := postCommand(r, "")

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestSlashCommandRespondsInChannel(t *testing.T) {
	r := testRouter("secret", menuFetch(t))

	w := postCommand(r, "secret")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	if body.ResponseType != "in_channel" {
		t.Fatalf("expected in_channel response, got %q", body.ResponseType)
	}
	if !strings.Contains(body.Text, "Pizza") {
		t.Fatalf("expected menu text, got %q", body.Text)
	}
	if !strings.Contains(body.Text, "2024-08-05") {
		t.Fatalf("expected date in text, got %q", body.Text)
	}
}

func TestSlashCommandNoMenuFound(t *testing.T) {
	empty := func(ctx context.Context, month dates.CalendarMonth) ([]menus.Menu, error) {
		return nil, nil
	}
	r := testRouter("secret", empty)

	w := postCommand(r, "secret")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		ResponseType string `json:"response_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if body.ResponseType != "ephemeral" {
		t.Fatalf("expected ephemeral response, got %q", body.ResponseType)
	}
}

func TestFormatMenuText(t *testing.T) {
	menu := &menus.Menu{
		Date: dates.CalendarDate{Year: 2024, Month: 8, Day: 5},
		Note: "Early release",
		Categories: []menus.Category{
			{Name: "Lunch", Items: []menus.Item{&menus.RecipeItem{Name: "Tacos"}}},
		},
	}

	text := formatMenuText(menu)

	for _, expected := range []string{"*Lunch for 2024-08-05*", "_(Early release)_", "*Lunch*", "• Tacos"} {
		if !strings.Contains(text, expected) {
			t.Fatalf("expected %q in %q", expected, text)
		}
	}
}
