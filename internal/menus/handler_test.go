package menus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthinz/lunchbot/internal/dates"
)

func testRouter(fetch Fetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(fetch, time.UTC)
	handler.now = func() time.Time {
		return time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC)
	}

	r := gin.New()
	r.GET("/menu", handler.GetMenu)
	r.GET("/menu.json", handler.GetMenuJSON)
	return r
}

func fixedFetch(menus ...Menu) Fetcher {
	return func(ctx context.Context, month dates.CalendarMonth) ([]Menu, error) {
		return menus, nil
	}
}

func TestGetMenuRendersHTML(t *testing.T) {
	r := testRouter(fixedFetch(dayWithContent(date(2024, 8, 5))))

	req := httptest.NewRequest(http.MethodGet, "/menu?date=2024-08-05", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected text/html, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Pizza") {
		t.Fatalf("expected body to contain menu item, got %q", w.Body.String())
	}
}

func TestGetMenuRedirectsToNextSchoolDay(t *testing.T) {
	r := testRouter(fixedFetch(dayWithContent(date(2024, 8, 7))))

	req := httptest.NewRequest(http.MethodGet, "/menu?date=2024-08-05", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/menu?date=2024-08-07" {
		t.Fatalf("unexpected redirect location %q", loc)
	}
}

func TestGetMenuRejectsBadDate(t *testing.T) {
	r := testRouter(fixedFetch())

	req := httptest.NewRequest(http.MethodGet, "/menu?date=yesterday", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetMenuNotFoundWhenNothingMatches(t *testing.T) {
	r := testRouter(fixedFetch())

	req := httptest.NewRequest(http.MethodGet, "/menu?date=2024-08-05", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestGetMenuDefaultsToToday(t *testing.T) {
	r := testRouter(fixedFetch(dayWithContent(date(2024, 8, 5))))

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestGetMenuJSON(t *testing.T) {
	r := testRouter(fixedFetch(dayWithContent(date(2024, 8, 5))))

	req := httptest.NewRequest(http.MethodGet, "/menu.json?date=2024-08-05", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"name":"Pizza"`) {
		t.Fatalf("expected JSON body with items, got %q", body)
	}
}
