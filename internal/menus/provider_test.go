package menus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/httpcache"
)

func TestProviderFetchMonth(t *testing.T) {
	var gotPath, gotMonth, gotDistrict string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMonth = r.URL.Query().Get("menu_month")
		gotDistrict = r.Header.Get("x-district")

		setting := settingJSON(t, []map[string]any{
			display("category", "Lunch", 0),
			display("recipe", "Tacos", 1),
		}, nil)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(responseJSON(t, dayJSON("2024-08-05", setting)))
	}))
	defer server.Close()

	provider := NewProvider(httpcache.NewGetter(), 42, 1234).WithBaseURL(server.URL)

	menus, err := provider.FetchMonth(context.Background(), dates.CalendarMonth{Year: 2024, Month: 8})
	require.NoError(t, err)

	assert.Equal(t, "/1234", gotPath)
	assert.Equal(t, "2024-08-01", gotMonth)
	assert.Equal(t, "42", gotDistrict)

	require.Len(t, menus, 1)
	assert.Equal(t, dates.CalendarDate{Year: 2024, Month: 8, Day: 5}, menus[0].Date)
}

func TestProviderSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewProvider(httpcache.NewGetter(), 42, 1234).WithBaseURL(server.URL)

	_, err := provider.FetchMonth(context.Background(), dates.CalendarMonth{Year: 2024, Month: 8})

	var httpErr *httpcache.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestProviderSurfacesValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	defer server.Close()

	provider := NewProvider(httpcache.NewGetter(), 42, 1234).WithBaseURL(server.URL)

	_, err := provider.FetchMonth(context.Background(), dates.CalendarMonth{Year: 2024, Month: 8})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestProviderCustomIgnoredText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setting := settingJSON(t, []map[string]any{
			display("category", "Lunch", 0),
			display("text", "Choice of", 1),
		}, nil)
		_, _ = w.Write(responseJSON(t, dayJSON("2024-08-05", setting)))
	}))
	defer server.Close()

	provider := NewProvider(httpcache.NewGetter(), 42, 1234).
		WithBaseURL(server.URL).
		WithIgnoredText(nil)

	menus, err := provider.FetchMonth(context.Background(), dates.CalendarMonth{Year: 2024, Month: 8})
	require.NoError(t, err)

	// With no ignore list the connective text survives.
	require.Len(t, menus[0].Categories[0].Items, 1)
	assert.Equal(t, &TextItem{Text: "Choice of"}, menus[0].Categories[0].Items[0])
}
