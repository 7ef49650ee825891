package menus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matthinz/lunchbot/internal/dates"
	"github.com/matthinz/lunchbot/internal/httpcache"
)

const defaultBaseURL = "https://myschoolmenus.com/api/public/menus"

// The upstream rejects requests that don't look like a browser.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:128.0) Gecko/20100101 Firefox/128.0"

// Provider fetches and normalizes one district/menu feed, one month per
// request. No retries and no partial results: a month either validates in
// full or the fetch fails.
type Provider struct {
	getter      httpcache.Getter
	districtID  int
	menuID      int
	baseURL     string
	ignoredText []string
}

// NewProvider builds a Provider over the given getter for one
// district/menu pair.
func NewProvider(getter httpcache.Getter, districtID, menuID int) *Provider {
	return &Provider{
		getter:      getter,
		districtID:  districtID,
		menuID:      menuID,
		baseURL:     defaultBaseURL,
		ignoredText: DefaultIgnoredText,
	}
}

// WithBaseURL points the provider at a different endpoint (tests).
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = baseURL
	return p
}

// WithIgnoredText overrides the list of feed text rows dropped during
// normalization.
func (p *Provider) WithIgnoredText(ignored []string) *Provider {
	p.ignoredText = ignored
	return p
}

// FetchMonth performs one GET for the month and returns its normalized,
// scored days. Failures are *httpcache.HTTPError, *ValidationError or
// *StructuralError.
func (p *Provider) FetchMonth(ctx context.Context, month dates.CalendarMonth) ([]Menu, error) {
	url := fmt.Sprintf("%s/%d?menu_month=%s", p.baseURL, p.menuID, dates.FirstDay(month))

	body, err := p.getter(ctx, url, map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.5",
		"Content-Type":    "application/json",
		"x-district":      strconv.Itoa(p.districtID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching menu %d for %s: %w", p.menuID, month, err)
	}

	menus, err := parseMonthResponse([]byte(body), p.ignoredText)
	if err != nil {
		return nil, fmt.Errorf("parsing menu %d for %s: %w", p.menuID, month, err)
	}

	return menus, nil
}
