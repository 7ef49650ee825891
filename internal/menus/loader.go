package menus

import (
	"context"
	"fmt"
	"sync"

	"github.com/matthinz/lunchbot/internal/dates"
)

// Fetcher produces the normalized days for one calendar month.
type Fetcher func(ctx context.Context, month dates.CalendarMonth) ([]Menu, error)

// DefaultMaxMonthFetches bounds how many distinct months a forward scan
// may fetch before giving up.
const DefaultMaxMonthFetches = 2

// monthCache memoizes month fetches for the lifetime of one loader call.
// Concurrent requests for the same month share a single in-flight fetch;
// nothing survives past the call, so parsed menus are never cached across
// calls (only raw bodies are, at the HTTP layer).
type monthCache struct {
	fetch  Fetcher
	mu     sync.Mutex
	months map[string]*monthFetch
}

type monthFetch struct {
	once  sync.Once
	menus []Menu
	err   error
}

func newMonthCache(fetch Fetcher) *monthCache {
	return &monthCache{
		fetch:  fetch,
		months: make(map[string]*monthFetch),
	}
}

func (c *monthCache) get(ctx context.Context, month dates.CalendarMonth) ([]Menu, error) {
	key := month.String()

	c.mu.Lock()
	f, ok := c.months[key]
	if !ok {
		f = &monthFetch{}
		c.months[key] = f
	}
	c.mu.Unlock()

	f.once.Do(func() {
		f.menus, f.err = c.fetch(ctx, month)
	})

	return f.menus, f.err
}

// LoadMenusForDates returns one entry per requested date, in input order.
// Distinct months are fetched concurrently and at most once per call;
// dates with no published day come back nil. Any month failure fails the
// whole call.
func LoadMenusForDates(ctx context.Context, requested []dates.CalendarDate, fetch Fetcher) ([]*Menu, error) {
	cache := newMonthCache(fetch)

	var wg sync.WaitGroup
	for _, date := range requested {
		month := dates.MonthOf(date)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.get(ctx, month)
		}()
	}
	wg.Wait()

	result := make([]*Menu, len(requested))
	for i, date := range requested {
		menus, err := cache.get(ctx, dates.MonthOf(date))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", dates.MonthOf(date), err)
		}
		for j := range menus {
			if dates.SameDate(menus[j].Date, date) {
				result[i] = &menus[j]
				break
			}
		}
	}

	return result, nil
}

// FindNextMatchingDay walks forward one day at a time from reference and
// returns the first day whose record exists and satisfies match (nil
// matches any existing day). Each new month crossed costs one fetch
// against maxFetches (DefaultMaxMonthFetches when <= 0); once that many
// months have been fetched without a match the result is (nil, nil).
// Fetch failures are fatal.
func FindNextMatchingDay(ctx context.Context, reference dates.CalendarDate, fetch Fetcher, match func(*Menu) bool, maxFetches int) (*Menu, error) {
	if maxFetches <= 0 {
		maxFetches = DefaultMaxMonthFetches
	}

	fetched := make(map[string][]Menu)
	fetchCount := 0

	for date := reference; ; date = dates.AddDays(date, 1) {
		key := dates.MonthOf(date).String()

		menus, ok := fetched[key]
		if !ok {
			if fetchCount >= maxFetches {
				return nil, nil
			}
			fetchCount++

			var err error
			menus, err = fetch(ctx, dates.MonthOf(date))
			if err != nil {
				return nil, err
			}
			fetched[key] = menus
		}

		for j := range menus {
			if dates.SameDate(menus[j].Date, date) && (match == nil || match(&menus[j])) {
				return &menus[j], nil
			}
		}
	}
}
