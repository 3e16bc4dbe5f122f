package search

import (
	"context"
	"time"

	"github.com/tair/parfum-storefront/internal/catalog/domain"
	"github.com/tair/parfum-storefront/internal/catalog/usecase/query"
	"github.com/tair/parfum-storefront/pkg/cache"
	"github.com/tair/parfum-storefront/pkg/logger"
)

const (
	resultCacheTTL  = 5 * time.Minute
	resultCacheSize = 50
	debounceWait    = 300 * time.Millisecond
)

// Session glues the search box together: it validates and normalizes the
// query, resolves category shortcuts, serves repeated searches from a
// short-lived in-memory cache, and records the history. Results come from
// the product listing handler, fallback included.
type Session struct {
	products   *query.ListProductsHandler
	history    *History
	categories []domain.Category
	results    *cache.Cache
	debounce   *Debouncer
}

// NewSession creates a search session.
func NewSession(products *query.ListProductsHandler, history *History, categories []domain.Category) *Session {
	return &Session{
		products:   products,
		history:    history,
		categories: categories,
		results:    cache.New(resultCacheSize),
		debounce:   NewDebouncer(debounceWait),
	}
}

// Search runs a search immediately. An invalid query returns (nil, nil):
// the search is simply not performed, matching the storefront behavior of
// ignoring too-short input rather than surfacing an error.
func (s *Session) Search(ctx context.Context, rawQuery string) (*query.ListProductsResult, error) {
	if v := ValidateQuery(rawQuery); !v.IsValid {
		logger.Debug(ctx).Str("reason", v.Message).Msg("Search skipped")
		return nil, nil
	}
	normalized := Normalize(rawQuery)

	if cached, ok := s.results.Get(normalized); ok {
		logger.Debug(ctx).Str("query", normalized).Msg("Search cache hit")
		s.history.Record(ctx, normalized)
		return cached.(*query.ListProductsResult), nil
	}

	listQuery := domain.ListQuery{Search: normalized}
	if category := MatchCategory(normalized, s.categories); category != nil {
		listQuery = domain.ListQuery{Category: category.ID}
	}

	result, err := s.products.Handle(ctx, listQuery)
	if err != nil {
		return nil, err
	}

	s.history.Record(ctx, normalized)

	// Fallback results reflect an outage; caching them would keep
	// serving stale local data after the backend recovers.
	if result.Source == query.SourceRemote {
		s.results.Set(normalized, result, resultCacheTTL)
	}

	return result, nil
}

// SearchDebounced schedules a search after the quiet period, replacing
// any pending one. fn receives the result on the timer goroutine; it is
// not called when the search errors or the query was invalid.
func (s *Session) SearchDebounced(ctx context.Context, rawQuery string, fn func(*query.ListProductsResult)) {
	s.debounce.Do(ctx, func() {
		result, err := s.Search(ctx, rawQuery)
		if err != nil {
			logger.Warn(ctx).Err(err).Str("query", rawQuery).Msg("Debounced search failed")
			return
		}
		if result != nil {
			fn(result)
		}
	})
}

// History returns the session's search history.
func (s *Session) History() *History {
	return s.history
}

// Close cancels any pending debounced search.
func (s *Session) Close() {
	s.debounce.Stop()
}
