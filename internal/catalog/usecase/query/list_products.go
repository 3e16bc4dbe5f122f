package query

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tair/parfum-storefront/internal/catalog"
	"github.com/tair/parfum-storefront/internal/catalog/domain"
	"github.com/tair/parfum-storefront/pkg/api"
	"github.com/tair/parfum-storefront/pkg/logger"
)

var fallbackCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "storefront_catalog_fallback_total",
	Help: "Number of product listings served from the bundled static catalog",
})

// ProductLister is the remote collaborator for product listings.
type ProductLister interface {
	ListProducts(ctx context.Context, q domain.ListQuery) ([]domain.Product, domain.Pagination, error)
}

// Source reports where a listing came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// ListProductsResult is one page of a listing. When the backend was
// unreachable the products come from the static catalog, Source is
// SourceFallback, and RemoteErr carries the message for an inline notice.
type ListProductsResult struct {
	Products   []domain.Product
	Pagination domain.Pagination
	Source     Source
	RemoteErr  string
}

// ListProductsHandler handles the product listing query with degraded-mode
// fallback: network failures and backend 5xx fall back to the bundled
// catalog so there is always something to render; a 4xx means the backend
// understood and rejected the request, which is a real error the caller
// must see rather than have papered over with stale local data.
type ListProductsHandler struct {
	remote ProductLister
	local  []domain.Product
}

// NewListProductsHandler creates a new list products handler. local is
// the fallback dataset, usually catalog.StaticCatalog.
func NewListProductsHandler(remote ProductLister, local []domain.Product) *ListProductsHandler {
	return &ListProductsHandler{remote: remote, local: local}
}

// Handle executes the listing query.
func (h *ListProductsHandler) Handle(ctx context.Context, q domain.ListQuery) (*ListProductsResult, error) {
	q = q.Normalized()

	products, pagination, err := h.remote.ListProducts(ctx, q)
	if err == nil {
		return &ListProductsResult{
			Products:   products,
			Pagination: pagination,
			Source:     SourceRemote,
		}, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.IsClientError() {
		return nil, err
	}

	logger.Warn(ctx).
		Err(err).
		Str("search", q.Search).
		Str("category", q.Category).
		Msg("Product API unreachable, serving static catalog")
	fallbackCounter.Inc()

	localProducts, localPagination := catalog.FilterSortPaginate(h.local, q)
	return &ListProductsResult{
		Products:   localProducts,
		Pagination: localPagination,
		Source:     SourceFallback,
		RemoteErr:  err.Error(),
	}, nil
}
