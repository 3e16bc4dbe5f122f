package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tair/parfum-storefront/internal/catalog/domain"
	"github.com/tair/parfum-storefront/pkg/api"
)

// listCacheTTL keeps repeated browsing of the same page off the network
// without letting stock levels go stale for long.
const listCacheTTL = time.Minute

// ProductClient wraps the commerce API's product endpoints.
type ProductClient struct {
	api *api.Client
}

// NewProductClient creates a new product API client.
func NewProductClient(apiClient *api.Client) *ProductClient {
	return &ProductClient{api: apiClient}
}

// ListProducts fetches one page of products. The query's sort order is
// translated into the API's sortBy/sortOrder pair.
func (c *ProductClient) ListProducts(ctx context.Context, q domain.ListQuery) ([]domain.Product, domain.Pagination, error) {
	q = q.Normalized()

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(domain.PageSize))
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	params.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	params.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))

	sortField, sortOrder := translateSort(q.SortBy)
	params.Set("sortBy", sortField)
	params.Set("sortOrder", sortOrder)

	payload, err := c.api.Do(ctx, "/products", api.RequestOptions{
		Query:         params,
		CacheKey:      "products:" + params.Encode(),
		CacheDuration: listCacheTTL,
	})
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	var result struct {
		Products   []domain.Product  `json:"products"`
		Pagination domain.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("failed to decode product list: %w", err)
	}

	return result.Products, result.Pagination, nil
}

// GetProduct fetches a single product by id.
func (c *ProductClient) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	payload, err := c.api.Do(ctx, "/products/"+url.PathEscape(id), api.RequestOptions{
		CacheKey:      "product:" + id,
		CacheDuration: listCacheTTL,
	})
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

func translateSort(sortBy string) (field, order string) {
	switch sortBy {
	case domain.SortPriceLowHigh:
		return "price", "asc"
	case domain.SortPriceHighLow:
		return "price", "desc"
	default:
		return "createdAt", "desc"
	}
}
