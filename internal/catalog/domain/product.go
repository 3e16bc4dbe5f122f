package domain

import (
	"math"
	"time"
)

// PageSize is the fixed page size for product listings.
const PageSize = 20

// Sort orders accepted by ListQuery.
const (
	SortNewest       = "newest"
	SortPriceLowHigh = "price-low-high"
	SortPriceHighLow = "price-high-low"
)

// DefaultMaxPrice is the upper bound applied when no price filter is set.
const DefaultMaxPrice = 10000

// Product is the read-only catalog entity supplied by the commerce API.
// The cart references products by id and keeps a snapshot of the fields
// needed for display and pricing; nothing in this client mutates one.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsAvailable checks if the product is in stock
func (p *Product) IsAvailable() bool {
	return p.Stock > 0 && p.IsActive
}

// DiscountPercent returns the rounded discount against the original price,
// or 0 when the product is not discounted.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice <= p.Price || p.OriginalPrice == 0 {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
}

// Category is a catalog section shown in navigation and search.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListQuery holds the filter, sort, and pagination parameters for a
// product listing.
type ListQuery struct {
	Page     int
	Category string
	Search   string
	MinPrice float64
	MaxPrice float64
	SortBy   string
}

// Normalized returns the query with defaults applied: page 1, price range
// 0 to DefaultMaxPrice, newest first.
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.MaxPrice <= 0 {
		q.MaxPrice = DefaultMaxPrice
	}
	if q.MinPrice < 0 {
		q.MinPrice = 0
	}
	switch q.SortBy {
	case SortNewest, SortPriceLowHigh, SortPriceHighLow:
	default:
		q.SortBy = SortNewest
	}
	return q
}
