// Package catalog provides product listings backed by the commerce API,
// with a bundled static catalog used as a degraded-mode fallback when the
// backend is unreachable.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/tair/parfum-storefront/internal/catalog/domain"
)

// StaticCategories mirrors the storefront navigation sections.
var StaticCategories = []domain.Category{
	{ID: "men", Name: "Men's Perfumes"},
	{ID: "women", Name: "Women's Perfumes"},
	{ID: "unisex", Name: "Unisex Perfumes"},
	{ID: "gift-sets", Name: "Gift Sets"},
}

// StaticCatalog is the bundled product list served when the remote call
// fails. It only has to be plausible enough to keep the storefront
// browsable offline; real data always comes from the API.
var StaticCatalog = []domain.Product{
	{
		ID: "chanel-no5-edp", Name: "Chanel No 5 Eau de Parfum", Brand: "Chanel",
		Price: 168, OriginalPrice: 168, Category: "women", Stock: 24, IsActive: true,
		CreatedAt: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "bleu-de-chanel-edt", Name: "Bleu de Chanel Eau de Toilette", Brand: "Chanel",
		Price: 112, OriginalPrice: 132, Category: "men", Stock: 31, IsActive: true,
		CreatedAt: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "dior-sauvage-edp", Name: "Dior Sauvage Eau de Parfum", Brand: "Dior",
		Price: 125, OriginalPrice: 125, Category: "men", Stock: 48, IsActive: true,
		CreatedAt: time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "miss-dior-edp", Name: "Miss Dior Eau de Parfum", Brand: "Dior",
		Price: 118, OriginalPrice: 140, Category: "women", Stock: 17, IsActive: true,
		CreatedAt: time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "creed-aventus", Name: "Creed Aventus", Brand: "Creed",
		Price: 365, OriginalPrice: 365, Category: "men", Stock: 6, IsActive: true,
		CreatedAt: time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "ysl-libre-edp", Name: "Yves Saint Laurent Libre", Brand: "YSL",
		Price: 108, OriginalPrice: 108, Category: "women", Stock: 29, IsActive: true,
		CreatedAt: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "tom-ford-oud-wood", Name: "Tom Ford Oud Wood", Brand: "Tom Ford",
		Price: 285, OriginalPrice: 285, Category: "unisex", Stock: 9, IsActive: true,
		CreatedAt: time.Date(2024, 12, 19, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "versace-eros-edt", Name: "Versace Eros Eau de Toilette", Brand: "Versace",
		Price: 78, OriginalPrice: 96, Category: "men", Stock: 52, IsActive: true,
		CreatedAt: time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "armani-acqua-di-gio", Name: "Armani Acqua di Gio Profondo", Brand: "Armani",
		Price: 98, OriginalPrice: 98, Category: "men", Stock: 35, IsActive: true,
		CreatedAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "gucci-bloom-edp", Name: "Gucci Bloom Eau de Parfum", Brand: "Gucci",
		Price: 114, OriginalPrice: 114, Category: "women", Stock: 21, IsActive: true,
		CreatedAt: time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "lancome-la-vie-est-belle", Name: "Lancome La Vie Est Belle", Brand: "Lancome",
		Price: 102, OriginalPrice: 124, Category: "women", Stock: 27, IsActive: true,
		CreatedAt: time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "paco-rabanne-1-million", Name: "Paco Rabanne 1 Million", Brand: "Paco Rabanne",
		Price: 86, OriginalPrice: 86, Category: "men", Stock: 44, IsActive: true,
		CreatedAt: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "jo-malone-wood-sage", Name: "Jo Malone Wood Sage & Sea Salt", Brand: "Jo Malone",
		Price: 155, OriginalPrice: 155, Category: "unisex", Stock: 13, IsActive: true,
		CreatedAt: time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC),
	},
	{
		ID: "discovery-gift-set", Name: "Niche Discovery Gift Set", Brand: "Parfum House",
		Price: 64, OriginalPrice: 80, Category: "gift-sets", Stock: 38, IsActive: true,
		CreatedAt: time.Date(2025, 4, 22, 0, 0, 0, 0, time.UTC),
	},
}

// FilterSortPaginate reproduces the backend's listing semantics over an
// in-memory product slice: case-insensitive substring match on name,
// substring match on category, inclusive price range, sort per query, and
// fixed-size page slicing.
func FilterSortPaginate(products []domain.Product, q domain.ListQuery) ([]domain.Product, domain.Pagination) {
	q = q.Normalized()

	filtered := make([]domain.Product, 0, len(products))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.ToLower(strings.TrimSpace(q.Category))

	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(p.Category), category) {
			continue
		}
		if p.Price < q.MinPrice || p.Price > q.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	switch q.SortBy {
	case domain.SortPriceLowHigh:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case domain.SortPriceHighLow:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	default: // newest
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	}

	total := len(filtered)
	pagination := domain.Pagination{
		Page:       q.Page,
		Limit:      domain.PageSize,
		Total:      total,
		TotalPages: (total + domain.PageSize - 1) / domain.PageSize,
	}

	start := (q.Page - 1) * domain.PageSize
	if start >= total {
		return []domain.Product{}, pagination
	}
	end := start + domain.PageSize
	if end > total {
		end = total
	}

	page := make([]domain.Product, end-start)
	copy(page, filtered[start:end])
	return page, pagination
}
