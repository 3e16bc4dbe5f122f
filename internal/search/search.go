// Package search holds the storefront search utilities: category
// matching, query validation, debounced invocation, search history, and
// the short-lived result cache behind the search box.
package search

import (
	"strings"
	"unicode"

	"github.com/tair/parfum-storefront/internal/catalog/domain"
)

// Query length bounds enforced by ValidateQuery.
const (
	minQueryLength = 2
	maxQueryLength = 100
)

// Validation is the outcome of checking a raw search query.
type Validation struct {
	IsValid bool
	Message string
}

// ValidateQuery checks a raw query before any search is performed.
// Invalid queries are simply not searched; no error propagates.
func ValidateQuery(query string) Validation {
	trimmed := strings.TrimSpace(query)
	switch {
	case len(trimmed) == 0:
		return Validation{Message: "search query cannot be empty"}
	case len([]rune(trimmed)) < minQueryLength:
		return Validation{Message: "search query must be at least 2 characters"}
	case len([]rune(trimmed)) > maxQueryLength:
		return Validation{Message: "search query must be at most 100 characters"}
	default:
		return Validation{IsValid: true}
	}
}

// Normalize returns the canonical form of a query used for history
// entries and cache keys.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// MatchCategory resolves a query to a category, trying in priority
// order: exact id, exact name (case-insensitive), substring of name,
// then any word of the query as a substring of the name. Returns the
// first hit in input order, or nil.
func MatchCategory(query string, categories []domain.Category) *domain.Category {
	q := Normalize(query)
	if q == "" {
		return nil
	}

	for i := range categories {
		if strings.EqualFold(categories[i].ID, q) {
			return &categories[i]
		}
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, q) {
			return &categories[i]
		}
	}
	for i := range categories {
		if strings.Contains(strings.ToLower(categories[i].Name), q) {
			return &categories[i]
		}
	}
	for i := range categories {
		name := strings.ToLower(categories[i].Name)
		for _, word := range strings.Fields(q) {
			if strings.Contains(name, word) {
				return &categories[i]
			}
		}
	}
	return nil
}

// categoryLabels maps known category ids to their display labels.
var categoryLabels = map[string]string{
	"men":          "Men's Perfumes",
	"women":        "Women's Perfumes",
	"unisex":       "Unisex Perfumes",
	"gift-sets":    "Gift Sets",
	"new-arrivals": "New Arrivals",
	"best-sellers": "Best Sellers",
}

// FormatCategoryName returns the display label for a category id.
// Unknown ids fall back to a generic transform: hyphens become spaces
// and each word is capitalized.
func FormatCategoryName(id string) string {
	if label, ok := categoryLabels[id]; ok {
		return label
	}

	words := strings.Split(strings.ReplaceAll(id, "-", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
