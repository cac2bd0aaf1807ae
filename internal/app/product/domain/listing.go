package domain

import (
	"math"
	"strings"
)

// Paging defaults.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 50
)

// SortKey selects the ordering of a product listing.
type SortKey string

const (
	// SortByName orders by name ascending (ordinal, case-sensitive), ties by id.
	SortByName SortKey = "name"

	// SortByPriceAsc orders by price ascending, ties by id.
	SortByPriceAsc SortKey = "priceAsc"

	// SortByPriceDesc orders by price descending, ties by id.
	SortByPriceDesc SortKey = "priceDesc"
)

// ParseSortKey maps a raw sort parameter to a SortKey. Unknown values fall
// back to SortByName.
func ParseSortKey(raw string) SortKey {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "priceasc", "price_asc", "price":
		return SortByPriceAsc
	case "pricedesc", "price_desc", "-price":
		return SortByPriceDesc
	default:
		return SortByName
	}
}

// ListingQuery holds the raw listing parameters of a request.
type ListingQuery struct {
	CategoryID *int64
	Search     string
	Sort       SortKey
	PageNumber int
	PageSize   int
}

// ProductFilter restricts the candidate set. Zero values mean no restriction.
type ProductFilter struct {
	CategoryID *int64
	// Search is matched case-insensitively as a substring of the name.
	Search string
}

// PageWindow is the offset/limit slice applied after ordering.
type PageWindow struct {
	Offset int
	Limit  int
}

// Normalize applies defaults and clamps so the result is always a valid query.
func (q ListingQuery) Normalize() ListingQuery {
	out := q
	if out.PageNumber < 1 {
		out.PageNumber = DefaultPageNumber
	}
	switch {
	case out.PageSize < 1:
		out.PageSize = DefaultPageSize
	case out.PageSize > MaxPageSize:
		out.PageSize = MaxPageSize
	}
	switch out.Sort {
	case SortByName, SortByPriceAsc, SortByPriceDesc:
	default:
		out.Sort = SortByName
	}
	out.Search = strings.TrimSpace(out.Search)
	return out
}

// Filter returns the candidate-set predicate of a normalized query.
func (q ListingQuery) Filter() ProductFilter {
	return ProductFilter{CategoryID: q.CategoryID, Search: q.Search}
}

// Window returns the page window of a normalized query. An offset that
// does not fit in an int saturates at math.MaxInt, which lies past the end of
// any candidate set.
func (q ListingQuery) Window() PageWindow {
	skip := q.PageNumber - 1
	if skip > 0 && skip > math.MaxInt/q.PageSize {
		return PageWindow{Offset: math.MaxInt, Limit: q.PageSize}
	}
	return PageWindow{Offset: skip * q.PageSize, Limit: q.PageSize}
}

// PastEnd reports whether the window starts at or after the last of total items.
func (w PageWindow) PastEnd(total int64) bool {
	return w.Offset < 0 || int64(w.Offset) >= total
}

// PaginationResult describes where a page sits in the candidate set.
type PaginationResult struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// NewPaginationResult computes total pages as ceil(totalItems / pageSize).
func NewPaginationResult(pageNumber, pageSize int, totalItems int64) PaginationResult {
	pages := 0
	if pageSize > 0 {
		pages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginationResult{
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  pages,
	}
}
