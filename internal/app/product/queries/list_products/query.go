package list_products

import "github.com/murkotick/ecommerce-catalog/internal/app/product/domain"

// Query carries the listing parameters as received from a caller. Nothing
// here is trusted; Listing normalizes it.
type Query struct {
	CategoryID *int64
	Search     string
	Sort       string
	PageNumber int
	PageSize   int
}

// Listing converts q into a normalized domain.ListingQuery.
func (q Query) Listing() domain.ListingQuery {
	return domain.ListingQuery{
		CategoryID: q.CategoryID,
		Search:     q.Search,
		Sort:       domain.ParseSortKey(q.Sort),
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
	}.Normalize()
}
