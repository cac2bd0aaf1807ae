package list_products

import (
	"context"
	"fmt"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/dto"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries"
)

// Handler builds one page of the product listing.
//
// The steps run in a fixed order: the candidate set is counted with the
// filter only, then the repository orders it and cuts the page window, then
// each item is joined with its category name. Count and window come from the
// same snapshot.
type Handler struct {
	products   contracts.ProductRepo
	categories contracts.CategoryRepo
}

func NewHandler(products contracts.ProductRepo, categories contracts.CategoryRepo) *Handler {
	return &Handler{products: products, categories: categories}
}

func (h *Handler) Execute(ctx context.Context, q Query) (*dto.ListResult, error) {
	listing := q.Listing()
	filter := listing.Filter()

	page, total, err := h.products.Page(ctx, filter, listing.Sort, listing.Window())
	if err != nil {
		return nil, fmt.Errorf("load listing page: %w", err)
	}

	result := &dto.ListResult{
		Items:      []*dto.ProductView{},
		Pagination: domain.NewPaginationResult(listing.PageNumber, listing.PageSize, total),
	}
	if len(page) == 0 {
		return result, nil
	}

	items, err := queries.Hydrate(ctx, h.categories, page)
	if err != nil {
		return nil, err
	}
	result.Items = items
	return result, nil
}
