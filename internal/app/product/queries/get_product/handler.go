package get_product

import (
	"context"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/dto"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries"
)

type Handler struct {
	products   contracts.ProductRepo
	categories contracts.CategoryRepo
}

func NewHandler(products contracts.ProductRepo, categories contracts.CategoryRepo) *Handler {
	return &Handler{products: products, categories: categories}
}

// Execute returns the hydrated product or domain.ErrProductNotFound.
func (h *Handler) Execute(ctx context.Context, q Query) (*dto.ProductView, error) {
	p, err := h.products.Find(ctx, q.ProductID)
	if err != nil {
		return nil, err
	}
	return queries.HydrateOne(ctx, h.categories, p)
}
