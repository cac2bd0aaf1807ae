package queries

import (
	"context"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// CategoryReader lists the category reference set for clients building filters.
type CategoryReader struct {
	categories contracts.CategoryRepo
}

func NewCategoryReader(categories contracts.CategoryRepo) *CategoryReader {
	return &CategoryReader{categories: categories}
}

func (r *CategoryReader) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return r.categories.List(ctx)
}
