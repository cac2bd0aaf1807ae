package queries

import (
	"context"
	"fmt"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/dto"
)

// Hydrate joins each product with its category's display name using one batch
// lookup. Products whose category no longer resolves get domain.NoCategoryLabel.
// Order is preserved.
func Hydrate(ctx context.Context, categories contracts.CategoryRepo, products []*domain.Product) ([]*dto.ProductView, error) {
	views := make([]*dto.ProductView, 0, len(products))
	if len(products) == 0 {
		return views, nil
	}

	seen := make(map[int64]struct{}, len(products))
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.CategoryID()]; ok {
			continue
		}
		seen[p.CategoryID()] = struct{}{}
		ids = append(ids, p.CategoryID())
	}

	names, err := categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}

	for _, p := range products {
		views = append(views, dto.NewProductView(p, names[p.CategoryID()].Name))
	}
	return views, nil
}

// HydrateOne is Hydrate for a single product.
func HydrateOne(ctx context.Context, categories contracts.CategoryRepo, p *domain.Product) (*dto.ProductView, error) {
	views, err := Hydrate(ctx, categories, []*domain.Product{p})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}
