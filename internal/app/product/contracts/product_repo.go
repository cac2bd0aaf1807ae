package contracts

import (
	"context"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// ProductRepo is the Catalog Repository for products.
// Implementations translate domain filters and sort keys into their own query form.
type ProductRepo interface {
	// Find loads one product or fails with domain.ErrProductNotFound.
	Find(ctx context.Context, id int64) (*domain.Product, error)

	// FindAll returns the window of the filtered, ordered candidate set.
	FindAll(ctx context.Context, filter domain.ProductFilter, order domain.SortKey, window domain.PageWindow) ([]*domain.Product, error)

	// Count returns the size of the filtered candidate set, ignoring any window.
	Count(ctx context.Context, filter domain.ProductFilter) (int64, error)

	// Page counts the filtered candidate set and loads its window from one
	// consistent snapshot. A window past the end yields no products.
	Page(ctx context.Context, filter domain.ProductFilter, order domain.SortKey, window domain.PageWindow) ([]*domain.Product, int64, error)

	// Insert assigns a fresh identity and the initial version, persists the product
	// and returns the new id. Identities are never reused.
	Insert(ctx context.Context, p *domain.Product) (int64, error)

	// Replace writes every field of p if the stored version still equals p.Version(),
	// and advances the version. A stale or missing row yields domain.ErrConcurrencyConflict.
	Replace(ctx context.Context, p *domain.Product) error

	// Remove deletes the product or fails with domain.ErrProductNotFound.
	Remove(ctx context.Context, id int64) error

	ExistsByID(ctx context.Context, id int64) (bool, error)
}
