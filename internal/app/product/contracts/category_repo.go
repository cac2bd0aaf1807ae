package contracts

import (
	"context"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// CategoryRepo is the read side of the category reference set.
type CategoryRepo interface {
	// FindByIDs resolves the given ids; ids without a category are absent from the map.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Category, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// CategorySeeder fills an empty category table at startup.
type CategorySeeder interface {
	// SeedCategories inserts the names when no category exists yet and
	// returns how many rows were written.
	SeedCategories(ctx context.Context, names []string) (int, error)
}
