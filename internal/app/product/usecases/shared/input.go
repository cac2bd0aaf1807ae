package shared

import (
	"context"
	"errors"
	"fmt"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// ProductInput is the caller-supplied body of a create or update.
type ProductInput struct {
	// ID is the identity carried by an update body. Nil when the caller
	// only addresses the product by path.
	ID            *int64
	Name          string
	Description   string
	Price         *domain.Money
	StockQuantity int64
	CategoryID    int64
}

func (in ProductInput) Details() domain.ProductDetails {
	return domain.ProductDetails{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		CategoryID:    in.CategoryID,
	}
}

// ImageUpload is an image sent together with a mutation.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ValidateInput collects every field violation of in, including a category
// id that does not resolve. The returned error is reserved for lookup failures.
func ValidateInput(ctx context.Context, categories contracts.CategoryRepo, in ProductInput) (*domain.ValidationError, error) {
	verr := domain.ValidateDetails(in.Details())
	if verr.HasField(domain.FieldCategoryID) {
		return verr, nil
	}

	ok, err := categories.ExistsByID(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("check category %d: %w", in.CategoryID, err)
	}
	if !ok {
		verr.Merge(domain.WrapFieldError(domain.FieldCategoryID,
			fmt.Sprintf("category %d does not exist", in.CategoryID), domain.ErrCategoryNotFound))
	}
	return verr, nil
}

// ResolveConflict turns a lost optimistic-concurrency race on id into
// ErrProductNotFound when the product was deleted in the meantime.
func ResolveConflict(ctx context.Context, products contracts.ProductRepo, id int64, err error) error {
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		return err
	}
	exists, lookupErr := products.ExistsByID(ctx, id)
	if lookupErr != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return err
}
