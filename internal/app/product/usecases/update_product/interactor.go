package update_product

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/dto"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/images"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/shared"
)

// Request replaces every caller-controlled field of one product.
type Request struct {
	ProductID int64
	Input     shared.ProductInput
	// Image replaces the image reference when set; otherwise it is kept.
	Image *shared.ImageUpload
}

// Interactor applies full-field updates guarded by the product version.
type Interactor struct {
	ProductRepo  contracts.ProductRepo
	CategoryRepo contracts.CategoryRepo
	Images       *images.Attacher
	Log          logrus.FieldLogger
}

func NewInteractor(products contracts.ProductRepo, categories contracts.CategoryRepo, img *images.Attacher, log logrus.FieldLogger) *Interactor {
	return &Interactor{
		ProductRepo:  products,
		CategoryRepo: categories,
		Images:       img,
		Log:          log,
	}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*dto.ProductView, error) {
	// 1. Path and body must address the same product
	if req.Input.ID != nil && *req.Input.ID != req.ProductID {
		return nil, fmt.Errorf("path id %d, body id %d: %w", req.ProductID, *req.Input.ID, domain.ErrIdentityMismatch)
	}

	// 2. Load aggregate; the version read here guards the write
	product, err := it.ProductRepo.Find(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// 3. Validate
	verr, err := shared.ValidateInput(ctx, it.CategoryRepo, req.Input)
	if err != nil {
		return nil, err
	}
	var ext string
	if req.Image != nil {
		var imgErr *domain.ValidationError
		ext, imgErr = it.Images.Validate(req.Image.Filename, req.Image.Data)
		verr.Merge(imgErr)
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	// 4. Domain method
	if err := product.Replace(req.Input.Details()); err != nil {
		return nil, err
	}
	var imageURL, previous string
	if req.Image != nil {
		imageURL, err = it.Images.Store(ctx, req.Image.Data, ext)
		if err != nil {
			return nil, err
		}
		previous = product.ImageURL()
		product.AttachImage(imageURL)
	}

	// 5. Version-checked write
	if err := it.ProductRepo.Replace(ctx, product); err != nil {
		it.Images.Discard(ctx, imageURL)
		return nil, shared.ResolveConflict(ctx, it.ProductRepo, req.ProductID, err)
	}

	if imageURL != "" {
		it.Images.Discard(ctx, previous)
	}
	it.Log.WithFields(logrus.Fields{
		"product_id": product.ID(),
		"version":    product.Version(),
	}).Info("product updated")
	return queries.HydrateOne(ctx, it.CategoryRepo, product)
}
