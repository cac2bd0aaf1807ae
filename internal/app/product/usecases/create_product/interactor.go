package create_product

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/dto"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/images"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/shared"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/clock"
)

// Request is the application-level create-product request.
type Request struct {
	Input shared.ProductInput
	// Image is optional.
	Image *shared.ImageUpload
}

// Interactor implements the create-product usecase.
type Interactor struct {
	ProductRepo  contracts.ProductRepo
	CategoryRepo contracts.CategoryRepo
	Images       *images.Attacher
	Clock        clock.Clock
	Log          logrus.FieldLogger
}

// NewInteractor constructs the interactor.
func NewInteractor(products contracts.ProductRepo, categories contracts.CategoryRepo, img *images.Attacher, clk clock.Clock, log logrus.FieldLogger) *Interactor {
	return &Interactor{
		ProductRepo:  products,
		CategoryRepo: categories,
		Images:       img,
		Clock:        clk,
		Log:          log,
	}
}

// Execute validates the request, stores the image if any, inserts the product
// and returns its hydrated view. A stored image is removed again when the
// insert fails.
func (it *Interactor) Execute(ctx context.Context, req Request) (*dto.ProductView, error) {
	// 1. Validate every field and the image before any write
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

	// 2. Build domain aggregate
	product, err := domain.NewProduct(req.Input.Details(), it.Clock.Now())
	if err != nil {
		return nil, err
	}

	// 3. Image first, so no record ever points at an unwritten file
	var imageURL string
	if req.Image != nil {
		imageURL, err = it.Images.Store(ctx, req.Image.Data, ext)
		if err != nil {
			return nil, err
		}
		product.AttachImage(imageURL)
	}

	// 4. Insert
	id, err := it.ProductRepo.Insert(ctx, product)
	if err != nil {
		it.Images.Discard(ctx, imageURL)
		return nil, err
	}

	it.Log.WithField("product_id", id).Info("product created")
	return queries.HydrateOne(ctx, it.CategoryRepo, product)
}
