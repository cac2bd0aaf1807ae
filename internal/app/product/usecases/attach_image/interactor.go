package attach_image

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/images"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/shared"
)

// Request uploads a new image for an existing product.
type Request struct {
	ProductID int64
	Filename  string
	Data      []byte
}

type Interactor struct {
	ProductRepo contracts.ProductRepo
	Images      *images.Attacher
	Log         logrus.FieldLogger
}

func NewInteractor(products contracts.ProductRepo, img *images.Attacher, log logrus.FieldLogger) *Interactor {
	return &Interactor{ProductRepo: products, Images: img, Log: log}
}

// Execute returns the public path of the stored image. The upload is checked
// before anything is loaded or written, so rejected files never reach storage.
func (it *Interactor) Execute(ctx context.Context, req Request) (string, error) {
	ext, verr := it.Images.Validate(req.Filename, req.Data)
	if err := verr.ErrOrNil(); err != nil {
		return "", err
	}

	product, err := it.ProductRepo.Find(ctx, req.ProductID)
	if err != nil {
		return "", err
	}

	url, err := it.Images.Store(ctx, req.Data, ext)
	if err != nil {
		return "", err
	}
	previous := product.ImageURL()
	product.AttachImage(url)

	if err := it.ProductRepo.Replace(ctx, product); err != nil {
		it.Images.Discard(ctx, url)
		return "", shared.ResolveConflict(ctx, it.ProductRepo, req.ProductID, err)
	}

	it.Images.Discard(ctx, previous)
	it.Log.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"image_url":  url,
	}).Info("product image attached")
	return url, nil
}
