package delete_product

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/images"
)

type Interactor struct {
	ProductRepo contracts.ProductRepo
	Images      *images.Attacher
	Log         logrus.FieldLogger
}

func NewInteractor(products contracts.ProductRepo, img *images.Attacher, log logrus.FieldLogger) *Interactor {
	return &Interactor{ProductRepo: products, Images: img, Log: log}
}

// Execute removes the product and then its image file. An absent id fails
// with domain.ErrProductNotFound, also on a repeated delete.
func (it *Interactor) Execute(ctx context.Context, productID int64) error {
	product, err := it.ProductRepo.Find(ctx, productID)
	if err != nil {
		return err
	}
	if err := it.ProductRepo.Remove(ctx, productID); err != nil {
		return err
	}

	it.Images.Discard(ctx, product.ImageURL())
	it.Log.WithField("product_id", productID).Info("product deleted")
	return nil
}
