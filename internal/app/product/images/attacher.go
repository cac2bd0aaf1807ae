package images

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// Attacher validates uploads and hands them to an ImageStore.
type Attacher struct {
	store    contracts.ImageStore
	maxBytes int64
	log      logrus.FieldLogger
}

func NewAttacher(store contracts.ImageStore, maxBytes int64, log logrus.FieldLogger) *Attacher {
	return &Attacher{store: store, maxBytes: maxBytes, log: log}
}

// Validate checks an upload without touching storage. Failures are
// reported as a ValidationError on the image field.
func (a *Attacher) Validate(filename string, data []byte) (string, *domain.ValidationError) {
	ext, err := ValidateUpload(filename, data, a.maxBytes)
	if err == nil {
		return ext, nil
	}
	switch {
	case errors.Is(err, domain.ErrUnsupportedImageType):
		return "", domain.WrapFieldError(domain.FieldImage, "only .jpg, .jpeg or .png files are accepted", err)
	case errors.Is(err, domain.ErrEmptyImage):
		return "", domain.WrapFieldError(domain.FieldImage, "image is empty", err)
	case errors.Is(err, domain.ErrImageTooLarge):
		return "", domain.WrapFieldError(domain.FieldImage, "image exceeds the upload size limit", err)
	}
	return "", domain.WrapFieldError(domain.FieldImage, "invalid image", err)
}

// Store persists an upload that already passed Validate.
func (a *Attacher) Store(ctx context.Context, data []byte, ext string) (string, error) {
	url, err := a.store.Store(ctx, data, ext)
	if err != nil {
		return "", err
	}
	a.log.WithField("image_url", url).Debug("image stored")
	return url, nil
}

// Discard removes an image whose product write did not commit.
func (a *Attacher) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := a.store.Remove(context.WithoutCancel(ctx), url); err != nil {
		a.log.WithError(err).WithField("image_url", url).Warn("failed to remove orphaned image")
	}
}
