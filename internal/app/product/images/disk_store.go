// Package images stores product images on the local filesystem.
package images

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// allowedExtensions is the set of accepted upload extensions, lowercased.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ValidateUpload checks an upload before anything is written. It returns the
// normalized extension to store the image under.
func ValidateUpload(filename string, data []byte, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%q: %w", filename, domain.ErrUnsupportedImageType)
	}
	if len(data) == 0 {
		return "", domain.ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%d bytes over limit %d: %w", len(data), maxBytes, domain.ErrImageTooLarge)
	}
	return ext, nil
}

// DiskStore writes images under a root directory and serves them from urlPrefix.
// File names are random so client-supplied names never reach the filesystem.
type DiskStore struct {
	root      string
	urlPrefix string
}

var _ contracts.ImageStore = (*DiskStore)(nil)

func NewDiskStore(root, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir %s: %w", root, err)
	}
	return &DiskStore{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *DiskStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.New().String() + strings.ToLower(ext)
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %v: %w", name, err, domain.ErrStorage)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes the file behind url. Missing files are not an error.
func (s *DiskStore) Remove(_ context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || !strings.HasPrefix(url, s.urlPrefix+"/") {
		return fmt.Errorf("image url %q outside %s", url, s.urlPrefix)
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image %s: %v: %w", name, err, domain.ErrStorage)
	}
	return nil
}
