package images

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantExt  string
		wantErr  error
	}{
		{name: "jpg", filename: "photo.jpg", data: []byte{1}, wantExt: ".jpg"},
		{name: "upper case png", filename: "PHOTO.PNG", data: []byte{1}, wantExt: ".png"},
		{name: "jpeg", filename: "a.b.JpEg", data: []byte{1}, wantExt: ".jpeg"},
		{name: "executable", filename: "payload.exe", data: []byte{1}, wantErr: domain.ErrUnsupportedImageType},
		{name: "no extension", filename: "photo", data: []byte{1}, wantErr: domain.ErrUnsupportedImageType},
		{name: "gif", filename: "anim.gif", data: []byte{1}, wantErr: domain.ErrUnsupportedImageType},
		{name: "empty", filename: "photo.png", data: nil, wantErr: domain.ErrEmptyImage},
		{name: "too large", filename: "photo.png", data: make([]byte, 11), wantErr: domain.ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := ValidateUpload(tt.filename, tt.data, 10)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestDiskStore_StoreAndRemove(t *testing.T) {
	root := filepath.Join(t.TempDir(), "images", "products")
	s, err := NewDiskStore(root, "/images/products/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Store(ctx, []byte("png-bytes"), ".PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/images/products/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(root, path.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	other, err := s.Store(ctx, []byte("png-bytes"), ".png")
	require.NoError(t, err)
	assert.NotEqual(t, url, other, "every upload gets its own name")

	require.NoError(t, s.Remove(ctx, url))
	_, err = os.Stat(filepath.Join(root, path.Base(url)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(ctx, url), "removing twice is a no-op")
	assert.Error(t, s.Remove(ctx, "/etc/passwd"))
}

func TestDiskStore_WriteFailureIsStorageError(t *testing.T) {
	root := t.TempDir()
	s, err := NewDiskStore(root, "/images/products")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(root))

	_, err = s.Store(context.Background(), []byte("x"), ".jpg")
	assert.ErrorIs(t, err, domain.ErrStorage)
}
