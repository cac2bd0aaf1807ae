package attach_image

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/usecasetest"
)

func TestExecute_StoresAndReferencesImage(t *testing.T) {
	env := usecasetest.NewEnv(t)
	id := env.Seed(t, "Desk Lamp", 1999)
	it := NewInteractor(env.Store, env.Attach, env.Log)
	ctx := context.Background()

	url, err := it.Execute(ctx, Request{ProductID: id, Filename: "Lamp.JPG", Data: []byte("jpg")})
	require.NoError(t, err)
	assert.True(t, env.Images.Has(url))
	assert.NotContains(t, url, "Lamp")

	p, err := env.Store.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, url, p.ImageURL())
	assert.Equal(t, int64(2), p.Version())
}

func TestExecute_RejectsExecutableWithoutWriting(t *testing.T) {
	env := usecasetest.NewEnv(t)
	id := env.Seed(t, "Desk Lamp", 1999)
	it := NewInteractor(env.Store, env.Attach, env.Log)

	_, err := it.Execute(context.Background(), Request{ProductID: id, Filename: "payload.exe", Data: []byte("MZ")})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField(domain.FieldImage))
	assert.ErrorIs(t, err, domain.ErrUnsupportedImageType)
	assert.Zero(t, env.Images.StoreCalls())
}

func TestExecute_RejectsEmptyPayload(t *testing.T) {
	env := usecasetest.NewEnv(t)
	id := env.Seed(t, "Desk Lamp", 1999)

	_, err := NewInteractor(env.Store, env.Attach, env.Log).
		Execute(context.Background(), Request{ProductID: id, Filename: "a.png"})
	assert.ErrorIs(t, err, domain.ErrEmptyImage)
	assert.Zero(t, env.Images.StoreCalls())
}

func TestExecute_UnknownProduct(t *testing.T) {
	env := usecasetest.NewEnv(t)

	_, err := NewInteractor(env.Store, env.Attach, env.Log).
		Execute(context.Background(), Request{ProductID: 5, Filename: "a.png", Data: []byte("png")})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Zero(t, env.Images.StoreCalls())
}
