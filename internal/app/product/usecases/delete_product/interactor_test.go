package delete_product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/usecasetest"
)

func TestExecute_DeleteTwice(t *testing.T) {
	env := usecasetest.NewEnv(t)
	id := env.Seed(t, "Desk Lamp", 1999)
	it := NewInteractor(env.Store, env.Attach, env.Log)
	ctx := context.Background()

	require.NoError(t, it.Execute(ctx, id))
	assert.ErrorIs(t, it.Execute(ctx, id), domain.ErrProductNotFound)

	_, err := env.Store.Find(ctx, id)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestExecute_RemovesImageFile(t *testing.T) {
	env := usecasetest.NewEnv(t)
	ctx := context.Background()

	url, err := env.Images.Store(ctx, []byte("png"), ".png")
	require.NoError(t, err)
	p, err := domain.NewProduct(usecasetest.Input("Desk Lamp", 1999).Details(), env.Clock.Now())
	require.NoError(t, err)
	p.AttachImage(url)
	id, err := env.Store.Insert(ctx, p)
	require.NoError(t, err)

	require.NoError(t, NewInteractor(env.Store, env.Attach, env.Log).Execute(ctx, id))
	assert.False(t, env.Images.Has(url))
}

func TestExecute_NoResurrection(t *testing.T) {
	env := usecasetest.NewEnv(t)
	id := env.Seed(t, "Desk Lamp", 1999)
	require.NoError(t, NewInteractor(env.Store, env.Attach, env.Log).Execute(context.Background(), id))

	again := env.Seed(t, "Desk Lamp", 1999)
	assert.NotEqual(t, id, again)
}
