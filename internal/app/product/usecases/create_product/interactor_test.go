package create_product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/shared"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/usecasetest"
)

func newInteractor(env *usecasetest.Env) *Interactor {
	return NewInteractor(env.Store, env.Store.Categories(), env.Attach, env.Clock, env.Log)
}

func TestExecute_CreatesAndHydrates(t *testing.T) {
	env := usecasetest.NewEnv(t)
	it := newInteractor(env)

	view, err := it.Execute(context.Background(), Request{Input: usecasetest.Input("  Mechanical Keyboard ", 8999)})
	require.NoError(t, err)

	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, "Mechanical Keyboard", view.Name)
	assert.Equal(t, "89.99", view.Price)
	assert.Equal(t, "Electronics", view.CategoryName)
	assert.Equal(t, env.Clock.Now(), view.CreatedAt)
	assert.Equal(t, int64(1), view.Version)
	assert.Nil(t, view.ImageURL)

	stored, err := env.Store.Find(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", stored.Name())
}

func TestExecute_ZeroPriceIsRejected(t *testing.T) {
	env := usecasetest.NewEnv(t)
	it := newInteractor(env)

	_, err := it.Execute(context.Background(), Request{Input: usecasetest.Input("Freebie", 0)})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField(domain.FieldPrice))
	assert.Len(t, verr.Fields, 1)

	n, err := env.Store.Count(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExecute_ReportsEveryViolatedField(t *testing.T) {
	env := usecasetest.NewEnv(t)
	it := newInteractor(env)

	in := shared.ProductInput{
		Name:          "ab",
		Price:         domain.NewMoney(1000001, 100),
		StockQuantity: -1,
		CategoryID:    42,
	}
	_, err := it.Execute(context.Background(), Request{
		Input: in,
		Image: &shared.ImageUpload{Filename: "payload.exe", Data: []byte("MZ")},
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{
		domain.FieldName, domain.FieldPrice, domain.FieldStockQuantity, domain.FieldCategoryID, domain.FieldImage,
	} {
		assert.True(t, verr.HasField(field), "missing violation for %s", field)
	}
	assert.Zero(t, env.Images.StoreCalls())
}

func TestExecute_WithImage(t *testing.T) {
	env := usecasetest.NewEnv(t)
	it := newInteractor(env)

	view, err := it.Execute(context.Background(), Request{
		Input: usecasetest.Input("Wireless Mouse", 2550),
		Image: &shared.ImageUpload{Filename: "mouse.PNG", Data: []byte("png")},
	})
	require.NoError(t, err)
	require.NotNil(t, view.ImageURL)
	assert.True(t, env.Images.Has(*view.ImageURL))
	assert.Contains(t, *view.ImageURL, ".png")
}

func TestExecute_ImageStorageFailureSurfaces(t *testing.T) {
	env := usecasetest.NewEnv(t)
	env.Images.FailErr = errors.Join(domain.ErrStorage, errors.New("disk full"))
	it := newInteractor(env)

	_, err := it.Execute(context.Background(), Request{
		Input: usecasetest.Input("Wireless Mouse", 2550),
		Image: &shared.ImageUpload{Filename: "mouse.png", Data: []byte("png")},
	})
	assert.ErrorIs(t, err, domain.ErrStorage)

	n, err := env.Store.Count(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "no record may reference an image that was not written")
}
