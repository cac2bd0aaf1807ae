// Package usecasetest wires the mutation usecases to in-memory collaborators for tests.
package usecasetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/images"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/repo/memstore"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/shared"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/clock"
)

// Env is a seeded in-memory catalog. Categories 1..3 exist.
type Env struct {
	Store  *memstore.Store
	Images *ImageStore
	Attach *images.Attacher
	Clock  *clock.FakeClock
	Log    *logrus.Logger
	Hook   *logtest.Hook
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC))
	store := memstore.New(clk)
	_, err := store.Categories().SeedCategories(context.Background(), domain.DefaultCategories)
	require.NoError(t, err)

	log, hook := logtest.NewNullLogger()
	imgs := NewImageStore()
	return &Env{
		Store:  store,
		Images: imgs,
		Attach: images.NewAttacher(imgs, 1<<20, log),
		Clock:  clk,
		Log:    log,
		Hook:   hook,
	}
}

// Input returns a valid product input in category 1.
func Input(name string, cents int64) shared.ProductInput {
	return shared.ProductInput{
		Name:          name,
		Description:   "test product",
		Price:         domain.NewMoney(cents, 100),
		StockQuantity: 5,
		CategoryID:    1,
	}
}

// Seed inserts a product directly through the store and returns its id.
func (e *Env) Seed(t *testing.T, name string, cents int64) int64 {
	t.Helper()
	p, err := domain.NewProduct(Input(name, cents).Details(), e.Clock.Now())
	require.NoError(t, err)
	id, err := e.Store.Insert(context.Background(), p)
	require.NoError(t, err)
	return id
}

// ImageStore keeps images in memory and records every call.
type ImageStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	stores  int
	seq     int
	FailErr error
}

var _ contracts.ImageStore = (*ImageStore)(nil)

func NewImageStore() *ImageStore {
	return &ImageStore{files: map[string][]byte{}}
}

func (s *ImageStore) Store(_ context.Context, data []byte, ext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores++
	if s.FailErr != nil {
		return "", s.FailErr
	}
	s.seq++
	url := fmt.Sprintf("/images/products/%d%s", s.seq, ext)
	s.files[url] = append([]byte(nil), data...)
	return url, nil
}

func (s *ImageStore) Remove(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[url]; !ok {
		return errors.New("no such image")
	}
	delete(s.files, url)
	return nil
}

// StoreCalls is the number of Store invocations, including failed ones.
func (s *ImageStore) StoreCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores
}

// Has reports whether url is currently stored.
func (s *ImageStore) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[url]
	return ok
}

func (s *ImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// RacingRepo runs Interleave once, right before the first Replace reaches the
// wrapped repository. It simulates a writer that commits between another
// caller's read and write.
type RacingRepo struct {
	contracts.ProductRepo
	Interleave func(ctx context.Context, id int64)
	once       sync.Once
}

func (r *RacingRepo) Replace(ctx context.Context, p *domain.Product) error {
	r.once.Do(func() {
		if r.Interleave != nil {
			r.Interleave(ctx, p.ID())
		}
	})
	return r.ProductRepo.Replace(ctx, p)
}
