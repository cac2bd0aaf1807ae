package repo

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// CategoryCache is the subset of cache.Cache used for category lookups.
type CategoryCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// CachedCategoryRepo is a cache-aside decorator over a CategoryRepo.
// Only categories that exist are cached. Cache failures are logged and
// the lookup falls through to the wrapped repository.
type CachedCategoryRepo struct {
	next  contracts.CategoryRepo
	cache CategoryCache
	log   logrus.FieldLogger
	group singleflight.Group
}

var _ contracts.CategoryRepo = (*CachedCategoryRepo)(nil)

func NewCachedCategoryRepo(next contracts.CategoryRepo, cache CategoryCache, log logrus.FieldLogger) *CachedCategoryRepo {
	return &CachedCategoryRepo{next: next, cache: cache, log: log}
}

func (r *CachedCategoryRepo) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Category, error) {
	out := make(map[int64]domain.Category, len(ids))
	misses := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		var c domain.Category
		hit, err := r.cache.Get(ctx, categoryKey(id), &c)
		if err != nil {
			r.log.WithError(err).WithField("category_id", id).Warn("category cache read failed")
		}
		if hit {
			out[id] = c
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	loaded, err := r.load(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, c := range loaded {
		out[id] = c
	}
	return out, nil
}

func (r *CachedCategoryRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	found, err := r.FindByIDs(ctx, []int64{id})
	if err != nil {
		return false, err
	}
	_, ok := found[id]
	return ok, nil
}

func (r *CachedCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return r.next.List(ctx)
}

// load reads misses from the wrapped repository, collapsing identical
// concurrent lookups into one call, and fills the cache.
func (r *CachedCategoryRepo) load(ctx context.Context, ids []int64) (map[int64]domain.Category, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}

	v, err, _ := r.group.Do(strings.Join(parts, ","), func() (interface{}, error) {
		found, err := r.next.FindByIDs(ctx, sorted)
		if err != nil {
			return nil, err
		}
		for id, c := range found {
			if err := r.cache.Set(ctx, categoryKey(id), c); err != nil {
				r.log.WithError(err).WithField("category_id", id).Warn("category cache write failed")
			}
		}
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int64]domain.Category), nil
}

func categoryKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
