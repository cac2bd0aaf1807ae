package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/models/m_category"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/clock"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/committer"
)

// CategoryRepo reads the category reference set from Spanner.
type CategoryRepo struct {
	client    *spanner.Client
	committer *committer.Adapter
	clock     clock.Clock
}

var (
	_ contracts.CategoryRepo   = (*CategoryRepo)(nil)
	_ contracts.CategorySeeder = (*CategoryRepo)(nil)
)

func NewCategoryRepo(client *spanner.Client, cm *committer.Adapter, clk clock.Clock) *CategoryRepo {
	return &CategoryRepo{client: client, committer: cm, clock: clk}
}

func (r *CategoryRepo) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Category, error) {
	out := make(map[int64]domain.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	stmt := spanner.Statement{
		SQL: `SELECT category_id, name
		      FROM categories
		      WHERE category_id IN UNNEST(@ids)`,
		Params: map[string]interface{}{"ids": ids},
	}
	err := r.query(ctx, stmt, func(c domain.Category) { out[c.ID] = c })
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CategoryRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, err := r.client.Single().ReadRow(ctx, m_category.TableName, spanner.Key{id}, []string{m_category.ColCategoryID})
	if spanner.ErrCode(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read category %d: %w", id, err)
	}
	return true, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	stmt := spanner.Statement{SQL: `SELECT category_id, name FROM categories ORDER BY category_id ASC`}
	if err := r.query(ctx, stmt, func(c domain.Category) { out = append(out, c) }); err != nil {
		return nil, err
	}
	return out, nil
}

// SeedCategories inserts names in one transaction when the table is empty.
func (r *CategoryRepo) SeedCategories(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	now := r.clock.Now()
	written := 0

	plan := committer.NewPlan()
	plan.Then(func(ctx context.Context, tx *spanner.ReadWriteTransaction) ([]*spanner.Mutation, error) {
		written = 0
		iter := tx.Query(ctx, spanner.Statement{SQL: `SELECT COUNT(*) FROM categories`})
		defer iter.Stop()
		row, err := iter.Next()
		if err != nil {
			return nil, err
		}
		var n int64
		if err := row.Columns(&n); err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, nil
		}

		first, seqMut, err := allocateIDs(ctx, tx, m_category.SequenceName, int64(len(names)))
		if err != nil {
			return nil, err
		}
		muts := []*spanner.Mutation{seqMut}
		for i, name := range names {
			muts = append(muts, m_category.InsertMutation(first+int64(i), name, now))
		}
		written = len(names)
		return muts, nil
	})

	if err := r.committer.Apply(ctx, plan); err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	return written, nil
}

func (r *CategoryRepo) query(ctx context.Context, stmt spanner.Statement, fn func(domain.Category)) error {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("query categories: %w", err)
		}
		var c domain.Category
		if err := row.Columns(&c.ID, &c.Name); err != nil {
			return fmt.Errorf("decode category row: %w", err)
		}
		fn(c)
	}
}
