package repo

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/models/m_product"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/clock"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/committer"
)

// ProductRepo is the Spanner implementation of the Catalog Repository.
// Reads go through single-use read-only transactions; every write is one
// read-write transaction that also inserts the matching outbox row.
type ProductRepo struct {
	client    *spanner.Client
	committer *committer.Adapter
	clock     clock.Clock
	log       logrus.FieldLogger
}

var _ contracts.ProductRepo = (*ProductRepo)(nil)

func NewProductRepo(client *spanner.Client, cm *committer.Adapter, clk clock.Clock, log logrus.FieldLogger) *ProductRepo {
	return &ProductRepo{client: client, committer: cm, clock: clk, log: log}
}

// buildInsertValues constructs the values map used for insertion.
// It's unexported so tests in the same package can inspect the map without
// relying on spanner.Mutation internals.
func buildInsertValues(p *domain.Product, id, version int64) map[string]interface{} {
	description, imageURL := optionalColumns(p)
	return m_product.BuildInsertMap(id, p.Name(), description, p.Price().Rat(), p.StockQuantity(),
		imageURL, p.CategoryID(), p.CreatedAt().UTC(), version)
}

// buildReplaceValues constructs the full-field update map stamped with the next version.
func buildReplaceValues(p *domain.Product, version int64) map[string]interface{} {
	description, imageURL := optionalColumns(p)
	return m_product.BuildReplaceMap(p.Name(), description, p.Price().Rat(), p.StockQuantity(),
		imageURL, p.CategoryID(), version)
}

func optionalColumns(p *domain.Product) (description, imageURL *string) {
	if d := p.Description(); d != "" {
		description = &d
	}
	if u := p.ImageURL(); u != "" {
		imageURL = &u
	}
	return description, imageURL
}

func (r *ProductRepo) Find(ctx context.Context, id int64) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.AllColumns)
	if spanner.ErrCode(err) == codes.NotFound {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read product %d: %w", id, err)
	}
	return decodeProduct(row)
}

func (r *ProductRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{id}, []string{m_product.ColProductID})
	if spanner.ErrCode(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read product %d: %w", id, err)
	}
	return true, nil
}

func (r *ProductRepo) FindAll(ctx context.Context, filter domain.ProductFilter, order domain.SortKey, window domain.PageWindow) ([]*domain.Product, error) {
	// Negative or saturated offsets select no rows.
	if window.PastEnd(math.MaxInt64) {
		return []*domain.Product{}, nil
	}
	return queryProducts(ctx, r.client.Single(), buildListStatement(filter, order, window), window.Limit)
}

func (r *ProductRepo) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	return countProducts(ctx, r.client.Single(), filter)
}

// Page runs the count and the window query in one read-only transaction so
// the total always describes the set the page was cut from.
func (r *ProductRepo) Page(ctx context.Context, filter domain.ProductFilter, order domain.SortKey, window domain.PageWindow) ([]*domain.Product, int64, error) {
	tx := r.client.ReadOnlyTransaction()
	defer tx.Close()

	total, err := countProducts(ctx, tx, filter)
	if err != nil {
		return nil, 0, err
	}
	if window.PastEnd(total) {
		return []*domain.Product{}, total, nil
	}
	items, err := queryProducts(ctx, tx, buildListStatement(filter, order, window), window.Limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// snapshot is the query side shared by single-use and multi-use read-only transactions.
type snapshot interface {
	Query(ctx context.Context, stmt spanner.Statement) *spanner.RowIterator
}

func queryProducts(ctx context.Context, tx snapshot, stmt spanner.Statement, limit int) ([]*domain.Product, error) {
	iter := tx.Query(ctx, stmt)
	defer iter.Stop()

	out := make([]*domain.Product, 0, limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		p, err := decodeProduct(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
}

func countProducts(ctx context.Context, tx snapshot, filter domain.ProductFilter) (int64, error) {
	iter := tx.Query(ctx, buildCountStatement(filter))
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) Insert(ctx context.Context, p *domain.Product) (int64, error) {
	now := r.clock.Now()
	var assigned int64

	plan := committer.NewPlan()
	plan.Then(func(ctx context.Context, tx *spanner.ReadWriteTransaction) ([]*spanner.Mutation, error) {
		id, seqMut, err := allocateIDs(ctx, tx, m_product.SequenceName, 1)
		if err != nil {
			return nil, err
		}
		assigned = id

		snapshot := p.Clone()
		snapshot.MarkPersisted(id, 1)
		ev, err := NewOutboxEvent(contracts.EventProductCreated, snapshot, now)
		if err != nil {
			return nil, err
		}
		return []*spanner.Mutation{
			seqMut,
			m_product.InsertMutation(buildInsertValues(p, id, 1)),
			outboxInsertMut(ev),
		}, nil
	})

	if err := r.committer.Apply(ctx, plan); err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	p.MarkPersisted(assigned, 1)
	r.log.WithField("product_id", assigned).Debug("product inserted")
	return assigned, nil
}

func (r *ProductRepo) Replace(ctx context.Context, p *domain.Product) error {
	now := r.clock.Now()
	id, expected := p.ID(), p.Version()
	next := expected + 1

	plan := committer.NewPlan()
	plan.Then(func(ctx context.Context, tx *spanner.ReadWriteTransaction) ([]*spanner.Mutation, error) {
		row, err := tx.ReadRow(ctx, m_product.TableName, spanner.Key{id}, []string{m_product.ColVersion})
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrConcurrencyConflict)
		}
		if err != nil {
			return nil, err
		}
		var stored int64
		if err := row.Column(0, &stored); err != nil {
			return nil, err
		}
		if stored != expected {
			return nil, fmt.Errorf("product %d: stored version %d, read version %d: %w", id, stored, expected, domain.ErrConcurrencyConflict)
		}

		snapshot := p.Clone()
		snapshot.MarkPersisted(id, next)
		ev, err := NewOutboxEvent(contracts.EventProductUpdated, snapshot, now)
		if err != nil {
			return nil, err
		}
		return []*spanner.Mutation{
			m_product.UpdateMutation(id, buildReplaceValues(p, next)),
			outboxInsertMut(ev),
		}, nil
	})

	if err := r.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("replace product %d: %w", id, err)
	}
	p.MarkPersisted(id, next)
	return nil
}

func (r *ProductRepo) Remove(ctx context.Context, id int64) error {
	now := r.clock.Now()

	plan := committer.NewPlan()
	plan.Then(func(ctx context.Context, tx *spanner.ReadWriteTransaction) ([]*spanner.Mutation, error) {
		row, err := tx.ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.AllColumns)
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
		}
		if err != nil {
			return nil, err
		}
		p, err := decodeProduct(row)
		if err != nil {
			return nil, err
		}
		ev, err := NewOutboxEvent(contracts.EventProductDeleted, p, now)
		if err != nil {
			return nil, err
		}
		return []*spanner.Mutation{outboxInsertMut(ev)}, nil
	})
	// The delete only commits when the step above found the row.
	plan.Add(m_product.DeleteMutation(id))

	if err := r.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("remove product %d: %w", id, err)
	}
	return nil
}

func decodeProduct(row *spanner.Row) (*domain.Product, error) {
	var (
		id          int64
		name        string
		description spanner.NullString
		price       big.Rat
		stock       int64
		imageURL    spanner.NullString
		categoryID  int64
		createdAt   time.Time
		version     int64
	)
	if err := row.Columns(&id, &name, &description, &price, &stock, &imageURL, &categoryID, &createdAt, &version); err != nil {
		return nil, fmt.Errorf("decode product row: %w", err)
	}
	return domain.ReconstructProduct(id, name, description.StringVal, domain.NewMoneyFromRat(&price),
		stock, imageURL.StringVal, categoryID, createdAt.UTC(), version), nil
}

// whereClause renders the candidate-set predicate and its parameters.
func whereClause(filter domain.ProductFilter) (string, map[string]interface{}) {
	conds := make([]string, 0, 2)
	params := map[string]interface{}{}
	if filter.CategoryID != nil {
		conds = append(conds, "category_id = @categoryId")
		params["categoryId"] = *filter.CategoryID
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		conds = append(conds, "STRPOS(LOWER(name), @search) > 0")
		params["search"] = strings.ToLower(s)
	}
	if len(conds) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}

func orderClause(order domain.SortKey) string {
	switch order {
	case domain.SortByPriceAsc:
		return " ORDER BY price ASC, product_id ASC"
	case domain.SortByPriceDesc:
		return " ORDER BY price DESC, product_id ASC"
	default:
		return " ORDER BY name ASC, product_id ASC"
	}
}

func buildListStatement(filter domain.ProductFilter, order domain.SortKey, window domain.PageWindow) spanner.Statement {
	where, params := whereClause(filter)
	sql := "SELECT " + strings.Join(m_product.AllColumns, ", ") + " FROM " + m_product.TableName +
		where + orderClause(order) + " LIMIT @limit OFFSET @offset"
	params["limit"] = int64(window.Limit)
	params["offset"] = int64(window.Offset)
	return spanner.Statement{SQL: sql, Params: params}
}

func buildCountStatement(filter domain.ProductFilter) spanner.Statement {
	where, params := whereClause(filter)
	return spanner.Statement{SQL: "SELECT COUNT(*) FROM " + m_product.TableName + where, Params: params}
}
