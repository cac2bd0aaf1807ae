// Package memstore is an in-process Catalog Repository used for local runs and tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/repo"
	"github.com/murkotick/ecommerce-catalog/internal/pkg/clock"
)

// Store keeps products, categories and outbox events in memory.
// Every method is safe for concurrent use; records are cloned on the way
// in and out so callers never share state with the store.
type Store struct {
	mu sync.RWMutex

	clock clock.Clock

	products       map[int64]*domain.Product
	nextProductID  int64
	categories     map[int64]domain.Category
	nextCategoryID int64
	outbox         []contracts.OutboxEvent
}

var (
	_ contracts.ProductRepo    = (*Store)(nil)
	_ contracts.CategoryRepo   = (*Categories)(nil)
	_ contracts.CategorySeeder = (*Categories)(nil)
)

func New(clk clock.Clock) *Store {
	return &Store{
		clock:          clk,
		products:       make(map[int64]*domain.Product),
		nextProductID:  1,
		categories:     make(map[int64]domain.Category),
		nextCategoryID: 1,
	}
}

func (s *Store) Find(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return p.Clone(), nil
}

func (s *Store) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.products[id]
	return ok, nil
}

func (s *Store) FindAll(ctx context.Context, filter domain.ProductFilter, order domain.SortKey, window domain.PageWindow) ([]*domain.Product, error) {
	page, _, err := s.Page(ctx, filter, order, window)
	return page, err
}

func (s *Store) Page(_ context.Context, filter domain.ProductFilter, order domain.SortKey, window domain.PageWindow) ([]*domain.Product, int64, error) {
	s.mu.RLock()
	matched := s.match(filter)
	s.mu.RUnlock()

	sortProducts(matched, order)
	return cut(matched, window), int64(len(matched)), nil
}

// cut returns the window of sorted. Offsets past the end, and negative ones,
// yield an empty page.
func cut(sorted []*domain.Product, window domain.PageWindow) []*domain.Product {
	if window.PastEnd(int64(len(sorted))) {
		return []*domain.Product{}
	}
	end := len(sorted)
	if window.Limit > 0 && window.Limit < end-window.Offset {
		end = window.Offset + window.Limit
	}
	return sorted[window.Offset:end]
}

func (s *Store) Count(_ context.Context, filter domain.ProductFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(filter))), nil
}

func (s *Store) Insert(_ context.Context, p *domain.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextProductID
	stored := p.Clone()
	stored.MarkPersisted(id, 1)
	if err := s.record(contracts.EventProductCreated, stored); err != nil {
		return 0, err
	}

	s.nextProductID++
	s.products[id] = stored
	p.MarkPersisted(id, 1)
	return id, nil
}

func (s *Store) Replace(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[p.ID()]
	if !ok {
		return fmt.Errorf("product %d: %w", p.ID(), domain.ErrConcurrencyConflict)
	}
	if current.Version() != p.Version() {
		return fmt.Errorf("product %d: stored version %d, read version %d: %w",
			p.ID(), current.Version(), p.Version(), domain.ErrConcurrencyConflict)
	}

	next := p.Version() + 1
	stored := p.Clone()
	stored.MarkPersisted(p.ID(), next)
	if err := s.record(contracts.EventProductUpdated, stored); err != nil {
		return err
	}

	s.products[p.ID()] = stored
	p.MarkPersisted(p.ID(), next)
	return nil
}

func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	if err := s.record(contracts.EventProductDeleted, current); err != nil {
		return err
	}
	delete(s.products, id)
	return nil
}

// Outbox returns a copy of every event recorded so far, oldest first.
func (s *Store) Outbox() []contracts.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contracts.OutboxEvent, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// Categories is the category side of a Store.
type Categories struct {
	s *Store
}

// Categories returns the CategoryRepo view sharing s's state.
func (s *Store) Categories() *Categories {
	return &Categories{s: s}
}

func (c *Categories) FindByIDs(_ context.Context, ids []int64) (map[int64]domain.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	out := make(map[int64]domain.Category, len(ids))
	for _, id := range ids {
		if cat, ok := c.s.categories[id]; ok {
			out[id] = cat
		}
	}
	return out, nil
}

func (c *Categories) ExistsByID(_ context.Context, id int64) (bool, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	_, ok := c.s.categories[id]
	return ok, nil
}

func (c *Categories) List(_ context.Context) ([]domain.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	out := make([]domain.Category, 0, len(c.s.categories))
	for _, cat := range c.s.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SeedCategories inserts names when no category exists yet.
func (c *Categories) SeedCategories(_ context.Context, names []string) (int, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if len(c.s.categories) > 0 {
		return 0, nil
	}
	for _, name := range names {
		id := c.s.nextCategoryID
		c.s.nextCategoryID++
		c.s.categories[id] = domain.Category{ID: id, Name: name}
	}
	return len(names), nil
}

// match returns clones of every product passing filter. Callers hold mu.
func (s *Store) match(filter domain.ProductFilter) []*domain.Product {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.CategoryID != nil && p.CategoryID() != *filter.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name()), search) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// record appends the outbox event for a mutation. Callers hold mu.
func (s *Store) record(eventType string, p *domain.Product) error {
	ev, err := repo.NewOutboxEvent(eventType, p, s.clock.Now())
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, *ev)
	return nil
}

func sortProducts(ps []*domain.Product, order domain.SortKey) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		switch order {
		case domain.SortByPriceAsc:
			if c := a.Price().Cmp(b.Price()); c != 0 {
				return c < 0
			}
		case domain.SortByPriceDesc:
			if c := a.Price().Cmp(b.Price()); c != 0 {
				return c > 0
			}
		default:
			if a.Name() != b.Name() {
				return a.Name() < b.Name()
			}
		}
		return a.ID() < b.ID()
	})
}
