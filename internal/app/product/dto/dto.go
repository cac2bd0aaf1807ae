package dto

import (
	"time"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// ProductView is a product hydrated with its category's display name,
// ready for serialization.
type ProductView struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	StockQuantity int64     `json:"stockQuantity"`
	ImageURL      *string   `json:"imageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	CategoryID    int64     `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	Version       int64     `json:"version"`
}

// ListResult is one page of a listing plus its position in the candidate set.
type ListResult struct {
	Items      []*ProductView          `json:"items"`
	Pagination domain.PaginationResult `json:"pagination"`
}

// NewProductView builds the view of p. An empty categoryName becomes domain.NoCategoryLabel.
func NewProductView(p *domain.Product, categoryName string) *ProductView {
	if categoryName == "" {
		categoryName = domain.NoCategoryLabel
	}
	v := &ProductView{
		ID:            p.ID(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         p.Price().String(),
		StockQuantity: p.StockQuantity(),
		CreatedAt:     p.CreatedAt().UTC(),
		CategoryID:    p.CategoryID(),
		CategoryName:  categoryName,
		Version:       p.Version(),
	}
	if url := p.ImageURL(); url != "" {
		v.ImageURL = &url
	}
	return v
}
