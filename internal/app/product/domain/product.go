package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field names reported in validation errors.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldStockQuantity = "stockQuantity"
	FieldCategoryID    = "categoryId"
	FieldImage         = "image"
)

// Product constraints.
const (
	MinProductNameLength = 3
	MaxProductNameLength = 100
)

var (
	MinProductPrice = NewMoney(1, 100)
	MaxProductPrice = NewMoney(10000, 1)
)

// ProductDetails is the set of caller-controlled product attributes.
// Create uses it to build a product, update replaces every field with it.
type ProductDetails struct {
	Name          string
	Description   string
	Price         *Money
	StockQuantity int64
	CategoryID    int64
}

// Product is the aggregate root for the catalog domain.
// Identity and creation time are assigned once and never change.
type Product struct {
	id            int64
	name          string
	description   string
	price         *Money
	stockQuantity int64
	imageURL      string
	categoryID    int64
	createdAt     time.Time
	version       int64
}

// NewProduct validates the details and creates a product that has not been persisted yet.
// The identity and version are assigned by the repository on insert.
func NewProduct(d ProductDetails, now time.Time) (*Product, error) {
	if err := ValidateDetails(d).ErrOrNil(); err != nil {
		return nil, err
	}

	return &Product{
		name:          strings.TrimSpace(d.Name),
		description:   strings.TrimSpace(d.Description),
		price:         d.Price,
		stockQuantity: d.StockQuantity,
		categoryID:    d.CategoryID,
		createdAt:     now.UTC(),
	}, nil
}

// ReconstructProduct reconstructs a Product from persisted state.
// Used by repositories when loading from the database.
func ReconstructProduct(
	id int64,
	name, description string,
	price *Money,
	stockQuantity int64,
	imageURL string,
	categoryID int64,
	createdAt time.Time,
	version int64,
) *Product {
	return &Product{
		id:            id,
		name:          name,
		description:   description,
		price:         price,
		stockQuantity: stockQuantity,
		imageURL:      imageURL,
		categoryID:    categoryID,
		createdAt:     createdAt,
		version:       version,
	}
}

// Getters

func (p *Product) ID() int64 {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Description() string {
	return p.description
}

func (p *Product) Price() *Money {
	return p.price
}

func (p *Product) StockQuantity() int64 {
	return p.stockQuantity
}

func (p *Product) ImageURL() string {
	return p.imageURL
}

func (p *Product) CategoryID() int64 {
	return p.categoryID
}

func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

// Version is the token read together with the product. Replace compares it
// with the stored token to detect concurrent writers.
func (p *Product) Version() int64 {
	return p.version
}

// Business Methods

// Replace overwrites every caller-controlled field. Identity, creation time
// and image reference are kept.
func (p *Product) Replace(d ProductDetails) error {
	if err := ValidateDetails(d).ErrOrNil(); err != nil {
		return err
	}

	p.name = strings.TrimSpace(d.Name)
	p.description = strings.TrimSpace(d.Description)
	p.price = d.Price
	p.stockQuantity = d.StockQuantity
	p.categoryID = d.CategoryID
	return nil
}

// AttachImage points the product at a stored image.
func (p *Product) AttachImage(url string) {
	p.imageURL = url
}

// MarkPersisted records the identity and version assigned by a successful write.
func (p *Product) MarkPersisted(id, version int64) {
	p.id = id
	p.version = version
}

// Clone returns an independent copy. Money is immutable and may be shared.
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// ValidateDetails checks every field constraint and reports all violations at once.
// Category existence is a repository concern and is checked by the caller.
func ValidateDetails(d ProductDetails) *ValidationError {
	verr := &ValidationError{}

	name := strings.TrimSpace(d.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		verr.Add(FieldName, "name is required")
	case n < MinProductNameLength || n > MaxProductNameLength:
		verr.Add(FieldName, "name must be between 3 and 100 characters")
	}

	switch {
	case d.Price == nil:
		verr.Add(FieldPrice, "price is required")
	case d.Price.LessThan(MinProductPrice) || d.Price.GreaterThan(MaxProductPrice):
		verr.Add(FieldPrice, "price must be between 0.01 and 10000.00")
	case !d.Price.HasCents():
		verr.Add(FieldPrice, "price must have at most two decimal places")
	}

	if d.StockQuantity < 0 {
		verr.Add(FieldStockQuantity, "stock quantity cannot be negative")
	}

	if d.CategoryID <= 0 {
		verr.Add(FieldCategoryID, "category id is required")
	}

	return verr
}
