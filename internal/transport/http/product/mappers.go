package product

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/shared"
)

const (
	productFormField = "product"
	imageFormField   = "image"
)

// Decimal exponents outside this window never describe a valid price, and
// converting them to a rational would expand a huge power of ten.
const (
	minPriceExponent = -10
	maxPriceExponent = 10
)

// ProductRequest is the JSON body of create and update.
type ProductRequest struct {
	ID            *int64           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int64            `json:"stockQuantity"`
	CategoryID    int64            `json:"categoryId"`
}

func (r ProductRequest) toInput() (shared.ProductInput, error) {
	in := shared.ProductInput{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		StockQuantity: r.StockQuantity,
		CategoryID:    r.CategoryID,
	}
	if r.Price != nil {
		price, err := priceFromDecimal(*r.Price)
		if err != nil {
			return shared.ProductInput{}, err
		}
		in.Price = price
	}
	return in, nil
}

func priceFromDecimal(d decimal.Decimal) (*domain.Money, error) {
	if exp := d.Exponent(); exp < minPriceExponent || exp > maxPriceExponent {
		return nil, domain.NewFieldError(domain.FieldPrice, "price must be between 0.01 and 10000.00 with at most two decimal places")
	}
	return domain.NewMoneyFromRat(d.Rat()), nil
}

// ImageResponse is returned by the image upload endpoint.
type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bindProduct reads a product body either as JSON or as a multipart form. A
// multipart form carries the JSON in the "product" field, or the fields one by
// one, plus an optional "image" file.
func (h *Handler) bindProduct(c *gin.Context) (shared.ProductInput, *shared.ImageUpload, error) {
	if !isMultipart(c) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return shared.ProductInput{}, nil, malformedBody(err)
		}
		in, err := req.toInput()
		return in, nil, err
	}

	var req ProductRequest
	if raw := c.PostForm(productFormField); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return shared.ProductInput{}, nil, malformedBody(err)
		}
	} else {
		var err error
		if req, err = productFromForm(c); err != nil {
			return shared.ProductInput{}, nil, err
		}
	}

	in, err := req.toInput()
	if err != nil {
		return shared.ProductInput{}, nil, err
	}
	img, err := h.readImage(c, false)
	if err != nil {
		return shared.ProductInput{}, nil, err
	}
	return in, img, nil
}

func productFromForm(c *gin.Context) (ProductRequest, error) {
	verr := &domain.ValidationError{}
	req := ProductRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}

	if raw := strings.TrimSpace(c.PostForm("id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add(domain.FieldID, "id must be an integer")
		} else {
			req.ID = &id
		}
	}
	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add(domain.FieldPrice, "price must be a decimal number")
		} else {
			req.Price = &d
		}
	}
	req.StockQuantity = formInt(c, "stockQuantity", domain.FieldStockQuantity, verr)
	req.CategoryID = formInt(c, "categoryId", domain.FieldCategoryID, verr)

	return req, verr.ErrOrNil()
}

func formInt(c *gin.Context, key, field string, verr *domain.ValidationError) int64 {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		verr.Add(field, key+" must be an integer")
		return 0
	}
	return n
}

// readImage loads the "image" file of a multipart request. Reading stops one
// byte past the upload limit so oversize files are detected without buffering
// them whole.
func (h *Handler) readImage(c *gin.Context, required bool) (*shared.ImageUpload, error) {
	fh, err := c.FormFile(imageFormField)
	if err != nil {
		if required {
			return nil, domain.NewFieldError(domain.FieldImage, "image file is required")
		}
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	limit := h.maxUpload
	if limit <= 0 {
		limit = fh.Size
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &shared.ImageUpload{Filename: fh.Filename, Data: data}, nil
}

func malformedBody(err error) error {
	return domain.NewFieldError("body", "malformed request body: "+err.Error())
}
