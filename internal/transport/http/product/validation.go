package product

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries/list_products"
)

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewFieldError(domain.FieldID, "id must be a positive integer")
	}
	return id, nil
}

// parseListQuery reads the listing parameters. Missing numbers are left at
// zero for the planner to default; malformed ones are rejected.
func parseListQuery(c *gin.Context) (list_products.Query, error) {
	verr := &domain.ValidationError{}
	q := list_products.Query{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}

	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add("categoryId", "categoryId must be an integer")
		} else {
			q.CategoryID = &id
		}
	}
	q.PageNumber = queryInt(c, "pageNumber", verr)
	q.PageSize = queryInt(c, "pageSize", verr)

	return q, verr.ErrOrNil()
}

func queryInt(c *gin.Context, key string, verr *domain.ValidationError) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(key, key+" must be an integer")
		return 0
	}
	return n
}
