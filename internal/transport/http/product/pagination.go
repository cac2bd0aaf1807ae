package product

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

const paginationHeader = "X-Pagination"

// setPaginationHeader mirrors the pagination object into a response header
// so clients can page without parsing the body.
func setPaginationHeader(c *gin.Context, p domain.PaginationResult) {
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.Header(paginationHeader, string(b))
}
