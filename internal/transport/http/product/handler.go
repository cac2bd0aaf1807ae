package product

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries/get_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries/list_products"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/attach_image"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/create_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/delete_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/update_product"
)

// Commands groups write interactors.
// Keep transport layer depending on application layer only.
type Commands struct {
	Create *create_product.Interactor
	Update *update_product.Interactor
	Delete *delete_product.Interactor
	Attach *attach_image.Interactor
}

// Queries groups read handlers.
type Queries struct {
	Get        *get_product.Handler
	List       *list_products.Handler
	Categories *queries.CategoryReader
}

// Handler is a thin HTTP transport adapter.
// It parses input, maps request bodies to application requests and delegates
// to the CQRS handlers.
type Handler struct {
	commands  Commands
	queries   Queries
	maxUpload int64
	log       logrus.FieldLogger
}

func NewHandler(cmd Commands, qry Queries, maxUpload int64, log logrus.FieldLogger) *Handler {
	return &Handler{commands: cmd, queries: qry, maxUpload: maxUpload, log: log}
}

// RegisterRoutes mounts the catalog API on r. Mutating routes run behind
// guard when it is non-nil.
func (h *Handler) RegisterRoutes(r gin.IRouter, guard gin.HandlerFunc) {
	api := r.Group("/api")
	api.GET("/categories", h.ListCategories)
	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)

	write := api.Group("/products")
	if guard != nil {
		write.Use(guard)
	}
	write.POST("", h.CreateProduct)
	write.PUT("/:id", h.UpdateProduct)
	write.DELETE("/:id", h.DeleteProduct)
	write.POST("/:id/image", h.AttachImage)
}

func (h *Handler) ListProducts(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	res, err := h.queries.List.Execute(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	setPaginationHeader(c, res.Pagination)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	view, err := h.queries.Get.Execute(c.Request.Context(), get_product.Query{ProductID: id})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	in, img, err := h.bindProduct(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	view, err := h.commands.Create.Execute(c.Request.Context(), create_product.Request{Input: in, Image: img})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/products/%d", view.ID))
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	in, img, err := h.bindProduct(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	view, err := h.commands.Update.Execute(c.Request.Context(), update_product.Request{
		ProductID: id,
		Input:     in,
		Image:     img,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.commands.Delete.Execute(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AttachImage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	img, err := h.readImage(c, true)
	if err != nil {
		h.writeError(c, err)
		return
	}

	url, err := h.commands.Attach.Execute(c.Request.Context(), attach_image.Request{
		ProductID: id,
		Filename:  img.Filename,
		Data:      img.Data,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{ImageURL: url})
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.queries.Categories.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cats})
}
