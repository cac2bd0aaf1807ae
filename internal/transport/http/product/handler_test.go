package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/dto"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries/get_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/queries/list_products"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/attach_image"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/create_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/delete_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/update_product"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/usecases/usecasetest"
	"github.com/murkotick/ecommerce-catalog/internal/transport/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	env    *usecasetest.Env
	router *gin.Engine
}

func newServer(t *testing.T, guard gin.HandlerFunc) *server {
	t.Helper()
	env := usecasetest.NewEnv(t)
	cats := env.Store.Categories()

	h := NewHandler(
		Commands{
			Create: create_product.NewInteractor(env.Store, cats, env.Attach, env.Clock, env.Log),
			Update: update_product.NewInteractor(env.Store, cats, env.Attach, env.Log),
			Delete: delete_product.NewInteractor(env.Store, env.Attach, env.Log),
			Attach: attach_image.NewInteractor(env.Store, env.Attach, env.Log),
		},
		Queries{
			Get:        get_product.NewHandler(env.Store, cats),
			List:       list_products.NewHandler(env.Store, cats),
			Categories: queries.NewCategoryReader(cats),
		},
		1<<20,
		env.Log,
	)

	r := gin.New()
	h.RegisterRoutes(r, guard)
	return &server{env: env, router: r}
}

func (s *server) do(t *testing.T, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	return s.do(t, method, path, "application/json", []byte(body))
}

func multipartBody(t *testing.T, fields map[string]string, filename string, file []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(imageFormField, filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListProducts_PaginationHeaderAndBody(t *testing.T) {
	s := newServer(t, nil)
	for i := 1; i <= 12; i++ {
		s.env.Seed(t, fmt.Sprintf("Item %02d", i), int64(100*i))
	}

	w := s.do(t, http.MethodGet, "/api/products?pageNumber=3&pageSize=5&sort=name", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res dto.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Item 11", res.Items[0].Name)
	assert.Equal(t, domain.PaginationResult{CurrentPage: 3, PageSize: 5, TotalItems: 12, TotalPages: 3}, res.Pagination)

	var header domain.PaginationResult
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("X-Pagination")), &header))
	assert.Equal(t, res.Pagination, header)
}

func TestListProducts_HugePageNumber(t *testing.T) {
	s := newServer(t, nil)
	for i := 1; i <= 12; i++ {
		s.env.Seed(t, fmt.Sprintf("Item %02d", i), int64(100*i))
	}

	for _, page := range []string{"1844674407370955163", "2305843009213693953", "9223372036854775807"} {
		w := s.do(t, http.MethodGet, "/api/products?pageSize=5&pageNumber="+page, "", nil)
		require.Equal(t, http.StatusOK, w.Code, page)

		var res dto.ListResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Empty(t, res.Items, page)
		assert.Equal(t, int64(12), res.Pagination.TotalItems)
	}
}

func TestListProducts_MalformedParameters(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/products?pageSize=ten&categoryId=x", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "categoryId", resp.Fields[0].Field)
	assert.Equal(t, "pageSize", resp.Fields[1].Field)
}

func TestCreateProduct_JSON(t *testing.T) {
	s := newServer(t, nil)

	w := s.doJSON(t, http.MethodPost, "/api/products",
		`{"name":"Mechanical Keyboard","description":"RGB","price":"89.99","stockQuantity":10,"categoryId":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/products/1", w.Header().Get("Location"))

	var view dto.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "89.99", view.Price)
	assert.Equal(t, "Electronics", view.CategoryName)

	w = s.do(t, http.MethodGet, "/api/products/1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateProduct_ZeroPrice(t *testing.T) {
	s := newServer(t, nil)

	w := s.doJSON(t, http.MethodPost, "/api/products", `{"name":"Freebie","price":0.00,"stockQuantity":1,"categoryId":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, domain.FieldPrice, resp.Fields[0].Field)
}

func TestProductRequest_ExtremePriceExponents(t *testing.T) {
	for _, raw := range []string{`1e-90000000`, `1e90000000`, `"0.000000000001"`} {
		t.Run(raw, func(t *testing.T) {
			var req ProductRequest
			require.NoError(t, json.Unmarshal([]byte(`{"name":"Lamp","price":`+raw+`}`), &req))

			start := time.Now()
			_, err := req.toInput()
			assert.Less(t, time.Since(start), time.Second)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.HasField(domain.FieldPrice))
		})
	}

	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Lamp","price":"10000.00"}`), &req))
	in, err := req.toInput()
	require.NoError(t, err)
	assert.Equal(t, "10000.00", in.Price.String())
}

func TestCreateProduct_ExtremePriceIsValidationError(t *testing.T) {
	s := newServer(t, nil)

	w := s.doJSON(t, http.MethodPost, "/api/products", `{"name":"Lamp","price":1e-90000000,"stockQuantity":1,"categoryId":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, domain.FieldPrice, resp.Fields[0].Field)

	body, ct := multipartBody(t, map[string]string{
		"name": "Lamp", "price": "1e90000000", "stockQuantity": "1", "categoryId": "1",
	}, "", nil)
	w = s.do(t, http.MethodPost, "/api/products", ct, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.FieldPrice, decodeError(t, w).Fields[0].Field)

	w = s.do(t, http.MethodGet, "/api/products", "", nil)
	var res dto.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Zero(t, res.Pagination.TotalItems)
}

func TestCreateProduct_MalformedJSON(t *testing.T) {
	s := newServer(t, nil)

	w := s.doJSON(t, http.MethodPost, "/api/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProduct_MultipartWithImage(t *testing.T) {
	s := newServer(t, nil)

	body, ct := multipartBody(t, map[string]string{
		"product": `{"name":"Wireless Mouse","price":25.5,"stockQuantity":3,"categoryId":1}`,
	}, "mouse.PNG", []byte("png"))
	w := s.do(t, http.MethodPost, "/api/products", ct, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var view dto.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.ImageURL)
	assert.True(t, strings.HasSuffix(*view.ImageURL, ".png"))
	assert.Equal(t, "25.50", view.Price)
}

func TestCreateProduct_MultipartFormFields(t *testing.T) {
	s := newServer(t, nil)

	body, ct := multipartBody(t, map[string]string{
		"name": "Desk Lamp", "price": "19.99", "stockQuantity": "4", "categoryId": "2",
	}, "", nil)
	w := s.do(t, http.MethodPost, "/api/products", ct, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var view dto.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Home Office", view.CategoryName)
	assert.Nil(t, view.ImageURL)
}

func TestGetProduct_Errors(t *testing.T) {
	s := newServer(t, nil)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/products/42", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/products/abc", "", nil).Code)
}

func TestUpdateProduct(t *testing.T) {
	s := newServer(t, nil)
	for i := 0; i < 8; i++ {
		s.env.Seed(t, "Product", 1000)
	}

	w := s.doJSON(t, http.MethodPut, "/api/products/7", `{"id":8,"name":"Renamed","price":5,"categoryId":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "mismatch")

	w = s.doJSON(t, http.MethodPut, "/api/products/7", `{"id":7,"name":"Renamed","price":5,"categoryId":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	var view dto.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Renamed", view.Name)
	assert.Equal(t, "Clothing", view.CategoryName)
	assert.Equal(t, int64(2), view.Version)

	w = s.doJSON(t, http.MethodPut, "/api/products/99", `{"name":"Renamed","price":5,"categoryId":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct_Twice(t *testing.T) {
	s := newServer(t, nil)
	id := s.env.Seed(t, "Desk Lamp", 1999)
	path := fmt.Sprintf("/api/products/%d", id)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, "", nil).Code)
}

func TestAttachImage(t *testing.T) {
	s := newServer(t, nil)
	id := s.env.Seed(t, "Desk Lamp", 1999)
	path := fmt.Sprintf("/api/products/%d/image", id)

	body, ct := multipartBody(t, nil, "payload.exe", []byte("MZ"))
	w := s.do(t, http.MethodPost, path, ct, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.FieldImage, decodeError(t, w).Fields[0].Field)
	assert.Zero(t, s.env.Images.StoreCalls())

	body, ct = multipartBody(t, nil, "", nil)
	w = s.do(t, http.MethodPost, path, ct, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartBody(t, nil, "lamp.jpeg", []byte("jpeg"))
	w = s.do(t, http.MethodPost, path, ct, body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, s.env.Images.Has(resp.ImageURL))
}

func TestListCategories(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []domain.Category `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 3)
}

func TestRegisterRoutes_GuardOnlyOnWrites(t *testing.T) {
	log := usecasetest.NewEnv(t).Log
	v := middleware.NewTokenVerifier("secret", "catalog", "")
	s := newServer(t, middleware.JWTAuth(v, log))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/products", "", nil).Code)

	payload := `{"name":"Desk Lamp","price":"19.99","categoryId":2}`
	assert.Equal(t, http.StatusUnauthorized, s.doJSON(t, http.MethodPost, "/api/products", payload).Code)

	token, err := v.Issue("admin", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err        error
		wantCode   codes.Code
		wantStatus int
	}{
		{domain.NewFieldError(domain.FieldName, "required"), codes.InvalidArgument, http.StatusBadRequest},
		{domain.ErrUnsupportedImageType, codes.InvalidArgument, http.StatusBadRequest},
		{fmt.Errorf("product 3: %w", domain.ErrProductNotFound), codes.NotFound, http.StatusNotFound},
		{domain.ErrIdentityMismatch, codes.FailedPrecondition, http.StatusBadRequest},
		{domain.ErrConcurrencyConflict, codes.Aborted, http.StatusConflict},
		{domain.ErrStorage, codes.Unavailable, http.StatusServiceUnavailable},
		{errors.New("spanner: session pool exhausted"), codes.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			st := mapError(tt.err)
			assert.Equal(t, tt.wantCode, st.Code())
			code, msg := httpStatus(st)
			assert.Equal(t, tt.wantStatus, code)
			if code == http.StatusInternalServerError {
				assert.NotContains(t, msg, "spanner")
			}
		})
	}
}
