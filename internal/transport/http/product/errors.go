package product

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// mapError translates domain sentinel errors into status codes.
// Unknown errors become codes.Internal.
func mapError(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}

	if errors.Is(err, context.Canceled) {
		return status.New(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.New(codes.DeadlineExceeded, err.Error())
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		return status.New(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrIdentityMismatch):
		return status.New(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return status.New(codes.Aborted, "product was modified by another request, reload it and retry")
	case errors.Is(err, domain.ErrStorage):
		return status.New(codes.Unavailable, err.Error())
	}

	return status.New(codes.Internal, err.Error())
}

// httpStatus maps a status code onto the HTTP response code and the message
// safe to show a client.
func httpStatus(st *status.Status) (int, string) {
	switch st.Code() {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest, st.Message()
	case codes.NotFound:
		return http.StatusNotFound, st.Message()
	case codes.Aborted, codes.AlreadyExists:
		return http.StatusConflict, st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, st.Message()
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "Request timed out"
	case codes.Canceled:
		return http.StatusRequestTimeout, "Request canceled"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	st := mapError(err)
	code, msg := httpStatus(st)

	resp := ErrorResponse{Error: msg}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Fields = verr.Fields
	}

	entry := h.log.WithFields(logrus.Fields{
		"code":        st.Code().String(),
		"http_status": code,
		"path":        c.Request.URL.Path,
	})
	if code >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
		_ = c.Error(err)
	} else {
		entry.Debug(st.Message())
	}

	c.AbortWithStatusJSON(code, resp)
}
