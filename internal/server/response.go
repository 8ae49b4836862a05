package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"katydid-vehicle-market/internal/store"
	"katydid-vehicle-market/pkg/validator"
)

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Report    *validator.Report `json:"report,omitempty"`
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     code,
		Message:   msg,
		RequestID: c.GetString(ctxRequestID),
	})
}

func invalid(c *gin.Context, report *validator.Report) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:     "validation_failed",
		Message:   report.Error(),
		RequestID: c.GetString(ctxRequestID),
		Report:    report,
	})
}

// fail 按错误类型选择状态码
func fail(c *gin.Context, err error) {
	var report *validator.Report
	switch {
	case errors.As(err, &report):
		invalid(c, report)
	case errors.Is(err, store.ErrNotFound):
		abort(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, store.ErrDuplicate):
		abort(c, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, store.ErrAlreadySold):
		abort(c, http.StatusConflict, "already_sold", err.Error())
	case errors.Is(err, store.ErrNotForSale):
		abort(c, http.StatusConflict, "not_for_sale", err.Error())
	case errors.Is(err, store.ErrSellerMismatch):
		abort(c, http.StatusForbidden, "forbidden", err.Error())
	default:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "internal", "internal server error")
	}
}
