package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"smarttrader/internal/model"

	"github.com/gin-gonic/gin"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeDateRequired        = "DATE_REQUIRED"
	CodeInvalidDate         = "INVALID_DATE"
	CodeInsufficientHistory = "INSUFFICIENT_HISTORY"
	CodeDataSource          = "DATA_SOURCE_ERROR"
	CodeModelInference      = "MODEL_INFERENCE_ERROR"
	CodeTimeout             = "TIMEOUT"
	CodeInternal            = "INTERNAL_ERROR"
	CodeInvalidParam        = "INVALID_PARAM"
)

// classify maps a pipeline error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrDateParse):
		return http.StatusBadRequest, CodeInvalidDate
	case errors.Is(err, model.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, CodeInsufficientHistory
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	case errors.Is(err, model.ErrDataSource):
		return http.StatusBadGateway, CodeDataSource
	case errors.Is(err, model.ErrModelInference):
		return http.StatusInternalServerError, CodeModelInference
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

func respondPipelineError(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		log.Printf("[WARN] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	respondError(c, status, code, err.Error())
}

// ErrorHandler recovers panics into an INTERNAL_ERROR response.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[ERROR] panic serving %s: %v", c.Request.URL.Path, recovered)
		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, msg)
	})
}
