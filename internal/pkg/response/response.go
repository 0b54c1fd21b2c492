package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"landscaping/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for a service error. Unknown errors become a 500 and are
// attached to the gin context so ErrorLogger records them.
func FromError(c *gin.Context, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		ErrorWithDetails(c, http.StatusConflict, "CONFLICT", err.Error(), gin.H{
			"entity": conflict.Entity,
			"id":     conflict.ID,
			"reason": conflict.Reason,
		})
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrValidation):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, domain.ErrPreconditionFailed):
		Error(c, http.StatusPreconditionFailed, "PRECONDITION_FAILED", err.Error())
	default:
		_ = c.Error(err)
		log.Printf("internal_error path=%s error=%v", c.Request.URL.Path, err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// BindError reports a request body or query that could not be decoded.
func BindError(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}

// ValidationFailed reports field-level validator failures.
func ValidationFailed(c *gin.Context, fields map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed", fields)
}
