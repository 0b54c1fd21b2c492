// Package request holds the gin binding helpers shared by handlers. Each helper writes the
// error response itself and reports whether the handler may continue.
package request

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"landscaping/internal/domain"
	"landscaping/internal/pkg/response"
	"landscaping/internal/pkg/validator"
)

// ID reads a positive int64 path parameter.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.FromError(c, domain.Invalid("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

// JSON decodes and validates the request body into req.
func JSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BindError(c, err)
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return false
	}
	return true
}

// OptionalJSON is JSON for endpoints whose body may be omitted entirely.
func OptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		if errs := validator.Validate(req); errs != nil {
			response.ValidationFailed(c, errs)
			return false
		}
		return true
	}
	return JSON(c, req)
}
