package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaping/internal/domain"
)

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func render(t *testing.T, err error) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	FromError(c, err)

	var body envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestFromError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.NotFound("job", 7), http.StatusNotFound, "NOT_FOUND"},
		{"validation", domain.Invalid("amount must be > 0"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"transition", fmt.Errorf("%w: quote 1 is Declined", domain.ErrInvalidTransition), http.StatusConflict, "INVALID_TRANSITION"},
		{"state", fmt.Errorf("%w: job 1 is completed", domain.ErrInvalidState), http.StatusConflict, "INVALID_STATE"},
		{"precondition", fmt.Errorf("%w: job 1 not completed", domain.ErrPreconditionFailed), http.StatusPreconditionFailed, "PRECONDITION_FAILED"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := render(t, tt.err)
			assert.Equal(t, tt.status, rr.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestFromError_ConflictDetails(t *testing.T) {
	err := fmt.Errorf("delete client: %w", &domain.ConflictError{Entity: "client", ID: 3, Reason: domain.ReasonHasJobs})

	rr, body := render(t, err)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, "has_jobs", body.Error.Details["reason"])
	assert.Equal(t, "client", body.Error.Details["entity"])
}

func TestFromError_InternalHidesMessage(t *testing.T) {
	_, body := render(t, errors.New("pq: password authentication failed"))
	assert.NotContains(t, body.Error.Message, "password")
}
