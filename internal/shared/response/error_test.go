package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errMissing = errors.New("user not found")

func TestHandleErrorWithDefault(t *testing.T) {
	mappings := []ErrorMapping{
		{Err: errMissing, Status: http.StatusNotFound, Code: "USER_NOT_FOUND"},
	}

	t.Run("mapped wrapped error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorWithDefault(c, fmt.Errorf("load profile: %w", errMissing), mappings)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user not found", body.Error)
		assert.Equal(t, "USER_NOT_FOUND", body.Code)
	})

	t.Run("unmapped error falls back to 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorWithDefault(c, errors.New("boom"), mappings)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	})
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name   string
		send   func(c *gin.Context)
		status int
		body   string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "Email and password are required") }, 400, `{"error":"Email and password are required"}`},
		{"internal default", func(c *gin.Context) { InternalError(c, "") }, 500, `{"error":"internal error"}`},
		{"internal message", func(c *gin.Context) { InternalError(c, "Failed to clear cache") }, 500, `{"error":"Failed to clear cache"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.send(c)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestLookup(t *testing.T) {
	errOther := errors.New("other")
	mappings := []ErrorMapping{
		{Err: errMissing, Status: http.StatusNotFound, Message: "User not found or inactive"},
		{Err: errOther, Status: http.StatusServiceUnavailable},
	}

	m, ok := Lookup(fmt.Errorf("wrapped: %w", errOther), mappings)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, m.Status)
	assert.Equal(t, ErrorResponse{Error: "other"}, m.body())

	m, ok = Lookup(errMissing, mappings)
	require.True(t, ok)
	assert.Equal(t, "User not found or inactive", m.body().Error)

	_, ok = Lookup(errors.New("unknown"), mappings)
	assert.False(t, ok)
}
