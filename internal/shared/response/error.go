// Package response writes JSON error bodies for the API handlers.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every handler error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// ErrorMapping maps a sentinel error to a status, an optional code and a
// client-facing message. An empty Message falls back to the error text.
type ErrorMapping struct {
	Err     error
	Status  int
	Code    string
	Message string
}

func (m ErrorMapping) body() ErrorResponse {
	msg := m.Message
	if msg == "" {
		msg = m.Err.Error()
	}
	return ErrorResponse{Error: msg, Code: m.Code}
}

// Error writes a plain error body.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// BadRequest writes a 400 with the binding or validation error.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InternalError writes a 500. The cause is never echoed to the client.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal error"
	}
	Error(c, http.StatusInternalServerError, message)
}

// Lookup returns the first mapping whose error matches err.
func Lookup(err error, mappings []ErrorMapping) (ErrorMapping, bool) {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return m, true
		}
	}
	return ErrorMapping{}, false
}

// HandleError writes the mapped response for err and reports whether a
// mapping matched.
func HandleError(c *gin.Context, err error, mappings []ErrorMapping) bool {
	m, ok := Lookup(err, mappings)
	if !ok {
		return false
	}
	c.JSON(m.Status, m.body())
	return true
}

// HandleErrorWithDefault is HandleError with a 500 for unmapped errors.
func HandleErrorWithDefault(c *gin.Context, err error, mappings []ErrorMapping) {
	if !HandleError(c, err, mappings) {
		InternalError(c, "")
	}
}
