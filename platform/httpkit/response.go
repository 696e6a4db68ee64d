// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"storefront_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses and reports whether err
// was non-nil. Typed *apperr.Error values anywhere in the chain use their Kind;
// validator failures become 400 with per-field details; anything else is a 500
// with a generic message so internals never leak to shoppers.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	_ = c.Error(err)

	if domainErr, ok := apperr.As(err); ok {
		message := domainErr.Message
		if domainErr.HTTPStatus() >= http.StatusInternalServerError {
			message = http.StatusText(domainErr.HTTPStatus())
		}
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   message,
			Details: domainErr.Details,
		})
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: fieldErrors(verrs),
		})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	return true
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
