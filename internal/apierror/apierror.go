// Status-bearing error values shared between services and the HTTP boundary.
// The boundary maps an *APIError to its status and envelope; any other error
// becomes a generic 500.
package apierror

import (
	"net/http"

	"github.com/user-vault/backend/internal/model"
)

type APIError struct {
	Status           int
	Message          string
	ValidationErrors []model.FieldError
}

func (e *APIError) Error() string {
	return e.Message
}

func Unauthorized() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized. Access denied.",
	}
}

func BadRequest(message string) *APIError {
	if message == "" {
		message = "Bad request."
	}
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

func Validation(errs []model.FieldError) *APIError {
	return &APIError{
		Status:           http.StatusBadRequest,
		Message:          "Validation error.",
		ValidationErrors: errs,
	}
}
