package api

import (
	"errors"
	"fmt"

	"studypulse/internal/services"
)

// ErrInvalidInput marks malformed or missing request fields.
var ErrInvalidInput = services.Mark(services.ErrValidation, "invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StatusFor maps an error to the HTTP status reported with it.
func StatusFor(err error) int {
	return services.HTTPStatus(err)
}

// NewErrorResponse builds the failure envelope for err.
func NewErrorResponse(err error) ErrorResponse {
	if err == nil {
		err = errors.New("unknown error")
	}
	return ErrorResponse{Success: false, Error: err.Error()}
}
