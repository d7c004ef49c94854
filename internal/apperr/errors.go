// Package apperr defines the error kinds shared by the stores, the purchase
// workflow and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyCancelled  = errors.New("purchase already cancelled")
	ErrInvalidTransition = errors.New("invalid purchase status transition")
	ErrStorage           = errors.New("storage failure")
	ErrUnavailable       = errors.New("upstream service unavailable")
)

// Specific not-found errors; errors.Is(err, ErrNotFound) holds for each.
var (
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrPurchaseNotFound = fmt.Errorf("purchase %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
)

// Storage wraps a persistence error so callers can match ErrStorage while
// the driver error stays in the chain.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Invalid returns an ErrInvalidInput carrying a user-facing reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// HTTPStatus maps an error kind to the status the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to API clients. Storage and unknown errors
// are not echoed back.
func Message(err error) string {
	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return "AI service temporarily unavailable"
	default:
		return err.Error()
	}
}
