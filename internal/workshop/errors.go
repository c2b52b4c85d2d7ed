package workshop

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrItemNotFound is returned when the structured API has no record for a
// detail lookup.
var ErrItemNotFound = errors.New("item not found")

// ClientInputError reports a malformed request. No upstream call is made.
type ClientInputError struct {
	Message string
}

// NewClientInputError builds a ClientInputError.
func NewClientInputError(msg string) *ClientInputError {
	return &ClientInputError{Message: msg}
}

func (e *ClientInputError) Error() string {
	return e.Message
}

// UpstreamError reports a failed or malformed structured API response.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error: status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s error: %s", e.Service, e.Message)
}

// HTTPStatus maps an error onto the status code and message returned to
// callers. Unknown errors collapse into a generic 500.
func HTTPStatus(err error) (int, string) {
	var inputErr *ClientInputError
	var upstreamErr *UpstreamError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Message
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, upstreamErr.Error()
	case errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound, "Item not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
