package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx HTTP response from the backend. The raw response
// body is carried verbatim as error detail; callers decide whether and
// how to surface or retry. Extract with errors.As:
//
//	var apiErr *api.Error
//	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound { ... }
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is an *Error with status 404. The
// timeline reconciler treats missing sessions/messages as an append
// fallback, not a fatal condition.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
