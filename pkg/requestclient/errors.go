package requestclient

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned on HTTP 429. Background polling treats it as
// "skip this cycle", never as a user-facing failure.
var ErrRateLimited = errors.New("request service rate limited the call")

// APIError is any non-2xx response without a more specific structured body
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request service returned %d", e.StatusCode)
}
