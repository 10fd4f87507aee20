package scholar

import "errors"

// Common errors returned by search backends.
var (
	// ErrUnavailable indicates no search backend is configured or usable.
	ErrUnavailable = errors.New("citation search backend unavailable")

	// ErrMaxTries indicates the external service refused repeated attempts
	// (quota or blocking). Retryable by rotating to a new proxy.
	ErrMaxTries = errors.New("maximum tries exceeded")

	// ErrRateLimited indicates the external service rejected the request
	// for pacing reasons. Retryable.
	ErrRateLimited = errors.New("search rate limit exceeded")

	// ErrInvalidResponse indicates an unexpected response shape.
	ErrInvalidResponse = errors.New("invalid search response")
)

// IsRetryable reports whether a fresh attempt (possibly through a new
// proxy) may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrMaxTries) || errors.Is(err, ErrRateLimited)
}
