package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
)

// QuotaExceededError signals the AI provider rejected a call because of rate
// limiting. Unlike other provider failures it is surfaced to the caller with a
// retry-after hint instead of being masked by a fallback.
type QuotaExceededError struct {
	RetryAfter int // seconds
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("provider quota exceeded, retry after %ds", e.RetryAfter)
}

// AsQuotaExceeded unwraps err into a QuotaExceededError if it is one.
func AsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
