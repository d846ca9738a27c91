package archive

import (
	"errors"
	"fmt"
)

// StatusError reports a non-2xx response from the archive API.
type StatusError struct {
	Status   int
	Resource string
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("archive API error (status %d) on %s: %s", e.Status, e.Resource, e.Body)
	}
	return fmt.Sprintf("archive API error (status %d) on %s", e.Status, e.Resource)
}

// IsRetryable reports whether a request that produced err is worth
// repeating. Transport failures and server-side or rate-limit statuses
// are; other client errors are not.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == 429 || statusErr.Status >= 500
	}
	return true
}
