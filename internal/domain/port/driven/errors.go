package driven

import "fmt"

// BackendError is a non-2xx response from the education backend. Message
// carries the backend's envelope message when one was present; StatusCode is
// always set.
type BackendError struct {
	StatusCode int
	Message    string
}

// Error returns the backend message when available, otherwise a generic
// description of the status.
func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("portal api: unexpected status %d", e.StatusCode)
}
