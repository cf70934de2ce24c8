package client

import "fmt"

// APIError is returned by every Client call that fails. StatusCode is zero when
// the request never produced an HTTP response.
type APIError struct {
	Op         string
	StatusCode int
	// Message carries the backend's {"error": ...} field when present.
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Transport reports whether the failure happened before any response arrived.
func (e *APIError) Transport() bool {
	return e.StatusCode == 0
}
