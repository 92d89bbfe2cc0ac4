package compute

import (
	"errors"
	"fmt"
	"net/http"
)

// TransientError is a failure that may succeed if the caller tries again:
// network errors, timeouts, 5xx and 429 responses.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string { return e.err.Error() }

func (e *TransientError) Unwrap() error { return e.err }

// FatalError is a failure that will not go away on retry: 4xx responses,
// success:false envelopes and malformed bodies.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string { return e.err.Error() }

func (e *FatalError) Unwrap() error { return e.err }

func transient(err error) error { return &TransientError{err: err} }

func fatal(err error) error { return &FatalError{err: err} }

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsFatal reports whether err is permanent.
func IsFatal(err error) bool {
	var f *FatalError
	return errors.As(err, &f)
}

// ServiceError is the message the service put in a success:false envelope.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status == 0 || e.Status == http.StatusOK {
		return "compute service: " + e.Message
	}
	return fmt.Sprintf("compute service (status %d): %s", e.Status, e.Message)
}

// classifyStatus wraps a non-200 response by retryability.
func classifyStatus(status int, message string) error {
	err := &ServiceError{Status: status, Message: message}
	switch {
	case status == http.StatusTooManyRequests, status >= 500:
		return transient(err)
	default:
		return fatal(err)
	}
}
