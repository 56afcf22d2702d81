package soap

import (
	"fmt"
	"time"
)

// TransportError is a network level failure before a response was received
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("soap transport to %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError means the call did not complete within its deadline
type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("soap call to %s timed out after %s", e.Endpoint, e.Timeout)
	}
	return fmt.Sprintf("soap call to %s timed out: %v", e.Endpoint, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPStatusError is a non-2xx response without a SOAP fault
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("soap endpoint returned HTTP %d", e.StatusCode)
}

// FaultError is a SOAP Fault returned by the service
type FaultError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("soap fault %s: %s", e.Code, e.Message)
}
