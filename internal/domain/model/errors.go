package model

import "fmt"

// NotFoundError reports a city unknown to the weather provider. It is
// user-correctable and maps to 404 at the HTTP boundary.
type NotFoundError struct {
	City string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("city %q not found at the weather provider", e.City)
}

// UpstreamError reports a provider that is unreachable or erroring.
// Status is zero for transport-level failures.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("weather provider failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("weather provider unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// MalformedMessageError reports a cache-population message that failed
// validation at the deserialization boundary.
type MalformedMessageError struct {
	Reason string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed cache population message: %s", e.Reason)
}
