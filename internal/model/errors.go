package model

import "fmt"

// UpstreamError indicates a non-success HTTP status or transport failure
// from the exchange API. The whole refresh is aborted when it occurs.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream: %s", e.Body)
	}
	return fmt.Sprintf("upstream: status %d, body: %s", e.StatusCode, e.Body)
}

// MalformedDataError indicates an upstream payload missing an expected
// field or carrying an unparsable value. Never coerced past silently.
type MalformedDataError struct {
	Field  string
	Reason string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed upstream data: field %q: %s", e.Field, e.Reason)
}
