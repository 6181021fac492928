package bgs

import "fmt"

// Fetch failures fall into three categories that callers must be able to
// tell apart: transport failures, upstream error statuses, and responses
// that arrived but could not be decoded. None of them are ever conflated
// with an empty result set.

// RequestError indicates the request never produced a usable response:
// connection failures, timeouts, or context cancellation.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("bgs request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError indicates the upstream service answered with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bgs upstream returned HTTP %d", e.StatusCode)
}

// DecodeError indicates the upstream response body was not valid JSON of
// the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bgs response malformed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
