package httpclient

import (
	"errors"
	"fmt"
)

// FallbackStatus is the status reported for failures that never produced a response.
const FallbackStatus = 500

// FailureKind tags a RequestError.
type FailureKind int

const (
	// FailureUnknown covers connectivity problems, decode errors and anything else without a response.
	FailureUnknown FailureKind = iota
	// FailureStructured means the remote side answered with a status and a body.
	FailureStructured
)

func (k FailureKind) String() string {
	switch k {
	case FailureStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// ResponseError is how a Transport reports that the remote side answered unsuccessfully.
type ResponseError struct {
	Status  int
	Data    any
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// RequestError is the only error SendRequest returns.
// Status and Data are kept as typed fields; Error() renders the single-line message.
type RequestError struct {
	Kind   FailureKind
	Status int
	Data   any
	Cause  error
}

func (e *RequestError) Error() string {
	if e.Kind == FailureStructured {
		return fmt.Sprintf("Request failed with status %d: %s", e.Status, textOf(e.Data))
	}
	return fmt.Sprintf("Request failed with status %d: %s", FallbackStatus, causeMessage(e.Cause))
}

func (e *RequestError) Unwrap() error { return e.Cause }

// normalizeError classifies any failure into one of the two RequestError kinds.
func normalizeError(err error) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return &RequestError{
			Kind:   FailureStructured,
			Status: respErr.Status,
			Data:   respErr.Data,
			Cause:  err,
		}
	}
	return &RequestError{
		Kind:   FailureUnknown,
		Status: FallbackStatus,
		Cause:  err,
	}
}

func causeMessage(err error) string {
	if err == nil {
		return "undefined"
	}
	return err.Error()
}
