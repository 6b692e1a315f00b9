package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed (or degraded) request. The kind is what the
// UI layer switches on for user-facing messages and what the diagnostics log
// records, so the values are stable strings.
type ErrorKind string

const (
	KindInvalidInput         ErrorKind = "invalid_input"
	KindMissingCredential    ErrorKind = "missing_credential"
	KindNetworkError         ErrorKind = "network_error"
	KindHTTPError            ErrorKind = "http_error"
	KindJSONParseFailure     ErrorKind = "json_parse_failure"
	KindUnexpectedResponse   ErrorKind = "unexpected_response_format"
	KindUnsupportedParameter ErrorKind = "unsupported_parameter"
)

// Error is the single error contract of this package. Every failure carries a
// kind; HTTP failures additionally carry the status code and a truncated body
// excerpt in Detail.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTPError:
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.Status, e.Detail)
	case e.Err != nil && e.Detail != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or "" if err is not an *Error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
