package errors

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ClassifyHTTPError determines whether an HTTP error should be retried.
//   - 4xx client errors (except 408 and 429) are irrecoverable
//   - 5xx server errors are recoverable
//   - Network-level errors are recoverable
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408: // Request Timeout
			return Recoverable
		case 429: // Too Many Requests
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and retry
		return Recoverable
	}
}

// NewHTTPError creates a classified error for a non-2xx response. The message
// is the body's "detail" field when present, fallback otherwise.
func NewHTTPError(statusCode int, body []byte, operation, fallback string) *ClassifiedError {
	underlyingErr := fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	ce := ClassifyHTTPError(statusCode, string(body), underlyingErr)
	if detail, ok := DetailFromBody(body); ok {
		ce.Detail = detail
		ce.Message = detail
	} else {
		ce.Message = fallback
	}
	return ce
}

// DetailFromBody extracts the server's message from a JSON error body. The
// "detail" member is preferred: strings are returned verbatim, structured
// values (validation error lists) as their raw JSON text. Bodies without a
// detail fall back to a string "error" member, as sent by the GeoJSON endpoint.
func DetailFromBody(body []byte) (string, bool) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return "", false
	}
	d := gjson.GetBytes(body, "detail")
	switch {
	case !d.Exists(), d.Type == gjson.Null:
	case d.Type == gjson.String:
		if d.Str != "" {
			return d.Str, true
		}
	default:
		return d.Raw, true
	}
	if e := gjson.GetBytes(body, "error"); e.Type == gjson.String && e.Str != "" {
		return e.Str, true
	}
	return "", false
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}
