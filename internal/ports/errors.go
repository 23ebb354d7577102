package ports

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes. Adapters attach one of these to every DataFetchError so
// callers can branch with errors.Is.
var (
	// HTTP status classes
	ErrRateLimited    = errors.New("API rate limit exceeded")
	ErrBanned         = errors.New("IP temporarily banned for exceeding the rate limit")
	ErrInvalidRequest = errors.New("invalid request parameters or format")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("access forbidden")
	ErrNotFound       = errors.New("resource not found")
	ErrServerError    = errors.New("exchange internal server error")
	ErrUnknown        = errors.New("unknown error occurred")

	// Non-HTTP classes
	ErrNoResponse      = errors.New("no response received from the exchange")
	ErrTimeout         = errors.New("operation timed out")
	ErrRequestSetup    = errors.New("failed to set up request")
	ErrInvalidResponse = errors.New("malformed response from the exchange")
)

// FetchErrorKind tells which stage of a request failed.
type FetchErrorKind string

const (
	KindTransport FetchErrorKind = "transport" // no response received
	KindHTTP      FetchErrorKind = "http"      // non-2xx response
	KindSetup     FetchErrorKind = "setup"     // request never dispatched
	KindDecode    FetchErrorKind = "decode"    // 2xx with an unusable body
)

// DataFetchError is the single failure type returned by market data reads.
type DataFetchError struct {
	Op         string         // Operation that failed, e.g. "GetKlines"
	Kind       FetchErrorKind // Failure stage
	Class      error          // One of the Err* class sentinels
	StatusCode int            // HTTP status, zero unless Kind == KindHTTP
	Body       []byte         // Raw response body for KindHTTP
	Err        error          // Underlying cause
}

func (e *DataFetchError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("%s failed: %v (status %d): %v", e.Op, e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %v", e.Op, e.Class, e.Err)
}

// Unwrap exposes both the class sentinel and the cause.
func (e *DataFetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Class != nil {
		errs = append(errs, e.Class)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ClassifyStatus maps an HTTP status code to its error class.
func ClassifyStatus(code int) error {
	switch code {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusTeapot: // Binance answers 418 once an IP is auto-banned
		return ErrBanned
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusInternalServerError:
		return ErrServerError
	default:
		return ErrUnknown
	}
}
