package moyklass

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid moyklass configuration")
	// ErrUnauthorized indicates the API key or token was rejected
	ErrUnauthorized = errors.New("unauthorized: invalid API key or token")
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrTimeout indicates the request did not complete in time
	ErrTimeout = errors.New("request timed out")
	// ErrTooManyRedirects indicates the redirect limit was exceeded
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrConnection indicates the connection could not be established or was lost
	ErrConnection = errors.New("connection lost")
	// ErrNotJSON is returned when decoding a response whose body is not JSON
	ErrNotJSON = errors.New("response body is not JSON")
)

// ErrorKind classifies an APIError.
type ErrorKind int

const (
	// KindTransport covers transport failures not matched by a narrower kind
	KindTransport ErrorKind = iota
	// KindRedirect indicates the redirect limit was exceeded
	KindRedirect
	// KindHTTP indicates a non-2xx HTTP status
	KindHTTP
	// KindTimeout indicates a client, context or network timeout
	KindTimeout
	// KindConnection indicates a refused, reset or unresolvable connection
	KindConnection
	// KindToken indicates the token endpoint answered without an access token
	KindToken
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindHTTP:
		return "http"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindToken:
		return "token"
	default:
		return "transport"
	}
}

// APIError is the single error type returned by every Moyklass API call.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Method     string
	URL        string
	Body       string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch {
	case e.Kind == KindHTTP && e.Body != "":
		return fmt.Sprintf("moyklass API error: %s %s: %s: %s", e.Method, e.URL, e.Message, e.Body)
	case e.Method != "":
		return fmt.Sprintf("moyklass API error: %s %s: %s", e.Method, e.URL, e.Message)
	default:
		return "moyklass API error: " + e.Message
	}
}

// Unwrap returns the underlying transport error, if any
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the error against the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.IsUnauthorized()
	case ErrNotFound:
		return e.IsNotFound()
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrTooManyRedirects:
		return e.Kind == KindRedirect
	case ErrConnection:
		return e.Kind == KindConnection
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.Kind == KindHTTP && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.Kind == KindHTTP && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// classifyTransportError maps an error returned by http.Client.Do onto the
// error taxonomy.
func classifyTransportError(method, rawURL string, err error) *APIError {
	apiErr := &APIError{
		Kind:   KindTransport,
		Method: method,
		URL:    rawURL,
		Err:    err,
	}

	var netErr net.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError

	switch {
	case errors.Is(err, ErrTooManyRedirects):
		apiErr.Kind = KindRedirect
		apiErr.Message = "too many redirects"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		apiErr.Kind = KindTimeout
		apiErr.Message = "request timed out, try again later"
	case errors.Is(err, context.Canceled):
		apiErr.Message = "request canceled"
	case errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.As(err, &opErr):
		apiErr.Kind = KindConnection
		apiErr.Message = "connection lost, try again later"
	default:
		apiErr.Message = fmt.Sprintf("request failed: %v", unwrapURLError(err))
	}

	return apiErr
}

// newHTTPError builds the error for a non-2xx response.
func newHTTPError(method, rawURL string, statusCode int, body []byte) *APIError {
	return &APIError{
		Kind:       KindHTTP,
		StatusCode: statusCode,
		Method:     method,
		URL:        rawURL,
		Body:       string(body),
		Message:    fmt.Sprintf("HTTP error: status %d %s", statusCode, http.StatusText(statusCode)),
	}
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
