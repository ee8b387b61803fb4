package moyklass

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the production Moyklass API host.
	DefaultBaseURL = "https://api.moyklass.com"
	// DefaultTimeout is applied to the HTTP client unless overridden.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects matches the net/http default redirect limit.
	DefaultMaxRedirects = 10
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL      string
	timeout      time.Duration
	maxRedirects int
	userAgent    string
	httpClient   *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:      DefaultBaseURL,
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		userAgent:    "moyklass-go",
	}
}

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithMaxRedirects sets how many redirects are followed before a request
// fails with KindRedirect.
func WithMaxRedirects(n int) Option {
	return func(o *clientOptions) {
		if n >= 0 {
			o.maxRedirects = n
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is left
// untouched; a CheckRedirect is installed only if it has none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}
