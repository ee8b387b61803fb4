package moyklass

import (
	"context"
	"net/url"
)

// API defines the session operations every facade builds on
type API interface {
	// AcquireToken exchanges the API key for a session token
	AcquireToken(ctx context.Context) error

	// RevokeToken revokes and clears the session token
	RevokeToken(ctx context.Context) error

	// WithToken runs fn between an acquire and a guaranteed revoke
	WithToken(ctx context.Context, fn func(ctx context.Context) error) error

	// Execute performs a single authenticated request
	Execute(ctx context.Context, method, path string, query url.Values, body any) (*Response, error)
}

var _ API = (*Client)(nil)
