package moyklass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	tokenHeader = "x-access-token"

	getTokenPath    = "v1/company/auth/getToken"
	revokeTokenPath = "v1/company/auth/revokeToken"
)

// Client represents an authenticated Moyklass API session.
//
// The token is guarded by a mutex, but acquiring and revoking it while other
// requests are in flight still races at the protocol level: those requests may
// go out with a stale or missing header. Use one Client per worker if that
// matters.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger

	mu    sync.RWMutex
	token string

	Users         *UsersService
	Payments      *PaymentsService
	Lessons       *LessonsService
	Subscriptions *SubscriptionsService
	Tasks         *TasksService
	Groups        *GroupsService
}

// NewClient creates a new Moyklass client. No request is made until a token
// is acquired or a facade method is called.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimRight(o.baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrInvalidConfig, baseURL, err)
	}

	httpClient := &http.Client{Timeout: o.timeout}
	if o.httpClient != nil {
		// The caller's client is left unchanged
		hc := *o.httpClient
		httpClient = &hc
	}
	if httpClient.CheckRedirect == nil {
		httpClient.CheckRedirect = limitRedirects(o.maxRedirects)
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}

	c.Users = &UsersService{client: c}
	c.Payments = &PaymentsService{client: c}
	c.Lessons = &LessonsService{client: c}
	c.Subscriptions = &SubscriptionsService{client: c}
	c.Tasks = &TasksService{client: c}
	c.Groups = &GroupsService{client: c}

	return c, nil
}

func limitRedirects(max int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return ErrTooManyRedirects
		}
		return nil
	}
}

// BaseURL returns the API host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the current session token, or "" when none is held.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether a session token is held.
func (c *Client) HasToken() bool {
	return c.Token() != ""
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type tokenRequest struct {
	APIKey string `json:"apiKey"`
}

// AcquireToken exchanges the API key for a session token and stores it. On
// failure the previously held token, if any, is kept.
func (c *Client) AcquireToken(ctx context.Context) error {
	resp, err := c.Execute(ctx, http.MethodPost, getTokenPath, nil, tokenRequest{APIKey: c.apiKey})
	if err != nil {
		return err
	}

	token := resp.Get("accessToken").String()
	if token == "" {
		return &APIError{
			Kind:       KindToken,
			StatusCode: resp.StatusCode,
			Method:     http.MethodPost,
			URL:        c.endpoint(getTokenPath),
			Message:    "access token missing from response",
		}
	}

	c.setToken(token)
	c.logger.Debug().Msg("Acquired Moyklass access token")
	return nil
}

// RevokeToken revokes the current token and clears it. The token is cleared
// even when the revoke request fails.
func (c *Client) RevokeToken(ctx context.Context) error {
	_, err := c.Execute(ctx, http.MethodPost, revokeTokenPath, nil, nil)
	c.setToken("")
	if err != nil {
		return err
	}

	c.logger.Debug().Msg("Revoked Moyklass access token")
	return nil
}

// WithToken acquires a token, runs fn and revokes the token afterwards. The
// revoke runs even if fn returns an error or panics. If acquisition fails fn
// is not called.
func (c *Client) WithToken(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := c.AcquireToken(ctx); err != nil {
		return err
	}

	defer func() {
		// The revoke must outlive a canceled ctx.
		if revokeErr := c.RevokeToken(context.WithoutCancel(ctx)); revokeErr != nil {
			c.logger.Warn().Err(revokeErr).Msg("Failed to revoke Moyklass access token")
			err = errors.Join(err, revokeErr)
		}
	}()

	return fn(ctx)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Execute performs a single API request. query is encoded with repeated keys
// for list values; body, when non-nil, is sent as JSON. The session token is
// attached if one is held. Every failure, including a body that cannot be
// encoded, is returned as *APIError. A 2xx body that is not JSON is not an error.
func (c *Client) Execute(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	requestURL := c.endpoint(path)
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var payload []byte
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{
				Kind:    KindTransport,
				Method:  method,
				URL:     requestURL,
				Message: fmt.Sprintf("failed to marshal request body: %v", err),
				Err:     err,
			}
		}
		payload = data
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, &APIError{
			Kind:    KindTransport,
			Method:  method,
			URL:     requestURL,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Err:     err,
		}
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(tokenHeader, token)
	}

	c.traceRequest(req, path, payload)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransportError(method, c.endpoint(path), err)
		c.logger.Debug().Err(err).Str("kind", apiErr.Kind.String()).Msg("Moyklass request failed")
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(method, c.endpoint(path), err)
	}

	respEvent := c.logger.Debug().Int("status", resp.StatusCode)
	if path != getTokenPath {
		respEvent = respEvent.Bytes("body", respBody)
	}
	respEvent.Msg("Moyklass API response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(method, c.endpoint(path), resp.StatusCode, respBody)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// traceRequest logs the outgoing request with secrets masked.
func (c *Client) traceRequest(req *http.Request, path string, payload []byte) {
	if c.logger.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	headers := zerolog.Dict()
	for name := range req.Header {
		value := req.Header.Get(name)
		if strings.EqualFold(name, tokenHeader) {
			value = mask(value)
		}
		headers.Str(name, value)
	}

	event := c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dict("headers", headers)
	if path == getTokenPath {
		event = event.Str("body", `{"apiKey":"`+mask(c.apiKey)+`"}`)
	} else if payload != nil {
		event = event.RawJSON("body", payload)
	}
	event.Msg("Sending Moyklass API request")
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
