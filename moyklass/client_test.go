package moyklass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal Moyklass server: it issues and revokes tokens and
// records every other request.
type fakeAPI struct {
	t        *testing.T
	token    string
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	revoked  int
	handler  http.HandlerFunc
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, body.Bytes())
	f.mu.Unlock()

	switch r.URL.Path {
	case "/v1/company/auth/getToken":
		var req map[string]string
		assert.NoError(f.t, json.Unmarshal(body.Bytes(), &req))
		assert.Equal(f.t, "test-key", req["apiKey"])
		assert.Empty(f.t, r.Header.Get("x-access-token"))
		_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": f.token, "expiresAt": "2030-01-01T00:00:00Z"})
	case "/v1/company/auth/revokeToken":
		f.mu.Lock()
		f.revoked++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		if f.handler != nil {
			f.handler(w, r)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}
}

func (f *fakeAPI) last() (*http.Request, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.requests)
	return f.requests[n-1], f.bodies[n-1]
}

func (f *fakeAPI) revokeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) (*fakeAPI, *Client) {
	t.Helper()

	api := &fakeAPI{t: t, token: "tok-123456", handler: handler}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)
	return api, client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		apiKey  string
		opts    []Option
		wantErr bool
		errMsg  string
		baseURL string
	}{
		{
			name:    "defaults",
			apiKey:  "test-key",
			baseURL: DefaultBaseURL,
		},
		{
			name:    "custom base URL with trailing slash",
			apiKey:  "test-key",
			opts:    []Option{WithBaseURL("http://localhost:8080/")},
			baseURL: "http://localhost:8080",
		},
		{
			name:    "missing API key",
			apiKey:  "",
			wantErr: true,
			errMsg:  "API key is required",
		},
		{
			name:    "invalid base URL",
			apiKey:  "test-key",
			opts:    []Option{WithBaseURL("not a url")},
			wantErr: true,
			errMsg:  "invalid base URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, logger, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, client.BaseURL())
			assert.False(t, client.HasToken())
			assert.NotNil(t, client.Users)
			assert.Same(t, client, client.Payments.client)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("test-key", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("test-key", logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.NotSame(t, customClient, client.httpClient)
		assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
		assert.NotNil(t, client.httpClient.CheckRedirect)
		assert.Nil(t, customClient.CheckRedirect, "caller's client must not be modified")
	})

	t.Run("custom redirect policy is kept", func(t *testing.T) {
		calls := 0
		customClient := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			calls++
			return http.ErrUseLastResponse
		}}
		client, err := NewClient("test-key", logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		require.NotNil(t, client.httpClient.CheckRedirect)
		assert.Equal(t, http.ErrUseLastResponse, client.httpClient.CheckRedirect(nil, nil))
		assert.Equal(t, 1, calls)
	})
}

func TestTokenLifecycle(t *testing.T) {
	var seenToken string
	api, client := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		seenToken = r.Header.Get("x-access-token")
		_, _ = w.Write([]byte(`{"users":[]}`))
	})
	ctx := context.Background()

	require.NoError(t, client.AcquireToken(ctx))
	assert.Equal(t, "tok-123456", client.Token())

	_, err := client.Users.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "tok-123456", seenToken)

	require.NoError(t, client.RevokeToken(ctx))
	assert.False(t, client.HasToken())
	assert.Equal(t, 1, api.revokeCount())

	req, _ := api.last()
	assert.Equal(t, "/v1/company/auth/revokeToken", req.URL.Path)
	assert.Equal(t, "tok-123456", req.Header.Get("x-access-token"))

	_, err = client.Users.List(ctx, nil)
	require.NoError(t, err)
	req, _ = api.last()
	_, present := req.Header["X-Access-Token"]
	assert.False(t, present, "no token header after revoke")
}

func TestAcquireTokenMissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expiresAt":"2030-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	err = client.AcquireToken(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindToken, apiErr.Kind)
	assert.False(t, client.HasToken())
}

func TestRevokeTokenFailureStillClears(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/company/auth/getToken" {
			_, _ = w.Write([]byte(`{"accessToken":"abc"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient("test-key", zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.AcquireToken(ctx))
	err = client.RevokeToken(ctx)
	require.Error(t, err)
	assert.False(t, client.HasToken())
}

func TestWithToken(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes after success", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		err := client.WithToken(ctx, func(ctx context.Context) error {
			assert.Equal(t, "tok-123456", client.Token())
			_, err := client.Groups.Courses(ctx, nil)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, api.revokeCount())
		assert.False(t, client.HasToken())
	})

	t.Run("revokes after error", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)
		boom := errors.New("boom")

		err := client.WithToken(ctx, func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, api.revokeCount())
		assert.False(t, client.HasToken())
	})

	t.Run("revokes after panic", func(t *testing.T) {
		api, client := newFakeAPI(t, nil)

		assert.Panics(t, func() {
			_ = client.WithToken(ctx, func(ctx context.Context) error {
				panic("boom")
			})
		})
		assert.Equal(t, 1, api.revokeCount())
		assert.False(t, client.HasToken())
	})

	t.Run("acquire failure skips body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client, err := NewClient("test-key", zerolog.Nop(), WithBaseURL(server.URL))
		require.NoError(t, err)

		called := false
		err = client.WithToken(ctx, func(ctx context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.False(t, called)
	})
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("http status", func(t *testing.T) {
		_, client := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code":"NotFound"}`, http.StatusNotFound)
		})

		resp, err := client.Users.Get(ctx, 42)
		assert.Nil(t, resp)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindHTTP, apiErr.Kind)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "HTTP error")
		assert.Contains(t, apiErr.Error(), "NotFound")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("too many redirects", func(t *testing.T) {
		_, client := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, r.URL.Path, http.StatusFound)
		})

		_, err := client.Payments.Types(ctx)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindRedirect, apiErr.Kind)
		assert.ErrorIs(t, err, ErrTooManyRedirects)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		client, err := NewClient("test-key", zerolog.Nop(), WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
		require.NoError(t, err)

		_, err = client.Lessons.List(ctx, nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindTimeout, apiErr.Kind)
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()

		client, err := NewClient("test-key", zerolog.Nop(), WithBaseURL(baseURL))
		require.NoError(t, err)

		_, err = client.Users.Attributes(ctx)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindConnection, apiErr.Kind)
		assert.ErrorIs(t, err, ErrConnection)
	})

	t.Run("canceled context", func(t *testing.T) {
		_, client := newFakeAPI(t, nil)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.Groups.Classes(canceled, nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindTransport, apiErr.Kind)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExecuteNonJSONBody(t *testing.T) {
	_, client := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK, not json"))
	})

	resp, err := client.Payments.Types(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.IsJSON())
	assert.Equal(t, "OK, not json", resp.Text())
	assert.Nil(t, resp.Value())
	assert.ErrorIs(t, resp.Decode(&map[string]any{}), ErrNotJSON)
}

func TestExecuteUnmarshalableBody(t *testing.T) {
	_, client := newFakeAPI(t, nil)

	_, err := client.Execute(context.Background(), http.MethodPost, "v1/company/tasks", nil, map[string]any{"body": make(chan int)})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Equal(t, http.MethodPost, apiErr.Method)
	assert.Contains(t, apiErr.Message, "failed to marshal request body")

	var typeErr *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestExecuteSendsJSONBody(t *testing.T) {
	api, client := newFakeAPI(t, nil)

	_, err := client.Execute(context.Background(), http.MethodPost, "/v1/company/tasks", nil, map[string]any{"body": "call back"})
	require.NoError(t, err)

	req, body := api.last()
	assert.Equal(t, "/v1/company/tasks", req.URL.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"body":"call back"}`, string(body))
}

func TestDebugTraceMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	api := &fakeAPI{t: t, token: "tok-secret-value"}
	server := httptest.NewServer(api)
	defer server.Close()

	client, err := NewClient("test-key", logger, WithBaseURL(server.URL))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.AcquireToken(ctx))
	_, err = client.Payments.List(ctx, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Sending Moyklass API request")
	assert.Contains(t, out, "/v1/company/payments")
	assert.NotContains(t, out, "tok-secret-value")
	assert.NotContains(t, out, `"test-key"`)
}
