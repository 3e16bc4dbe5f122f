package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{ token string }

func (s staticTokens) Token(context.Context) string { return s.token }

func TestClient_AttachesTenantAndAuthHeaders(t *testing.T) {
	var gotTenant, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant = r.Header.Get(TenantHeader)
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "parfum-web", staticTokens{token: "tok-123"})

	_, err := client.Do(context.Background(), "/me", RequestOptions{IncludeAuth: true})
	require.NoError(t, err)
	assert.Equal(t, "parfum-web", gotTenant)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "parfum-web", staticTokens{token: ""})

	_, err := client.Do(context.Background(), "/products", RequestOptions{IncludeAuth: true})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnwrapsDataField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"name":"Aventus"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "parfum-web", nil)

	payload, err := client.Do(context.Background(), "/products/1", RequestOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Aventus"}`, string(payload))
}

func TestClient_ReturnsRawBodyWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Aventus"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "parfum-web", nil)

	payload, err := client.Do(context.Background(), "/products/1", RequestOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Aventus"}`, string(payload))
}

func TestClient_ErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
		code    string
	}{
		{
			name:    "top-level message",
			body:    `{"message":"product not found","error":{"message":"ignored"}}`,
			status:  404,
			message: "product not found",
		},
		{
			name:    "nested error message with code",
			body:    `{"error":{"message":"filter invalid","code":"BAD_FILTER"}}`,
			status:  422,
			message: "filter invalid",
			code:    "BAD_FILTER",
		},
		{
			name:    "error as plain string",
			body:    `{"error":"session expired"}`,
			status:  401,
			message: "session expired",
		},
		{
			name:    "message inside data",
			body:    `{"data":{"message":"out of stock"}}`,
			status:  409,
			message: "out of stock",
		},
		{
			name:    "unparseable body synthesizes message",
			body:    `<html>gateway error</html>`,
			status:  502,
			message: "request failed with status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, "parfum-web", nil)

			_, err := client.Do(context.Background(), "/x", RequestOptions{})
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestClient_CapturesRateLimitHeaders(t *testing.T) {
	reset := time.Now().Add(time.Minute).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"rate limit exceeded"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "parfum-web", nil)

	_, err := client.Do(context.Background(), "/products", RequestOptions{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.RateLimit)
	assert.Equal(t, 100, apiErr.RateLimit.Limit)
	assert.Equal(t, 0, apiErr.RateLimit.Remaining)
	assert.Equal(t, time.Unix(reset, 0), apiErr.RateLimit.Reset)
}

func TestClient_CacheServesWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"data":[1,2,3]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "parfum-web", nil)
	ctx := context.Background()
	opts := RequestOptions{CacheKey: "products:page=1", CacheDuration: time.Minute}

	first, err := client.Do(ctx, "/products", opts)
	require.NoError(t, err)
	second, err := client.Do(ctx, "/products", opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second call must be served from cache")
}

func TestClient_InvalidateCacheForcesRefetch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "parfum-web", nil)
	ctx := context.Background()
	opts := RequestOptions{CacheKey: "products:page=1", CacheDuration: time.Minute}

	_, err := client.Do(ctx, "/products", opts)
	require.NoError(t, err)

	client.InvalidateCache("products:")

	_, err = client.Do(ctx, "/products", opts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}
