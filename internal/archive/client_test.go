package archive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchSpectrum(t *testing.T) {
	t.Run("Success case - returns payload and sends token and release", func(t *testing.T) {
		var gotPath, gotToken string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotToken = r.URL.Query().Get("token")
			w.Write([]byte("SIMPLE  =                    T"))
		}))
		defer server.Close()

		client := New(server.URL, "secret-token", 10, 5*time.Second)
		payload, err := client.FetchSpectrum(context.Background(), "12345")

		require.NoError(t, err)
		assert.Equal(t, "/dr10/spectrum/fits/12345", gotPath)
		assert.Equal(t, "secret-token", gotToken)
		assert.Equal(t, []byte("SIMPLE  =                    T"), payload)
	})

	t.Run("Server error is a retriable APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := New(server.URL, "t", 10, 5*time.Second)
		_, err := client.FetchSpectrum(context.Background(), "12345")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.True(t, apiErr.Retriable())
		assert.True(t, Retriable(err))
	})

	t.Run("Auth rejection is non-retriable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad token", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := New(server.URL, "t", 10, 5*time.Second)
		_, err := client.FetchSpectrum(context.Background(), "456")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.False(t, apiErr.Retriable())
		assert.False(t, Retriable(err))
	})

	t.Run("Not found is non-retriable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such obsid", http.StatusNotFound)
		}))
		defer server.Close()

		client := New(server.URL, "t", 10, 5*time.Second)
		_, err := client.FetchSpectrum(context.Background(), "789")

		assert.False(t, Retriable(err))
	})

	t.Run("Rate limiting is retriable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := New(server.URL, "t", 10, 5*time.Second)
		_, err := client.FetchSpectrum(context.Background(), "12345")

		assert.True(t, Retriable(err))
	})

	t.Run("Empty 2xx payload is a retriable fault", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := New(server.URL, "t", 10, 5*time.Second)
		_, err := client.FetchSpectrum(context.Background(), "12345")

		require.ErrorIs(t, err, ErrEmptyPayload)
		assert.True(t, Retriable(err))
	})

	t.Run("Transport failure is retriable, cancellation is not", func(t *testing.T) {
		client := New("http://127.0.0.1:1", "t", 10, time.Second)
		_, err := client.FetchSpectrum(context.Background(), "12345")

		require.Error(t, err)
		assert.True(t, Retriable(err))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = client.FetchSpectrum(ctx, "12345")
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, Retriable(err))
	})

	t.Run("Error body is truncated to 512 bytes", func(t *testing.T) {
		long := make([]byte, 2048)
		for i := range long {
			long[i] = 'x'
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write(long)
		}))
		defer server.Close()

		client := New(server.URL, "t", 10, 5*time.Second)
		_, err := client.FetchSpectrum(context.Background(), "12345")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Len(t, apiErr.Body, 512)
	})
}
