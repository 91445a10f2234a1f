package iohttp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(retries int) *Client {
	cfg := config.RemoteConfig{
		MaxRetries:     retries,
		InitialBackoff: time.Millisecond,
	}
	return New("test", time.Second, cfg, nil)
}

func TestGetRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				w.WriteHeader(http.StatusTooManyRequests)
			case 2:
				w.WriteHeader(http.StatusBadGateway)
			default:
				io.WriteString(w, "ok")
			}
		}))
	defer srv.Close()

	resp, err := testClient(3).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
	defer srv.Close()

	_, err := testClient(2).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.RemoteUnavailableError))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.NotFound(w, r)
		}))
	defer srv.Close()

	_, err := testClient(3).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "404 is not retried")

	var stErr *StatusError
	require.True(t, errors.As(err.(*gn.Error).Err, &stErr))
	assert.Equal(t, http.StatusNotFound, stErr.StatusCode)
}

func TestGetCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(3).Get(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelay(t *testing.T) {
	c := &Client{backoff: 2 * time.Second}
	assert.Equal(t, 2*time.Second, c.delay(0))
	assert.Equal(t, 8*time.Second, c.delay(2))
	assert.Equal(t, maxBackoff, c.delay(10))
}
