package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	c := NewClient(Options{Timeout: 5 * time.Second, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	c.backoff = time.Millisecond
	return c
}

func TestGetRetriesRateLimits(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
	require.EqualValues(t, 3, calls.Load())
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient().Get(context.Background(), srv.URL)
	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	require.Equal(t, http.StatusForbidden, rl.StatusCode)
	require.EqualValues(t, maxRetries, calls.Load())
}

func TestGetDoesNotRetryOtherErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient().Get(context.Background(), srv.URL)
	require.ErrorContains(t, err, "unexpected status 404")
	require.EqualValues(t, 1, calls.Load())
}

func TestGetHonoursCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient()
	c.backoff = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, srv.URL)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPullCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.json":
			w.Write([]byte(`{"AK-47 | Redline (Field-Tested)": 33912}`))
		default:
			w.Write([]byte(`{"items": {}}`))
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cache", "catalog.json")
	c := testClient()

	_, err := c.PullCatalog(context.Background(), srv.URL+"/bad.json", dest)
	require.Error(t, err)
	_, statErr := os.Stat(dest)
	require.True(t, os.IsNotExist(statErr))

	cat, err := c.PullCatalog(context.Background(), srv.URL+"/good.json", dest)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Contains(t, string(data), "33912")
}
