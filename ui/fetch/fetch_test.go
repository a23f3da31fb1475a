package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func wait(t *testing.T, ch <-chan Response) Response {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("callback not called")
		return Response{}
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"http://localhost:8000/", false},
		{"https://api.example.com/users", false},
		{"", true},
		{"localhost:8000", true},
		{"ftp://example.com/", true},
		{"http://", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		_, err := ParseEndpoint(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "ParseEndpoint(%q)", tt.raw)
		} else {
			assert.NoError(t, err, "ParseEndpoint(%q)", tt.raw)
		}
	}

	_, err := New("not a url")
	assert.Error(t, err)
}

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	c, err := New(srv.URL, quiet(), WithTracerProvider(tp))
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.Endpoint())

	ch := make(chan Response, 1)
	task := c.Get(context.Background(), func(r Response) { ch <- r })
	assert.Equal(t, uint64(1), task.ID())

	res := wait(t, ch)
	require.NoError(t, res.Err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `[{"id":1}]`, string(res.Body))

	<-task.Done()
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "fetch.Get", spans[0].Name())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	next := c.Get(context.Background(), func(r Response) { ch <- r })
	assert.Equal(t, uint64(2), next.ID())
	wait(t, ch)
}

func TestGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	c, err := New(srv.URL, quiet(), WithTracerProvider(tp))
	require.NoError(t, err)

	ch := make(chan Response, 1)
	task := c.Get(context.Background(), func(r Response) { ch <- r })
	res := wait(t, ch)

	var se *StatusError
	require.True(t, errors.As(res.Err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Contains(t, string(res.Body), "boom")

	<-task.Done()
	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, codes.Error, sr.Ended()[0].Status().Code)
}

func TestGetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, quiet())
	require.NoError(t, err)

	ch := make(chan Response, 1)
	c.Get(context.Background(), func(r Response) { ch <- r })
	res := wait(t, ch)
	assert.Error(t, res.Err)
	assert.Zero(t, res.Status)
}

func TestCancelSuppressesCallback(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, quiet())
	require.NoError(t, err)

	var called atomic.Bool
	task := c.Get(context.Background(), func(Response) { called.Store(true) })
	task.Cancel()
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish after cancel")
	}
	assert.False(t, called.Load())
}

func TestCancelWaitsForRunningCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c, err := New(srv.URL, quiet())
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	task := c.Get(context.Background(), func(Response) {
		close(entered)
		<-release
		finished.Store(true)
	})

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not called")
	}

	cancelled := make(chan struct{})
	go func() {
		task.Cancel()
		close(cancelled)
	}()

	select {
	case <-cancelled:
		t.Fatal("Cancel returned while the callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("Cancel did not return")
	}
	assert.True(t, finished.Load())
}

func TestNoCallbackAfterCancelReturns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c, err := New(srv.URL, quiet())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		var returned, late atomic.Bool
		task := c.Get(context.Background(), func(Response) {
			if returned.Load() {
				late.Store(true)
			}
		})
		task.Cancel()
		returned.Store(true)
		<-task.Done()
		assert.False(t, late.Load(), "iteration %d", i)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, quiet(), WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	ch := make(chan Response, 1)
	c.Get(context.Background(), func(r Response) { ch <- r })
	res := wait(t, ch)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestMaxBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	c, err := New(srv.URL, quiet(), WithMaxBody(4), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ch := make(chan Response, 1)
	c.Get(context.Background(), func(r Response) { ch <- r })
	res := wait(t, ch)
	require.NoError(t, res.Err)
	assert.Equal(t, "0123", string(res.Body))
}
