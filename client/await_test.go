package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/townpass/roadwatch/client/internal/shardqueue"
)

func TestEnqueueFavorite_RunsInOrderAndAwaitConsistency(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		names []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		if _, ok := body["user_id"]; ok {
			t.Errorf("user_id must not be sent: %v", body)
		}
		mu.Lock()
		names = append(names, body["name"].(string))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"id":1,"name":"x","type":"place"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		ack, err := c.EnqueueFavorite(ctx, FavoriteData{"name": name, "user_id": 9}, "ext1")
		if err != nil {
			t.Fatalf("EnqueueFavorite(%s): %v", name, err)
		}
		if ack.JobID == "" || ack.ExternalID != "ext1" || ack.Status != "enqueued" {
			t.Fatalf("unexpected ack %+v", ack)
		}
	}
	if err := c.AwaitConsistency(ctx, "ext1"); err != nil {
		t.Fatalf("AwaitConsistency: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestEnqueueFavorite_FinalErrorReachesHandler(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"lat is required"}`))
	}))
	defer srv.Close()

	got := make(chan error, 1)
	c := newTestClient(t, srv.URL, WithAsyncErrorHandler(func(externalID string, err error) {
		if externalID != "ext2" {
			t.Errorf("unexpected external id %q", externalID)
		}
		got <- err
	}))
	if _, err := c.EnqueueFavorite(context.Background(), FavoriteData{"name": "x"}, "ext2"); err != nil {
		t.Fatalf("EnqueueFavorite: %v", err)
	}

	select {
	case err := <-got:
		if err.Error() != "lat is required" || StatusCode(err) != http.StatusUnprocessableEntity {
			t.Fatalf("unexpected async error %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("async error handler was not called")
	}
}

func TestEnqueueFavorite_Validation(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "http://example.com")
	if _, err := c.EnqueueFavorite(context.Background(), FavoriteData{"name": "x"}, ""); !errors.Is(err, ErrMissingExternalID) {
		t.Fatalf("expected ErrMissingExternalID, got %v", err)
	}
	if err := c.AwaitConsistency(context.Background(), ""); !errors.Is(err, ErrMissingExternalID) {
		t.Fatalf("expected ErrMissingExternalID, got %v", err)
	}
}

type stubExec struct {
	err   error
	stops int
}

func (s *stubExec) Submit(context.Context, string, shardqueue.Job) error { return s.err }
func (s *stubExec) Barrier(context.Context, string) error               { return s.err }
func (s *stubExec) Stop()                                                { s.stops++ }

func TestEnqueueFavorite_BackPressure(t *testing.T) {
	t.Parallel()
	stub := &stubExec{err: &shardqueue.QueueFullError{Shard: 1, Length: 8, Capacity: 8}}
	c, err := New("http://example.com", withExecutor(stub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.EnqueueFavorite(context.Background(), FavoriteData{"name": "x"}, "ext1")
	if !IsBackPressure(err) {
		t.Fatalf("expected back-pressure error, got %v", err)
	}

	_ = c.Close()
	_ = c.Close()
	if stub.stops != 1 {
		t.Fatalf("expected executor stopped once, got %d", stub.stops)
	}
}

func TestEnqueueFavorite_AfterClose(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "http://example.com")
	_ = c.Close()
	_, err := c.EnqueueFavorite(context.Background(), FavoriteData{"name": "x"}, "ext1")
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestAwaitConsistency_TimeoutIsNotAFavoriteFailure(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"id":1,"name":"slow","type":"place"}`))
	}))
	defer srv.Close()
	defer close(release)

	var (
		mu     sync.Mutex
		failed []error
	)
	c := newTestClient(t, srv.URL, WithAsyncErrorHandler(func(_ string, err error) {
		mu.Lock()
		failed = append(failed, err)
		mu.Unlock()
	}))
	if _, err := c.EnqueueFavorite(context.Background(), FavoriteData{"name": "slow"}, "ext3"); err != nil {
		t.Fatalf("EnqueueFavorite: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.AwaitConsistency(ctx, "ext3"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	release <- struct{}{}
	if err := c.AwaitConsistency(context.Background(), "ext3"); err != nil {
		t.Fatalf("AwaitConsistency: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(failed) != 0 {
		t.Fatalf("expected no async failures, got %v", failed)
	}
}
